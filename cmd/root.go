// Package cmd provides the command line interface for the application.
package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"benchtab/cmd/compare"
	"benchtab/cmd/parse"
	"benchtab/internal/common"
	"benchtab/internal/util"
)

var gLogFile *os.File
var gVersion = "9.9.9" // overwritten by ldflags in Makefile

// LongAppName is the name of the application
const LongAppName = "BenchTab"

var examples = []string{
	fmt.Sprintf("  Parse a benchmark run into a table:     $ %s parse --iq run_iq.txt --cpu run_out.txt", common.AppName),
	fmt.Sprintf("  Compare two parsed runs:                $ %s compare --table base.csv --table mod.csv --label baseline --label modified", common.AppName),
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:                common.AppName,
	Short:              common.AppName,
	Long:               fmt.Sprintf(`%s (%s) converts raw network-throughput benchmark logs into structured per-iteration performance tables and comparison charts.`, LongAppName, common.AppName),
	Example:            strings.Join(examples, "\n"),
	PersistentPreRunE:  initializeApplication, // will only be run if command has a 'Run' function
	PersistentPostRunE: terminateApplication,  // ...
	Version:            gVersion,
}

var (
	// logging
	flagDebug     bool
	flagLogStdOut bool
	// output
	flagOutputDir string
)

const (
	flagDebugName     = "debug"
	flagLogStdOutName = "log-stdout"
	flagOutputDirName = "output"
)

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{}) // block the help command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddGroup([]*cobra.Group{{ID: "primary", Title: "Commands:"}}...)
	rootCmd.AddCommand(parse.Cmd)
	rootCmd.AddCommand(compare.Cmd)
	// Global (persistent) flags
	rootCmd.PersistentFlags().BoolVar(&flagDebug, flagDebugName, false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagLogStdOut, flagLogStdOutName, false, "write logs to stdout")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, flagOutputDirName, "", "override the output directory")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.EnableCommandSorting = false
	cobra.EnableCaseInsensitive = true
	err := rootCmd.Execute()
	if err != nil {
		terminateErr := terminateApplication(rootCmd, os.Args)
		if terminateErr != nil {
			slog.Error("Error terminating application", slog.String("error", terminateErr.Error()))
			fmt.Printf("Error: %v\n", terminateErr)
		}
		os.Exit(1)
	}
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	timestamp := time.Now().Local().Format("2006-01-02_15-04-05") // app startup time
	// verify requested output directory exists or choose a default
	var outputDir string
	if flagOutputDir != "" {
		var err error
		outputDir, err = util.AbsPath(flagOutputDir)
		if err != nil {
			fmt.Printf("Error: failed to expand output dir %v\n", err)
			os.Exit(1)
		}
		exists, err := util.DirectoryExists(outputDir)
		if err != nil {
			fmt.Printf("Error: failed to determine if output dir exists: %v\n", err)
			os.Exit(1)
		}
		if !exists {
			fmt.Printf("Error: requested output dir, %s, does not exist\n", outputDir)
			os.Exit(1)
		}
	} else {
		// set output dir path to app name + timestamp (don't create the directory)
		outputDirName := common.AppName + "_" + timestamp
		var err error
		// outputDir will be in current working directory
		outputDir, err = util.AbsPath(outputDirName)
		if err != nil {
			fmt.Printf("Error: failed to expand output dir %v\n", err)
			os.Exit(1)
		}
	}
	// configure logging
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
		logOpts.AddSource = false
	}
	if flagLogStdOut {
		handler := slog.NewJSONHandler(os.Stdout, &logOpts)
		slog.SetDefault(slog.New(handler))
	} else { // log to file in current directory
		var err error
		gLogFile, err = os.OpenFile(common.AppName+".log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) // #nosec G302
		if err != nil {
			fmt.Printf("Error: failed to open log file: %v\n", err)
			os.Exit(1)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(gLogFile, &logOpts)))
	}
	slog.Info("Starting up", slog.String("app", common.AppName), slog.String("version", gVersion), slog.Int("PID", os.Getpid()), slog.String("arguments", strings.Join(os.Args, " ")))
	// set app context
	cmd.Parent().SetContext(
		context.WithValue(
			context.Background(),
			common.AppContext{},
			common.AppContext{
				Timestamp: timestamp,
				OutputDir: outputDir,
				Version:   gVersion,
				Debug:     flagDebug},
		),
	)
	return nil
}

// terminateApplication closes the log file after logging shutdown
func terminateApplication(cmd *cobra.Command, args []string) error {
	slog.Info("Shutting down", slog.String("app", common.AppName), slog.String("version", gVersion), slog.Int("PID", os.Getpid()))
	if gLogFile != nil {
		err := gLogFile.Close()
		if err != nil {
			slog.Error("error closing log file", slog.String("logFile", gLogFile.Name()), slog.String("error", err.Error()))
			return err
		}
		gLogFile = nil
	}
	return nil
}
