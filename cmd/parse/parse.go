// Package parse is a subcommand of the root command. It converts one
// benchmark run's pair of raw text logs into a structured per-iteration
// performance table.
package parse

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"benchtab/internal/common"
	"benchtab/internal/derive"
	"benchtab/internal/raw"
	"benchtab/internal/record"
	"benchtab/internal/report"
	"benchtab/internal/util"
)

const cmdName = "parse"

var examples = []string{
	fmt.Sprintf("  Parse a run:                 $ %s %s --iq run_iq.txt --cpu run_out.txt", common.AppName, cmdName),
	fmt.Sprintf("  Choose the output file:      $ %s %s --iq run_iq.txt --cpu run_out.txt --out results/base.csv", common.AppName, cmdName),
	fmt.Sprintf("  Render every format:         $ %s %s --iq run_iq.txt --cpu run_out.txt --format all", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Convert raw benchmark logs into a performance table",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// flag vars
var (
	flagIQFile  string
	flagCPUFile string
	flagOutFile string
	flagFormat  []string
)

// flag names
const (
	flagIQFileName  = "iq"
	flagCPUFileName = "cpu"
	flagOutFileName = "out"
)

var formatOptions = []string{common.FormatCSV, common.FormatXLSX, common.FormatTxt}

func init() {
	Cmd.Flags().StringVar(&flagIQFile, flagIQFileName, "", "path to the IQ (throughput/latency) log")
	Cmd.Flags().StringVar(&flagCPUFile, flagCPUFileName, "", "path to the processed (CPU/hardware counter) log")
	Cmd.Flags().StringVar(&flagOutFile, flagOutFileName, "", "path of the CSV output file (default: <output dir>/benchmark.csv)")
	Cmd.Flags().StringSliceVar(&flagFormat, common.FlagFormatName, []string{common.FormatCSV}, fmt.Sprintf("output formats: %s, or %s", strings.Join(formatOptions, ", "), common.FormatAll))
	_ = Cmd.MarkFlagRequired(flagIQFileName)
	_ = Cmd.MarkFlagRequired(flagCPUFileName)
}

func validateFlags(cmd *cobra.Command, args []string) error {
	for _, format := range flagFormat {
		if format != common.FormatAll && !slices.Contains(formatOptions, format) {
			return fmt.Errorf("invalid format: %s", format)
		}
	}
	if slices.Contains(flagFormat, common.FormatAll) {
		flagFormat = formatOptions
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	iqContent, err := readInput(flagIQFile)
	if err != nil {
		return err
	}
	cpuContent, err := readInput(flagCPUFile)
	if err != nil {
		return err
	}
	iqIterations, _ := raw.ParseIQ(flagIQFile, iqContent)
	cpuIterations, cpuKeyed, _ := raw.ParseCPU(flagCPUFile, cpuContent)
	if len(iqIterations) == 0 && len(cpuIterations) == 0 {
		return fmt.Errorf("%w from %s and %s", raw.ErrNoIterations, flagIQFile, flagCPUFile)
	}
	if len(iqIterations) == 0 {
		slog.Warn("no iterations extracted from IQ log", slog.String("path", flagIQFile))
	}
	if len(cpuIterations) == 0 {
		slog.Warn("no iterations extracted from processed log", slog.String("path", flagCPUFile))
	}
	records, overlap := record.Merge(iqIterations, cpuIterations, cpuKeyed)
	if !overlap {
		slog.Warn("input files share no throughput levels, output may be empty after filtering",
			slog.String("iq", flagIQFile), slog.String("cpu", flagCPUFile))
		fmt.Fprintf(os.Stderr, "Warning: %s and %s share no throughput levels; the output may be empty.\n", flagIQFile, flagCPUFile)
	}
	for i := range records {
		derive.Enrich(records[i].Fields)
	}
	kept, dropped := record.Filter(records)
	for _, rec := range dropped {
		slog.Info("dropping incomplete iteration",
			slog.Int("throughput", rec.Key),
			slog.String("missing", strings.Join(rec.MissingRequired(), ", ")))
	}
	table := report.BuildTable(kept)
	csvPath := flagOutFile
	if csvPath == "" {
		if err := util.CreateDirectoryIfNotExists(appContext.OutputDir, 0755); err != nil { // #nosec G301
			return err
		}
		csvPath = filepath.Join(appContext.OutputDir, "benchmark.csv")
	}
	filesWritten, err := writeReports(table, csvPath)
	if err != nil {
		return err
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(report.CreateTextSummary(table))
	}
	fmt.Printf("%d iteration(s) parsed, %d dropped as incomplete\n", len(kept), len(dropped))
	for _, file := range filesWritten {
		fmt.Printf("Report written: %s\n", file)
	}
	return nil
}

func readInput(path string) (content string, err error) {
	exists, err := util.FileExists(path)
	if err != nil {
		return "", fmt.Errorf("failed to access input file %s: %w", path, err)
	}
	if !exists {
		return "", fmt.Errorf("input file not found: %s", path)
	}
	bytes, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return string(bytes), nil
}

func writeReports(table report.Table, csvPath string) (filesWritten []string, err error) {
	for _, format := range flagFormat {
		var out []byte
		var path string
		switch format {
		case common.FormatCSV:
			if out, err = report.CreateCSVReport(table); err != nil {
				return
			}
			path = csvPath
		case common.FormatXLSX:
			if out, err = report.CreateXlsxReport(table); err != nil {
				return
			}
			path = strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".xlsx"
		case common.FormatTxt:
			out = report.CreateTextReport(table)
			path = strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".txt"
		}
		if err = report.WriteReport(path, out); err != nil {
			return
		}
		filesWritten = append(filesWritten, path)
	}
	return
}
