// Package compare is a subcommand of the root command. It reads two or
// three parsed benchmark tables and renders metric-by-metric comparison
// charts and a comparison workbook, with relative percentage differences
// computed against the first (baseline) table.
package compare

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"benchtab/internal/chart"
	"benchtab/internal/common"
	"benchtab/internal/report"
	"benchtab/internal/util"
)

const cmdName = "compare"

var examples = []string{
	fmt.Sprintf("  Compare two runs:            $ %s %s --table base.csv --table mod.csv --label baseline --label modified", common.AppName, cmdName),
	fmt.Sprintf("  Compare three runs:          $ %s %s --table a.csv --table b.csv --table c.csv", common.AppName, cmdName),
	fmt.Sprintf("  Choose metrics from a file:  $ %s %s --table base.csv --table mod.csv --metrics metrics.yaml", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Render comparison charts from parsed benchmark tables",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// flag vars
var (
	flagTables      []string
	flagLabels      []string
	flagMetricsFile string
	flagFormat      []string
)

// flag names
const (
	flagTablesName      = "table"
	flagLabelsName      = "label"
	flagMetricsFileName = "metrics"
)

var formatOptions = []string{common.FormatPNG, common.FormatXLSX}

const (
	minTables = 2
	maxTables = 3
)

func init() {
	Cmd.Flags().StringArrayVar(&flagTables, flagTablesName, nil, "parsed benchmark table (CSV); repeat per dataset, first is the baseline")
	Cmd.Flags().StringArrayVar(&flagLabels, flagLabelsName, nil, "display label per dataset, in --table order")
	Cmd.Flags().StringVar(&flagMetricsFile, flagMetricsFileName, "", "YAML file selecting the metrics to compare. See metrics.yaml for format.")
	Cmd.Flags().StringSliceVar(&flagFormat, common.FlagFormatName, []string{common.FormatPNG, common.FormatXLSX}, fmt.Sprintf("output formats: %s, or %s", strings.Join(formatOptions, ", "), common.FormatAll))
	_ = Cmd.MarkFlagRequired(flagTablesName)
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if len(flagTables) < minTables || len(flagTables) > maxTables {
		return fmt.Errorf("between %d and %d --%s flags required, got %d", minTables, maxTables, flagTablesName, len(flagTables))
	}
	if len(flagLabels) != 0 && len(flagLabels) != len(flagTables) {
		return fmt.Errorf("--%s must be given once per --%s", flagLabelsName, flagTablesName)
	}
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

// metricSpec selects one output table column for comparison.
type metricSpec struct {
	Column string `yaml:"column"`
	Title  string `yaml:"title"`
}

// defaultMetrics covers the throughput, latency, utilization, and
// per-packet efficiency columns most runs are compared on.
var defaultMetrics = []metricSpec{
	{Column: "Recv Thrput (Mb/s)", Title: "Receive Throughput"},
	{Column: "Mean RTT (us)", Title: "Mean Round-Trip Time"},
	{Column: "CPU Util (Fraction)", Title: "Total CPU Utilization"},
	{Column: "Cycles Per Packet", Title: "Cycles per Packet"},
	{Column: "Instructions per Second", Title: "Instructions per Second"},
	{Column: "instructions per packet", Title: "Instructions per Packet"},
	{Column: "L1 D-cache misses per packet", Title: "L1 D-cache Misses per Packet"},
	{Column: "Branch mis-pred per packet", Title: "Branch Mispredictions per Packet"},
	{Column: "ethernet_driver_CPU_Util", Title: "Ethernet Driver CPU Utilization"},
}

type metricsFile struct {
	Metrics []metricSpec `yaml:"metrics"`
}

func loadMetrics(path string) ([]metricSpec, error) {
	if path == "" {
		return defaultMetrics, nil
	}
	content, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file %s: %w", path, err)
	}
	var file metricsFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse metrics file %s: %w", path, err)
	}
	if len(file.Metrics) == 0 {
		return nil, fmt.Errorf("metrics file %s selects no metrics", path)
	}
	for i := range file.Metrics {
		if file.Metrics[i].Title == "" {
			file.Metrics[i].Title = file.Metrics[i].Column
		}
	}
	return file.Metrics, nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	metrics, err := loadMetrics(flagMetricsFile)
	if err != nil {
		return err
	}
	labels := flagLabels
	if len(labels) == 0 {
		for _, path := range flagTables {
			base := filepath.Base(path)
			labels = append(labels, strings.TrimSuffix(base, filepath.Ext(base)))
		}
	}
	tables := make([]report.Table, len(flagTables))
	for i, path := range flagTables {
		if tables[i], err = report.ReadCSVReport(path); err != nil {
			return err
		}
	}
	keys := commonKeys(tables)
	if len(keys) == 0 {
		return fmt.Errorf("input tables share no throughput levels")
	}
	if err := util.CreateDirectoryIfNotExists(appContext.OutputDir, 0755); err != nil { // #nosec G301
		return err
	}
	comparisons := buildComparisons(metrics, tables, labels, keys)
	var filesWritten []string
	if slices.Contains(flagFormat, common.FormatPNG) {
		chartFiles, err := renderCharts(comparisons, keys, appContext.OutputDir)
		if err != nil {
			return err
		}
		filesWritten = append(filesWritten, chartFiles...)
	}
	if slices.Contains(flagFormat, common.FormatXLSX) {
		workbookPath := filepath.Join(appContext.OutputDir, "comparison.xlsx")
		if err := renderWorkbook(comparisons, keys, workbookPath); err != nil {
			return err
		}
		filesWritten = append(filesWritten, workbookPath)
	}
	for _, file := range filesWritten {
		fmt.Printf("Report written: %s\n", file)
	}
	return nil
}

// comparison is one metric's aligned series across all datasets.
type comparison struct {
	metric metricSpec
	series []chart.Series
}

// commonKeys returns the throughput levels present in every table, in
// ascending order. Rows outside the intersection are skipped.
func commonKeys(tables []report.Table) []int {
	keySet := mapset.NewThreadUnsafeSet(tables[0].Keys...)
	for _, table := range tables[1:] {
		keySet = keySet.Intersect(mapset.NewThreadUnsafeSet(table.Keys...))
	}
	for _, table := range tables {
		for _, key := range table.Keys {
			if !keySet.Contains(key) {
				slog.Debug("throughput level not present in every table, skipping",
					slog.Int("throughput", key))
			}
		}
	}
	keys := keySet.ToSlice()
	slices.Sort(keys)
	return keys
}

func buildComparisons(metrics []metricSpec, tables []report.Table, labels []string, keys []int) []comparison {
	comparisons := make([]comparison, 0, len(metrics))
	for _, metric := range metrics {
		cmp := comparison{metric: metric}
		found := false
		for i, table := range tables {
			values, present, has := table.ColumnValues(metric.Column)
			series := chart.Series{Label: labels[i], Values: make([]float64, len(keys))}
			for j, key := range keys {
				series.Values[j] = math.NaN()
				if !has {
					continue
				}
				rowIdx := slices.Index(table.Keys, key)
				if rowIdx >= 0 && present[rowIdx] {
					series.Values[j] = values[rowIdx]
					found = true
				}
			}
			cmp.series = append(cmp.series, series)
		}
		if !found {
			slog.Debug("metric has no values in any table, skipping",
				slog.String("column", metric.Column))
			continue
		}
		comparisons = append(comparisons, cmp)
	}
	return comparisons
}
