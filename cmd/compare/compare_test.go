package compare

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchtab/internal/report"
)

func TestMetricSlug(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"Recv Thrput (Mb/s)", "recv_thrput_mb_s"},
		{"CPU Util (Fraction)", "cpu_util_fraction"},
		{"ethernet_driver_CPU_Util", "ethernet_driver_cpu_util"},
		{"L1 D-cache misses per packet", "l1_d_cache_misses_per_packet"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metricSlug(tt.column))
	}
}

func TestLoadMetricsDefault(t *testing.T) {
	metrics, err := loadMetrics("")
	require.NoError(t, err)
	assert.Equal(t, defaultMetrics, metrics)
}

func TestLoadMetricsFromFile(t *testing.T) {
	content := `metrics:
  - column: "Recv Thrput (Mb/s)"
    title: "Receive Throughput"
  - column: "Cycles Per Packet"
`
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	metrics, err := loadMetrics(path)
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, "Receive Throughput", metrics[0].Title)
	// a missing title falls back to the column name
	assert.Equal(t, "Cycles Per Packet", metrics[1].Title)
}

func TestLoadMetricsErrors(t *testing.T) {
	_, err := loadMetrics(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("metrics: []\n"), 0644))
	_, err = loadMetrics(empty)
	assert.ErrorContains(t, err, "selects no metrics")
}

func TestCommonKeys(t *testing.T) {
	tables := []report.Table{
		{Keys: []int{10, 100, 1000}},
		{Keys: []int{100, 10, 500}},
	}
	assert.Equal(t, []int{10, 100}, commonKeys(tables))
}

func TestBuildComparisons(t *testing.T) {
	columns := []report.Column{
		{Name: "Requ Thrput (Mb/s)"},
		{Name: "Cycles Per Packet"},
	}
	base := report.Table{
		Columns: columns,
		Keys:    []int{10, 100},
		Rows:    [][]string{{"10", "5000"}, {"100", "4000"}},
	}
	mod := report.Table{
		Columns: columns,
		Keys:    []int{100, 10},
		Rows:    [][]string{{"100", "3500"}, {"10", ""}},
	}
	metrics := []metricSpec{
		{Column: "Cycles Per Packet", Title: "Cycles per Packet"},
		{Column: "No Such Column", Title: "Absent"},
	}
	comparisons := buildComparisons(metrics, []report.Table{base, mod}, []string{"base", "mod"}, []int{10, 100})
	require.Len(t, comparisons, 1, "metrics without any values are skipped")
	cmp := comparisons[0]
	require.Len(t, cmp.series, 2)
	assert.Equal(t, "base", cmp.series[0].Label)
	// values align to the shared key order, independent of row order
	assert.InDelta(t, 5000.0, cmp.series[0].Values[0], 1e-9)
	assert.InDelta(t, 4000.0, cmp.series[0].Values[1], 1e-9)
	assert.True(t, math.IsNaN(cmp.series[1].Values[0]), "empty cell surfaces as NaN")
	assert.InDelta(t, 3500.0, cmp.series[1].Values[1], 1e-9)
}

func TestValidateFlags(t *testing.T) {
	origTables, origLabels, origFormat := flagTables, flagLabels, flagFormat
	defer func() {
		flagTables, flagLabels, flagFormat = origTables, origLabels, origFormat
	}()
	flagFormat = []string{"png"}

	flagTables = []string{"a.csv"}
	flagLabels = nil
	assert.Error(t, validateFlags(Cmd, nil))

	flagTables = []string{"a.csv", "b.csv", "c.csv", "d.csv"}
	assert.Error(t, validateFlags(Cmd, nil))

	flagTables = []string{"a.csv", "b.csv"}
	assert.NoError(t, validateFlags(Cmd, nil))

	flagLabels = []string{"one"}
	assert.Error(t, validateFlags(Cmd, nil))
	flagLabels = []string{"one", "two"}
	assert.NoError(t, validateFlags(Cmd, nil))

	flagFormat = []string{"bogus"}
	assert.Error(t, validateFlags(Cmd, nil))
	flagFormat = []string{"all"}
	assert.NoError(t, validateFlags(Cmd, nil))
	assert.Equal(t, formatOptions, flagFormat)
}
