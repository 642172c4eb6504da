package chart

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeDiff(t *testing.T) {
	baseline := []float64{100, 200, 0, math.NaN(), 50}
	comparison := []float64{110, 150, 10, 20, math.NaN()}
	diff := RelativeDiff(baseline, comparison)
	require.Len(t, diff, 5)
	assert.InDelta(t, 10.0, diff[0], 1e-9)
	assert.InDelta(t, -25.0, diff[1], 1e-9)
	assert.True(t, math.IsNaN(diff[2]), "zero baseline yields no percentage")
	assert.True(t, math.IsNaN(diff[3]))
	assert.True(t, math.IsNaN(diff[4]))
}

func TestRelativeDiffShortComparison(t *testing.T) {
	diff := RelativeDiff([]float64{100, 200}, []float64{110})
	require.Len(t, diff, 2)
	assert.InDelta(t, 10.0, diff[0], 1e-9)
	assert.True(t, math.IsNaN(diff[1]))
}

func TestRenderComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric.png")
	series := []Series{
		{Label: "base", Values: []float64{1, 2, 3}},
		{Label: "mod", Values: []float64{1.5, math.NaN(), 2.5}},
	}
	require.NoError(t, RenderComparison("Metric", "value", []int{10, 100, 1000}, series, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderRelativeDiff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric_reldiff.png")
	baseline := Series{Label: "base", Values: []float64{1, 2, 3}}
	others := []Series{{Label: "mod", Values: []float64{1.5, 2.2, math.NaN()}}}
	require.NoError(t, RenderRelativeDiff("Metric", []int{10, 100, 1000}, baseline, others, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
