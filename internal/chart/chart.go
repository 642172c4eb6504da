// Package chart renders metric-by-metric comparison visuals from parsed
// benchmark tables: grouped bars of each dataset's values per throughput
// level, and the relative percentage difference of each dataset against
// the baseline.
package chart

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one dataset's values for a single metric, aligned with the
// shared throughput keys. NaN marks an absent value.
type Series struct {
	Label  string
	Values []float64
}

// RelativeDiff returns ((comparison - baseline) / baseline) * 100 per
// element; NaN where either side is absent or the baseline is zero.
func RelativeDiff(baseline []float64, comparison []float64) []float64 {
	diff := make([]float64, len(baseline))
	for i := range baseline {
		if i >= len(comparison) || baseline[i] == 0 ||
			math.IsNaN(baseline[i]) || math.IsNaN(comparison[i]) {
			diff[i] = math.NaN()
			continue
		}
		diff[i] = (comparison[i] - baseline[i]) / baseline[i] * 100
	}
	return diff
}

// RenderComparison writes a grouped bar chart of every series' values per
// throughput level to path (format chosen by extension).
func RenderComparison(title string, yLabel string, keys []int, series []Series, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.X.Label.Text = "Requested Throughput (Mb/s)"
	barWidth := vg.Points(40 / float64(len(series)+1))
	for i, s := range series {
		values := make(plotter.Values, len(s.Values))
		for j, v := range s.Values {
			if math.IsNaN(v) {
				continue // zero-height bar for an absent value
			}
			values[j] = v
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return errors.Wrapf(err, "failed to build bars for %s", s.Label)
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		bars.Offset = barWidth * vg.Length(i-len(series)/2)
		p.Add(bars)
		p.Legend.Add(s.Label, bars)
	}
	p.Legend.Top = true
	p.NominalX(keyLabels(keys)...)
	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save chart %s", path)
	}
	return nil
}

// RenderRelativeDiff writes a line chart of each non-baseline series'
// percentage difference against the baseline.
func RenderRelativeDiff(title string, keys []int, baseline Series, others []Series, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Relative difference vs " + baseline.Label + " (%)"
	p.X.Label.Text = "Requested Throughput (Mb/s)"
	var args []any
	for _, s := range others {
		diff := RelativeDiff(baseline.Values, s.Values)
		pts := make(plotter.XYs, 0, len(diff))
		for i, v := range diff {
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(i), Y: v})
		}
		args = append(args, s.Label, pts)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return errors.Wrap(err, "failed to add relative difference lines")
	}
	p.Legend.Top = true
	p.NominalX(keyLabels(keys)...)
	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save chart %s", path)
	}
	return nil
}

func keyLabels(keys []int) []string {
	labels := make([]string, len(keys))
	for i, key := range keys {
		labels[i] = strconv.Itoa(key)
	}
	return labels
}
