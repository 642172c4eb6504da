package compare

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"benchtab/internal/chart"
)

// renderCharts writes one value chart and one relative-difference chart per
// metric to the output directory.
func renderCharts(comparisons []comparison, keys []int, outputDir string) (filesWritten []string, err error) {
	for _, cmp := range comparisons {
		slug := metricSlug(cmp.metric.Column)
		valuesPath := filepath.Join(outputDir, slug+".png")
		if err = chart.RenderComparison(cmp.metric.Title, cmp.metric.Column, keys, cmp.series, valuesPath); err != nil {
			return
		}
		filesWritten = append(filesWritten, valuesPath)
		diffPath := filepath.Join(outputDir, slug+"_reldiff.png")
		if err = chart.RenderRelativeDiff(cmp.metric.Title, keys, cmp.series[0], cmp.series[1:], diffPath); err != nil {
			return
		}
		filesWritten = append(filesWritten, diffPath)
	}
	return
}

// renderWorkbook writes every metric's values and relative differences into
// one XLSX workbook, one block of columns per metric on a single sheet.
func renderWorkbook(comparisons []comparison, keys []int, path string) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	const sheetName = "comparison"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	row := 1
	for _, cmp := range comparisons {
		col := 1
		_ = f.SetCellValue(sheetName, cellName(col, row), cmp.metric.Title)
		_ = f.SetCellStyle(sheetName, cellName(col, row), cellName(col, row), headerStyle)
		row++
		headers := []string{"Requested Throughput (Mb/s)"}
		for _, series := range cmp.series {
			headers = append(headers, series.Label)
		}
		baseline := cmp.series[0]
		for _, series := range cmp.series[1:] {
			headers = append(headers, fmt.Sprintf("%s vs %s (%%)", series.Label, baseline.Label))
		}
		for i, header := range headers {
			_ = f.SetCellValue(sheetName, cellName(col+i, row), header)
			_ = f.SetCellStyle(sheetName, cellName(col+i, row), cellName(col+i, row), headerStyle)
		}
		row++
		diffs := make([][]float64, 0, len(cmp.series)-1)
		for _, series := range cmp.series[1:] {
			diffs = append(diffs, chart.RelativeDiff(baseline.Values, series.Values))
		}
		for keyIdx, key := range keys {
			col = 1
			_ = f.SetCellValue(sheetName, cellName(col, row), key)
			col++
			for _, series := range cmp.series {
				setFloatCell(f, sheetName, cellName(col, row), series.Values[keyIdx])
				col++
			}
			for _, diff := range diffs {
				setFloatCell(f, sheetName, cellName(col, row), diff[keyIdx])
				col++
			}
			row++
		}
		row++ // blank row between metric blocks
	}
	return f.SaveAs(path)
}

func setFloatCell(f *excelize.File, sheetName string, cell string, value float64) {
	if value != value { // NaN, leave the cell empty
		return
	}
	_ = f.SetCellValue(sheetName, cell, value)
}

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

// metricSlug converts a column header into a file name fragment.
func metricSlug(column string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(column) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				sb.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(sb.String(), "_")
}
