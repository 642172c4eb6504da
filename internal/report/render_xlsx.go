package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "benchmark"

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

// CreateXlsxReport renders the table as a single-sheet XLSX workbook.
// Numeric cells are written as numbers so downstream spreadsheet formulas
// work on them directly.
func CreateXlsxReport(table Table) (out []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	if err = f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	row := 1
	for col, column := range table.Columns {
		_ = f.SetCellValue(xlsxSheetName, cellName(col+1, row), column.Name)
		_ = f.SetCellStyle(xlsxSheetName, cellName(col+1, row), cellName(col+1, row), headerStyle)
	}
	row++
	for _, tableRow := range table.Rows {
		for col, cell := range tableRow {
			if cell == "" {
				continue
			}
			if value, parseErr := strconv.ParseFloat(cell, 64); parseErr == nil {
				_ = f.SetCellValue(xlsxSheetName, cellName(col+1, row), value)
			} else {
				_ = f.SetCellValue(xlsxSheetName, cellName(col+1, row), cell)
			}
		}
		row++
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return
	}
	out = buf.Bytes()
	return
}
