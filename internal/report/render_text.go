package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// summaryColumns is the subset rendered in the stdout summary; the full
// schema is too wide for a terminal.
var summaryColumns = []string{
	"Requ Thrput (Mb/s)",
	"Recv Thrput (Mb/s)",
	"Mean RTT (us)",
	"CPU Util (Fraction)",
	"Cycles Per Packet",
	"Instructions per Second",
}

// CreateTextReport renders the full table as fixed-width text.
func CreateTextReport(table Table) []byte {
	headers := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		headers[i] = column.Name
	}
	return []byte(renderColumns(headers, table.Rows))
}

// CreateTextSummary renders the summary column subset, with thousands
// separators on large counts for readability.
func CreateTextSummary(table Table) string {
	printer := message.NewPrinter(language.English) // commas at thousands, e.g., 1,234,567,890
	var indexes []int
	var headers []string
	for _, name := range summaryColumns {
		if idx := table.ColumnIndex(name); idx >= 0 {
			indexes = append(indexes, idx)
			headers = append(headers, name)
		}
	}
	rows := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		cells := make([]string, len(indexes))
		for j, idx := range indexes {
			cells[j] = row[idx]
			if value, err := strconv.ParseFloat(row[idx], 64); err == nil && value >= 10000 && value == float64(int64(value)) {
				cells[j] = printer.Sprintf("%d", int64(value))
			}
		}
		rows[i] = cells
	}
	return renderColumns(headers, rows)
}

func renderColumns(headers []string, rows [][]string) string {
	var sb strings.Builder
	// find the longest item per column -- can be the column header or a value
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
		for _, row := range rows {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}
	const columnSpacing = 3
	for i, header := range headers {
		sb.WriteString(fmt.Sprintf("%-*s", widths[i]+columnSpacing, header))
	}
	sb.WriteString("\n")
	for i := range headers {
		sb.WriteString(fmt.Sprintf("%-*s", widths[i]+columnSpacing, strings.Repeat("=", widths[i])))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(fmt.Sprintf("%-*s", widths[i]+columnSpacing, cell))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
