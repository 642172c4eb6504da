package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"benchtab/internal/util"
)

// CreateCSVReport renders the table as CSV: one header row, one data row
// per record.
func CreateCSVReport(table Table) (out []byte, err error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	headers := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		headers[i] = column.Name
	}
	if err = writer.Write(headers); err != nil {
		return
	}
	for _, row := range table.Rows {
		if err = writer.Write(row); err != nil {
			return
		}
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		return
	}
	out = buf.Bytes()
	return
}

// WriteReport writes rendered report content to path atomically; a failure
// never leaves a partial file in a readable state.
func WriteReport(path string, content []byte) error {
	if err := util.WriteFileAtomic(path, content, 0644); err != nil { // #nosec G306
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// ReadCSVReport loads a previously written CSV report. The header row is
// matched against the fixed schema by column name; empty cells surface as
// absent values in the row maps.
func ReadCSVReport(path string) (table Table, err error) {
	content, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return
	}
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		err = fmt.Errorf("failed to parse %s: %w", path, err)
		return
	}
	if len(all) == 0 {
		err = fmt.Errorf("%s: empty report", path)
		return
	}
	headers := all[0]
	table.Columns = make([]Column, len(headers))
	for i, header := range headers {
		table.Columns[i] = Column{Name: header, Decimals: -1}
		for _, column := range Schema {
			if column.Name == header {
				table.Columns[i] = column
				break
			}
		}
	}
	keyIdx := table.ColumnIndex("Requ Thrput (Mb/s)")
	if keyIdx < 0 {
		err = fmt.Errorf("%s: missing throughput column", path)
		return
	}
	for _, row := range all[1:] {
		if len(row) != len(headers) {
			continue
		}
		key, keyErr := strconv.Atoi(row[keyIdx])
		if keyErr != nil {
			err = fmt.Errorf("%s: bad throughput key %q: %w", path, row[keyIdx], keyErr)
			return
		}
		table.Keys = append(table.Keys, key)
		table.Rows = append(table.Rows, row)
	}
	return
}

// ColumnValues returns the named column as floats, one per row; absent
// cells are reported in the ok mask.
func (t Table) ColumnValues(name string) (values []float64, ok []bool, found bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, nil, false
	}
	values = make([]float64, len(t.Rows))
	ok = make([]bool, len(t.Rows))
	for i, row := range t.Rows {
		if row[idx] == "" {
			continue
		}
		value, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			continue
		}
		values[i] = value
		ok[i] = true
	}
	return values, ok, true
}
