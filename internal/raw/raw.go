// Package raw extracts named numeric fields from the two benchmark log
// formats: the IQ throughput/latency log and the processed CPU/hardware
// counter log. Extraction is label driven and tolerant of missing fields;
// a field that does not appear in an iteration's block is simply absent
// from that iteration's field set.
package raw

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
)

// FieldSet maps canonical field names to extracted numeric values.
type FieldSet map[string]float64

// Clone returns a copy of the field set.
func (fs FieldSet) Clone() FieldSet {
	clone := make(FieldSet, len(fs))
	for name, value := range fs {
		clone[name] = value
	}
	return clone
}

// Iteration holds the fields extracted for one benchmark iteration. Key is
// the requested throughput level in Mb/s. An unkeyed source (see ParseCPU)
// reports UnknownKey for every iteration.
type Iteration struct {
	Key    int
	Fields FieldSet
}

// UnknownKey marks iterations from a source format that does not carry
// throughput labels. Keys for those iterations are assigned during the merge.
const UnknownKey = -1

// Fault describes a recoverable extraction failure: a line in a recognized
// location held non-numeric content where a number was expected. The
// affected field is left absent; extraction of other iterations continues.
type Fault struct {
	Source string // input file the fault occurred in
	Line   int    // 1-based line number
	Field  string // canonical field name, when known
	Token  string // the offending text
}

func (f Fault) Error() string {
	return fmt.Sprintf("%s:%d: non-numeric value %q for field %s", f.Source, f.Line, f.Token, f.Field)
}

// ErrNoIterations is returned when an input pair yields no iterations at all.
var ErrNoIterations = errors.New("no iterations could be extracted")
