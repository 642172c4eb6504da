// Package record defines the per-iteration performance record, the merge of
// the two raw sources into one record per throughput level, and the
// completeness gate between parsed and reported data.
package record

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"benchtab/internal/raw"
)

// Record is the canonical unit of the pipeline: one benchmark iteration,
// keyed by the requested throughput level in Mb/s, with every raw and
// derived field it accumulated. Records are immutable once filtered.
type Record struct {
	Key    int
	Fields raw.FieldSet
}

// RequiredFields is the minimal raw field set a record must carry to be
// meaningful. The completeness filter and the test suite share this one
// declaration. Derived fields never appear here; they are not validity
// signals.
var RequiredFields = []string{
	raw.FieldRequestedThroughput,
	raw.FieldKernelCycles,
	raw.FieldTotalCycles,
	raw.FieldInstructions,
}

// Complete reports whether every required field is present.
func (r Record) Complete() bool {
	for _, name := range RequiredFields {
		if _, ok := r.Fields[name]; !ok {
			return false
		}
	}
	return true
}

// MissingRequired lists the required fields the record lacks.
func (r Record) MissingRequired() (missing []string) {
	for _, name := range RequiredFields {
		if _, ok := r.Fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return
}

// Filter drops records that are missing any required field. Optional fields,
// e.g., a single component's utilization, never trigger rejection. This is
// the only gate between "parsed" and "reported": a record either survives
// fully populated for the required set or does not appear at all.
func Filter(records []Record) (kept []Record, dropped []Record) {
	for _, rec := range records {
		if rec.Complete() {
			kept = append(kept, rec)
		} else {
			dropped = append(dropped, rec)
		}
	}
	return
}
