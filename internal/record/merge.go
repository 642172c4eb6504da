package record

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"benchtab/internal/raw"
)

// Merge joins the IQ and processed iteration sets by exact throughput key
// into one record per key, ordered by ascending key. Each key is resolved
// independently: an iteration present in only one source is carried forward
// with that source's fields and left for the completeness filter to judge.
// IQ fields win on a name collision; the processed side only fills gaps.
//
// cpuKeyed is false when the processed log format carried no throughput
// labels; its iterations are then assigned keys from the IQ side's capture
// order, the only place a positional association survives.
//
// overlap is false when both sources produced iterations but their key sets
// are fully disjoint, a schema mismatch the caller should surface since the
// output may be empty after filtering.
func Merge(iq []raw.Iteration, cpu []raw.Iteration, cpuKeyed bool) (records []Record, overlap bool) {
	if !cpuKeyed {
		cpu = assignKeys(iq, cpu)
	}
	iqKeys := mapset.NewThreadUnsafeSet[int]()
	builders := make(map[int]raw.FieldSet)
	for _, iter := range iq {
		iqKeys.Add(iter.Key)
		builders[iter.Key] = iter.Fields.Clone()
	}
	cpuKeys := mapset.NewThreadUnsafeSet[int]()
	for _, iter := range cpu {
		if iter.Key == raw.UnknownKey {
			continue // more processed iterations than IQ keys to assign from
		}
		cpuKeys.Add(iter.Key)
		builder := builders[iter.Key]
		if builder == nil {
			builder = make(raw.FieldSet, len(iter.Fields))
			builders[iter.Key] = builder
		}
		for name, value := range iter.Fields {
			if _, ok := builder[name]; !ok {
				builder[name] = value
			}
		}
	}
	overlap = iqKeys.IsEmpty() || cpuKeys.IsEmpty() || !iqKeys.Intersect(cpuKeys).IsEmpty()
	keys := make([]int, 0, len(builders))
	for key := range builders {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fields := builders[key]
		// the brace format reports only a core cycle counter; it stands in
		// for total cycles when the IQ side did not supply one
		if _, ok := fields[raw.FieldTotalCycles]; !ok {
			if coreCycles, ok := fields[raw.FieldCoreCycles]; ok {
				fields[raw.FieldTotalCycles] = coreCycles
			}
		}
		records = append(records, Record{Key: key, Fields: fields})
	}
	return
}

// assignKeys pairs unkeyed processed iterations with IQ keys in capture
// order. Leftover processed iterations keep UnknownKey and are dropped by
// the merge.
func assignKeys(iq []raw.Iteration, cpu []raw.Iteration) []raw.Iteration {
	assigned := make([]raw.Iteration, len(cpu))
	copy(assigned, cpu)
	for i := range assigned {
		if i < len(iq) {
			assigned[i].Key = iq[i].Key
		} else {
			slog.Warn("unkeyed processed iteration has no IQ counterpart, dropping",
				slog.Int("index", i))
		}
	}
	return assigned
}
