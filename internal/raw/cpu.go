package raw

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// The processed log is the CPU/hardware counter side of a benchmark run.
// Two capture formats exist:
//
// Sectioned CSV: "System Total <N>Mb/s" rows carry cycle counters per
// throughput level, a hardware counter block carries one row per iteration
// in System Total order, and TEST-delimited blocks carry per-component CPU
// utilization fractions.
//
// Brace blocks: "{ L1 i-cache misses: N ... }" and "Total utilisation
// details: { ... }" pairs, one of each per iteration, with no throughput
// labels at all. Iterations from this format are reported with UnknownKey
// and keys are assigned during the merge from the IQ side's order.

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

const (
	cpuSystemTotalPrefix = "System Total "
	cpuTestMarker        = "TEST"
	cpuThroughputSuffix  = "Mb/s"
)

// systemTotalColumns maps the "System Total" row positions (after the label)
// to canonical field names.
var systemTotalColumns = []string{
	FieldCoreCycles,
	FieldSystemCycles,
	FieldKernelCycles,
	FieldUserCycles,
	FieldKernelEntries,
	FieldSchedules,
}

// hwCounterColumns maps the hardware counter block's column positions to
// canonical field names.
var hwCounterColumns = []string{
	FieldL1ICacheMisses,
	FieldL1DCacheMisses,
	FieldITLBMisses,
	FieldDTLBMisses,
	FieldInstructions,
	FieldBranchMispredictions,
}

// component utilization column positions within a component row
const (
	componentCPUUtilIdx    = 7
	componentKernelUtilIdx = 8
	componentUserUtilIdx   = 9
)

var (
	braceHWPattern = regexp.MustCompile(`\{\s*L1 i-cache misses:\s*(\d+)\s*L1 d-cache misses:\s*(\d+)\s*L1 i-tlb misses:\s*(\d+)\s*L1 d-tlb misses:\s*(\d+)\s*Instructions:\s*(\d+)\s*Branch mispredictions:\s*(\d+)\s*\}`)
	braceUtilPattern = regexp.MustCompile(`Total utilisation details:\s*\{\s*KernelUtilisation:\s*(\d+)\s*KernelEntries:\s*(\d+)\s*NumberSchedules:\s*(\d+)\s*TotalUtilisation:\s*(\d+)`)
)

// ParseCPU extracts one iteration per throughput level from the processed
// log content. keyed reports whether the source format carried throughput
// labels; when false, every iteration has UnknownKey and appears in capture
// order.
func ParseCPU(source string, content string) (iterations []Iteration, keyed bool, faults []Fault) {
	if strings.Contains(content, cpuSystemTotalPrefix) {
		iterations, faults = parseCPUSectioned(source, content)
		keyed = true
	} else {
		iterations = parseCPUBraces(content)
		keyed = false
	}
	for _, fault := range faults {
		slog.Warn("processed log parse fault", slog.String("fault", fault.Error()))
	}
	return
}

func parseCPUSectioned(source string, content string) (iterations []Iteration, faults []Fault) {
	lines := strings.Split(content, "\n")
	var keyOrder []int
	byKey := make(map[int]FieldSet)
	var hwRows []FieldSet
	var hwFaults []Fault
	componentBlocks := make(map[int]FieldSet)
	testIdx := -1
	inHWSection := false
	for i, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if inHWSection {
			parts := strings.Split(line, ",")
			if line == "" || len(parts) < len(hwCounterColumns) {
				inHWSection = false
			} else {
				row := make(FieldSet, len(hwCounterColumns))
				for col, name := range hwCounterColumns {
					token := strings.TrimSpace(parts[col])
					if token == "" {
						continue // counter not collected, field stays absent
					}
					value, err := strconv.ParseFloat(token, 64)
					if err != nil {
						hwFaults = append(hwFaults, Fault{Source: source, Line: i + 1, Field: name, Token: token})
						continue
					}
					row[name] = value
				}
				hwRows = append(hwRows, row)
				continue
			}
		}
		switch {
		case strings.HasPrefix(line, cpuSystemTotalPrefix):
			key, fields, rowFaults, ok := parseSystemTotalRow(source, i+1, line)
			faults = append(faults, rowFaults...)
			if !ok {
				continue
			}
			if _, dup := byKey[key]; dup {
				slog.Warn("duplicate iteration in processed log, keeping first",
					slog.String("source", source), slog.Int("throughput", key), slog.Int("line", i+1))
				continue
			}
			keyOrder = append(keyOrder, key)
			byKey[key] = fields
		case strings.Contains(line, "L1 i-cache misses") && strings.Contains(line, "L1 d-cache misses"):
			inHWSection = true
		case strings.HasPrefix(line, cpuTestMarker):
			testIdx++
		default:
			for _, component := range Components {
				if strings.HasPrefix(line, component+",") {
					componentFaults := parseComponentRow(source, i+1, line, component, testIdx, componentBlocks)
					faults = append(faults, componentFaults...)
					break
				}
			}
		}
	}
	faults = append(faults, hwFaults...)
	// hardware counter rows and component blocks carry no throughput labels
	// of their own; they attach to System Total keys in order of appearance
	for i, key := range keyOrder {
		fields := byKey[key]
		if i < len(hwRows) {
			for name, value := range hwRows[i] {
				fields[name] = value
			}
		}
		if block, ok := componentBlocks[i]; ok {
			for name, value := range block {
				fields[name] = value
			}
		}
		iterations = append(iterations, Iteration{Key: key, Fields: fields})
	}
	return
}

func parseSystemTotalRow(source string, lineNum int, line string) (key int, fields FieldSet, faults []Fault, ok bool) {
	parts := strings.Split(line, ",")
	if len(parts) < len(systemTotalColumns)+1 {
		return 0, nil, nil, false
	}
	label := strings.TrimSpace(strings.TrimPrefix(parts[0], cpuSystemTotalPrefix))
	label = strings.TrimSuffix(label, cpuThroughputSuffix)
	key, err := strconv.Atoi(label)
	if err != nil {
		faults = append(faults, Fault{Source: source, Line: lineNum, Field: FieldRequestedThroughput, Token: label})
		return 0, nil, faults, false
	}
	fields = make(FieldSet, len(systemTotalColumns))
	for col, name := range systemTotalColumns {
		token := strings.TrimSpace(parts[col+1])
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			faults = append(faults, Fault{Source: source, Line: lineNum, Field: name, Token: token})
			continue
		}
		fields[name] = value
	}
	return key, fields, faults, true
}

func parseComponentRow(source string, lineNum int, line string, component string, testIdx int, blocks map[int]FieldSet) (faults []Fault) {
	if testIdx < 0 {
		return // component row before the first TEST marker, nothing to attach to
	}
	parts := strings.Split(line, ",")
	if len(parts) <= componentKernelUtilIdx {
		return
	}
	block := blocks[testIdx]
	if block == nil {
		block = make(FieldSet)
		blocks[testIdx] = block
	}
	cpuUtil, kernelUtil, userUtil := ComponentFields(component)
	targets := []struct {
		idx  int
		name string
	}{
		{componentCPUUtilIdx, cpuUtil},
		{componentKernelUtilIdx, kernelUtil},
		{componentUserUtilIdx, userUtil},
	}
	for _, target := range targets {
		if target.idx >= len(parts) {
			continue
		}
		token := strings.TrimSpace(parts[target.idx])
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			faults = append(faults, Fault{Source: source, Line: lineNum, Field: target.name, Token: token})
			continue
		}
		block[target.name] = value
	}
	return
}

// braceUtilColumns maps the brace-format utilisation capture groups to
// canonical field names. TotalUtilisation is the run's total cycle counter;
// it surfaces as core cycles and is promoted to total cycles in the merge
// when the IQ side did not supply one.
var braceUtilColumns = []string{
	FieldKernelCycles,
	FieldKernelEntries,
	FieldSchedules,
	FieldCoreCycles,
}

func parseCPUBraces(content string) (iterations []Iteration) {
	hwMatches := braceHWPattern.FindAllStringSubmatch(content, -1)
	utilMatches := braceUtilPattern.FindAllStringSubmatch(content, -1)
	count := min(len(hwMatches), len(utilMatches))
	for i := 0; i < count; i++ {
		fields := make(FieldSet, len(hwCounterColumns)+len(braceUtilColumns))
		for col, name := range hwCounterColumns {
			// the capture groups only match digit runs, parse cannot fail
			value, _ := strconv.ParseFloat(hwMatches[i][col+1], 64)
			fields[name] = value
		}
		for col, name := range braceUtilColumns {
			value, _ := strconv.ParseFloat(utilMatches[i][col+1], 64)
			fields[name] = value
		}
		iterations = append(iterations, Iteration{Key: UnknownKey, Fields: fields})
	}
	return
}
