package raw

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// The IQ log is the throughput/latency side of a benchmark run. The values
// of interest are in a CSV block that follows a "Result Summary:" marker;
// older captures omit the marker, so when it is missing the whole file is
// scanned for the block's header line.

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

const (
	iqSummaryMarker = "Result Summary:"
	iqHeaderPrefix  = "Requested_Throughput,"
)

// iqColumns maps the summary block's column positions to canonical field
// names. The first three columns are reported in bits/s and normalized to
// Mb/s on extraction.
var iqColumns = []string{
	FieldRequestedThroughput,
	FieldReceiveThroughput,
	FieldSendThroughput,
	FieldPacketSize,
	FieldMinRTT,
	FieldMeanRTT,
	FieldMaxRTT,
	FieldStdevRTT,
	FieldMedianRTT,
	FieldBadPackets,
	FieldIdleCycles,
	FieldTotalCycles,
}

const iqThroughputColumns = 3 // leading columns that need bits/s -> Mb/s scaling

// ParseIQ extracts one iteration per summary row from the IQ log content.
// Iterations are keyed by the requested throughput level in Mb/s. A
// duplicate key within the file keeps the first occurrence. Rows whose key
// column cannot be parsed are dropped with a fault; other non-numeric
// columns fault individually and leave that field absent.
func ParseIQ(source string, content string) (iterations []Iteration, faults []Fault) {
	lines := strings.Split(content, "\n")
	start := 0
	for i, line := range lines {
		if strings.Contains(line, iqSummaryMarker) {
			start = i
			break
		}
	}
	seen := make(map[int]bool)
	inSummary := false
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !inSummary {
			if strings.HasPrefix(line, iqHeaderPrefix) {
				inSummary = true
			}
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < len(iqColumns) {
			break // end of the summary block
		}
		fields := make(FieldSet, len(iqColumns))
		keyParsed := true
		for col, name := range iqColumns {
			token := strings.TrimSpace(parts[col])
			value, err := strconv.ParseFloat(token, 64)
			if err != nil {
				faults = append(faults, Fault{Source: source, Line: i + 1, Field: name, Token: token})
				if col == 0 {
					keyParsed = false
					break
				}
				continue
			}
			if col < iqThroughputColumns {
				value /= 1e6
			}
			fields[name] = value
		}
		if !keyParsed {
			continue
		}
		key := int(math.Round(fields[FieldRequestedThroughput]))
		if seen[key] {
			slog.Warn("duplicate iteration in IQ log, keeping first",
				slog.String("source", source), slog.Int("throughput", key), slog.Int("line", i+1))
			continue
		}
		seen[key] = true
		iterations = append(iterations, Iteration{Key: key, Fields: fields})
	}
	for _, fault := range faults {
		slog.Warn("IQ log parse fault", slog.String("fault", fault.Error()))
	}
	return
}
