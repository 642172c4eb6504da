// Package report serializes filtered, enriched records into a flat table
// with a stable column schema, and renders that table as CSV, XLSX, or
// text. The schema is identical across invocations regardless of which
// optional fields the dataset populated, so two output files remain
// directly joinable by throughput level.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"strconv"

	"benchtab/internal/derive"
	"benchtab/internal/raw"
	"benchtab/internal/record"
)

// Column binds an output column header to the canonical field it reports.
// Decimals fixes the number of fraction digits; -1 uses the shortest exact
// representation.
type Column struct {
	Name     string
	Field    string
	Decimals int
}

// Schema is the full, fixed column set: every possible field including the
// optional component utilization columns, in declared order.
var Schema = buildSchema()

func buildSchema() []Column {
	columns := []Column{
		{Name: "Requ Thrput (Mb/s)", Field: raw.FieldRequestedThroughput, Decimals: 0},
		{Name: "Recv Thrput (Mb/s)", Field: raw.FieldReceiveThroughput, Decimals: -1},
		{Name: "Send Thrput (Mb/s)", Field: raw.FieldSendThroughput, Decimals: -1},
		{Name: "Packet Size (bytes)", Field: raw.FieldPacketSize, Decimals: 0},
		{Name: "Min RTT (us)", Field: raw.FieldMinRTT, Decimals: 0},
		{Name: "Mean RTT (us)", Field: raw.FieldMeanRTT, Decimals: 0},
		{Name: "Max RTT (us)", Field: raw.FieldMaxRTT, Decimals: 0},
		{Name: "RTT stdev (us)", Field: raw.FieldStdevRTT, Decimals: -1},
		{Name: "Med RTT (us)", Field: raw.FieldMedianRTT, Decimals: 0},
		{Name: "Bad Packets", Field: raw.FieldBadPackets, Decimals: 0},
		{Name: "Idle Cycles", Field: raw.FieldIdleCycles, Decimals: 0},
		{Name: "Total Cycles", Field: raw.FieldTotalCycles, Decimals: 0},
		{Name: "CPU Util (Fraction)", Field: derive.FieldCPUUtil, Decimals: 4},
		{Name: "Core Cycles", Field: raw.FieldCoreCycles, Decimals: 0},
		{Name: "System Cycles", Field: raw.FieldSystemCycles, Decimals: 0},
		{Name: "Kernel Cycles", Field: raw.FieldKernelCycles, Decimals: 0},
		{Name: "User Cycles", Field: raw.FieldUserCycles, Decimals: 0},
		{Name: "Kernel Entries", Field: raw.FieldKernelEntries, Decimals: 0},
		{Name: "Schedules", Field: raw.FieldSchedules, Decimals: 0},
		{Name: "Warm-up (s)", Field: derive.FieldWarmup, Decimals: 0},
		{Name: "Cool-down (s)", Field: derive.FieldCooldown, Decimals: 0},
		{Name: "Test Duration (s)", Field: derive.FieldSteadyDuration, Decimals: 2},
		{Name: "Total Time (s)", Field: derive.FieldTotalTime, Decimals: 2},
		{Name: "Packets Sent", Field: derive.FieldTotalPackets, Decimals: 0},
		{Name: "Packet Rate (p/s)", Field: derive.FieldPacketRate, Decimals: 2},
		{Name: "Total Packets", Field: derive.FieldTotalPackets, Decimals: 0},
		{Name: "L1 I-cache misses", Field: raw.FieldL1ICacheMisses, Decimals: 0},
		{Name: "L1 D-cache misses", Field: raw.FieldL1DCacheMisses, Decimals: 0},
		{Name: "L1 I-TLB misses", Field: raw.FieldITLBMisses, Decimals: 0},
		{Name: "L1 D-TLB misses", Field: raw.FieldDTLBMisses, Decimals: 0},
		{Name: "Instructions", Field: raw.FieldInstructions, Decimals: 0},
		{Name: "Instructions per Second", Field: derive.FieldInstructionsPerSec, Decimals: 0},
		{Name: "Branch mispredictions", Field: raw.FieldBranchMispredictions, Decimals: 0},
		{Name: "Cycles Per Packet", Field: derive.FieldCyclesPerPacket, Decimals: 0},
		{Name: "User cycles per packet", Field: derive.FieldUserCyclesPerPacket, Decimals: 0},
		{Name: "Kernel cycles per packet", Field: derive.FieldKernelCyclesPerPacket, Decimals: 0},
		{Name: "Kernel entries per packet", Field: derive.FieldKernelEntriesPerPkt, Decimals: 2},
		{Name: "L1 I-cache misses per packet", Field: derive.FieldL1IMissesPerPacket, Decimals: 2},
		{Name: "L1 D-cache misses per packet", Field: derive.FieldL1DMissesPerPacket, Decimals: 2},
		{Name: "L1 I-TLB misses per packet", Field: derive.FieldITLBMissesPerPacket, Decimals: 2},
		{Name: "L1 D-TLB misses per packet", Field: derive.FieldDTLBMissesPerPacket, Decimals: 2},
		{Name: "instructions per packet", Field: derive.FieldInstructionsPerPacket, Decimals: 0},
		{Name: "Branch mis-pred per packet", Field: derive.FieldBranchMissesPerPacket, Decimals: 2},
	}
	for _, component := range raw.Components {
		cpuUtil, kernelUtil, userUtil := raw.ComponentFields(component)
		columns = append(columns,
			Column{Name: component + "_CPU_Util", Field: cpuUtil, Decimals: -1},
			Column{Name: component + "_Kernel_Util", Field: kernelUtil, Decimals: -1},
			Column{Name: component + "_User_Util", Field: userUtil, Decimals: -1},
		)
	}
	return columns
}

// Table is the rendered record set: one row per surviving iteration in
// ascending throughput order, absent values as empty cells.
type Table struct {
	Columns []Column
	Keys    []int      // requested throughput level per row
	Rows    [][]string // formatted cells, row-major, len(Columns) each
}

// BuildTable formats the given records against the fixed schema. Records
// are expected to be filtered and in ascending key order already.
func BuildTable(records []record.Record) Table {
	table := Table{Columns: Schema}
	for _, rec := range records {
		row := make([]string, len(Schema))
		for i, column := range Schema {
			if value, ok := rec.Fields[column.Field]; ok {
				row[i] = formatValue(value, column.Decimals)
			}
		}
		table.Keys = append(table.Keys, rec.Key)
		table.Rows = append(table.Rows, row)
	}
	return table
}

// ColumnIndex returns the index of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, column := range t.Columns {
		if column.Name == name {
			return i
		}
	}
	return -1
}

func formatValue(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}
