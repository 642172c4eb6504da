// Package derive enriches merged iteration records with computed metrics.
// Derivations are declared as named expressions evaluated over the record's
// raw fields plus the fixed experiment constants; results of earlier
// derivations are visible to later ones. A derivation whose inputs are
// absent, or whose result is not finite (e.g., a division by zero), is
// skipped and its field left absent rather than emitting Inf or NaN.
package derive

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Knetic/govaluate"

	"benchtab/internal/raw"
)

// Experiment constants. Every run transmits the same fixed packet count at
// a fixed wire size, with 10 s warm-up and cool-down bookends around the
// steady-state window.
const (
	TotalPackets        = 200000
	PacketPayloadBytes  = 1472
	PacketOverheadBytes = 56
	WarmupSeconds       = 10
	CooldownSeconds     = 10
)

// Derived field names.
const (
	FieldCPUUtil               = "cpu_util_fraction"
	FieldPacketBytes           = "packet_bytes"
	FieldPacketRate            = "packet_rate_pps"
	FieldSteadyDuration        = "steady_duration_s"
	FieldTotalTime             = "total_time_s"
	FieldInstructionsPerSec    = "instructions_per_second"
	FieldCyclesPerPacket       = "cycles_per_packet"
	FieldUserCyclesPerPacket   = "user_cycles_per_packet"
	FieldKernelCyclesPerPacket = "kernel_cycles_per_packet"
	FieldKernelEntriesPerPkt   = "kernel_entries_per_packet"
	FieldL1IMissesPerPacket    = "l1_icache_misses_per_packet"
	FieldL1DMissesPerPacket    = "l1_dcache_misses_per_packet"
	FieldITLBMissesPerPacket   = "itlb_misses_per_packet"
	FieldDTLBMissesPerPacket   = "dtlb_misses_per_packet"
	FieldInstructionsPerPacket = "instructions_per_packet"
	FieldBranchMissesPerPacket = "branch_mispredictions_per_packet"

	// constants surfaced as fields so they appear in the output schema
	FieldTotalPackets = "total_packets"
	FieldWarmup       = "warmup_s"
	FieldCooldown     = "cooldown_s"
)

// constants are injected as expression variables under these names.
var constants = map[string]float64{
	FieldTotalPackets:       TotalPackets,
	"packet_payload_bytes":  PacketPayloadBytes,
	"packet_overhead_bytes": PacketOverheadBytes,
	FieldWarmup:             WarmupSeconds,
	FieldCooldown:           CooldownSeconds,
}

// Definition is one named derivation.
type Definition struct {
	Name       string
	Expression string
	evaluable  *govaluate.EvaluableExpression
}

// definitions are evaluated in order; later expressions may refer to the
// results of earlier ones. Per-packet metrics divide by the fixed packet
// count, never an observed one, so they stay comparable across runs with
// different receive rates. The rate chain uses the requested throughput:
// packet rate -> steady-state duration -> total wall time including the
// warm-up/cool-down bookends, during which instructions and cycles still
// accrue.
var definitions = mustParse([]Definition{
	{Name: FieldCPUUtil, Expression: "1 - (idle_cycles / total_cycles)"},
	{Name: FieldPacketBytes, Expression: "packet_payload_bytes + packet_overhead_bytes"},
	{Name: FieldPacketRate, Expression: "(requested_throughput_mbps * 1000000) / (packet_bytes * 8)"},
	{Name: FieldSteadyDuration, Expression: "total_packets / packet_rate_pps"},
	{Name: FieldTotalTime, Expression: "steady_duration_s + warmup_s + cooldown_s"},
	{Name: FieldInstructionsPerSec, Expression: "instructions / total_time_s"},
	{Name: FieldCyclesPerPacket, Expression: "total_cycles / total_packets"},
	{Name: FieldUserCyclesPerPacket, Expression: "user_cycles / total_packets"},
	{Name: FieldKernelCyclesPerPacket, Expression: "kernel_cycles / total_packets"},
	{Name: FieldKernelEntriesPerPkt, Expression: "kernel_entries / total_packets"},
	{Name: FieldL1IMissesPerPacket, Expression: "l1_icache_misses / total_packets"},
	{Name: FieldL1DMissesPerPacket, Expression: "l1_dcache_misses / total_packets"},
	{Name: FieldITLBMissesPerPacket, Expression: "itlb_misses / total_packets"},
	{Name: FieldDTLBMissesPerPacket, Expression: "dtlb_misses / total_packets"},
	{Name: FieldInstructionsPerPacket, Expression: "instructions / total_packets"},
	{Name: FieldBranchMissesPerPacket, Expression: "branch_mispredictions / total_packets"},
})

func mustParse(defs []Definition) []Definition {
	for i := range defs {
		evaluable, err := govaluate.NewEvaluableExpression(defs[i].Expression)
		if err != nil {
			panic(fmt.Sprintf("bad derivation expression %s: %v", defs[i].Name, err))
		}
		defs[i].evaluable = evaluable
	}
	return defs
}

// Definitions returns the ordered derivation set.
func Definitions() []Definition {
	return definitions
}

// Enrich computes the derived fields for one iteration's merged field set.
// Fields already present are never overwritten; a source that supplies an
// already-normalized value wins over re-derivation.
func Enrich(fields raw.FieldSet) {
	backfillUserCycles(fields)
	variables := make(map[string]any, len(fields)+len(constants))
	for name, value := range constants {
		variables[name] = value
	}
	for name, value := range fields {
		variables[name] = value
	}
	for _, def := range definitions {
		if _, ok := fields[def.Name]; ok {
			continue
		}
		result, err := def.evaluable.Evaluate(variables)
		if err != nil {
			// an absent input variable; leave the derived field absent
			slog.Debug("derivation skipped", slog.String("name", def.Name), slog.String("error", err.Error()))
			continue
		}
		value, ok := result.(float64)
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			slog.Debug("derivation result not finite, leaving field absent",
				slog.String("name", def.Name))
			continue
		}
		fields[def.Name] = value
		variables[def.Name] = value
	}
	// surface the experiment constants so the emitter has them as columns
	for _, name := range []string{FieldTotalPackets, FieldWarmup, FieldCooldown} {
		if _, ok := fields[name]; !ok {
			fields[name] = constants[name]
		}
	}
}

// backfillUserCycles reconstructs the user cycle counter for sources that
// report zero or nothing for it but do carry total, kernel, and idle counts.
func backfillUserCycles(fields raw.FieldSet) {
	if userCycles, ok := fields[raw.FieldUserCycles]; ok && userCycles != 0 {
		return
	}
	totalCycles, haveTotal := fields[raw.FieldTotalCycles]
	kernelCycles, haveKernel := fields[raw.FieldKernelCycles]
	idleCycles, haveIdle := fields[raw.FieldIdleCycles]
	if haveTotal && haveKernel && haveIdle {
		fields[raw.FieldUserCycles] = totalCycles - kernelCycles - idleCycles
	}
}
