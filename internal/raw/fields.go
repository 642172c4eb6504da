package raw

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Canonical field names. The parse, derivation, filtering, and reporting
// stages all refer to fields by these names; they double as variable names
// in derivation expressions, so they must be valid govaluate identifiers.
const (
	// IQ log
	FieldRequestedThroughput = "requested_throughput_mbps"
	FieldReceiveThroughput   = "receive_throughput_mbps"
	FieldSendThroughput      = "send_throughput_mbps"
	FieldPacketSize          = "packet_size_bytes"
	FieldMinRTT              = "min_rtt_us"
	FieldMeanRTT             = "mean_rtt_us"
	FieldMaxRTT              = "max_rtt_us"
	FieldStdevRTT            = "stdev_rtt_us"
	FieldMedianRTT           = "median_rtt_us"
	FieldBadPackets          = "bad_packets"
	FieldIdleCycles          = "idle_cycles"
	FieldTotalCycles         = "total_cycles"

	// processed log, cycle counters
	FieldCoreCycles    = "core_cycles"
	FieldSystemCycles  = "system_cycles"
	FieldKernelCycles  = "kernel_cycles"
	FieldUserCycles    = "user_cycles"
	FieldKernelEntries = "kernel_entries"
	FieldSchedules     = "schedules"

	// processed log, hardware counters
	FieldL1ICacheMisses       = "l1_icache_misses"
	FieldL1DCacheMisses       = "l1_dcache_misses"
	FieldITLBMisses           = "itlb_misses"
	FieldDTLBMisses           = "dtlb_misses"
	FieldInstructions         = "instructions"
	FieldBranchMispredictions = "branch_mispredictions"
)

// Components is the fixed set of subsystems whose per-component CPU
// utilization may appear in the processed log. Any subset may be absent
// for a given iteration; unknown components are never recorded.
var Components = []string{
	"ethernet_driver",
	"net_virt_tx",
	"net_virt_rx",
	"client0",
	"client0_net_copier",
}

// ComponentFields returns the canonical field names for one component's
// total, kernel, and user CPU utilization fractions.
func ComponentFields(component string) (cpuUtil string, kernelUtil string, userUtil string) {
	return component + "_cpu_util", component + "_kernel_util", component + "_user_util"
}
