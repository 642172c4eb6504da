package raw

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cpuLogSectioned = `TEST 1
ethernet_driver,100,200,300,400,500,600,0.1234,0.1,0.0234
net_virt_tx,100,200,300,400,500,600,0.05,0.04,0.01
idle_thread,100,200,300,400,500,600,0.7,0.0,0.7
TEST 2
ethernet_driver,100,200,300,400,500,600,0.2,0.15,0.05
System Total 10Mb/s,1000000,900000,400000,300000,5000,2000
System Total 100Mb/s,2000000,1800000,800000,600000,9000,4000
L1 i-cache misses,L1 d-cache misses,L1 i-tlb misses,L1 d-tlb misses,Instructions,Branch mispredictions
100,200,10,20,50000,30
300,400,30,40,70000,50
`

func TestParseCPUSectioned(t *testing.T) {
	iterations, keyed, faults := ParseCPU("out.txt", cpuLogSectioned)
	require.Len(t, iterations, 2)
	assert.True(t, keyed)
	assert.Empty(t, faults)

	first := iterations[0]
	assert.Equal(t, 10, first.Key)
	assert.InDelta(t, 1000000.0, first.Fields[FieldCoreCycles], 1e-9)
	assert.InDelta(t, 400000.0, first.Fields[FieldKernelCycles], 1e-9)
	assert.InDelta(t, 300000.0, first.Fields[FieldUserCycles], 1e-9)
	assert.InDelta(t, 5000.0, first.Fields[FieldKernelEntries], 1e-9)
	// hardware counter rows attach in System Total order
	assert.InDelta(t, 100.0, first.Fields[FieldL1ICacheMisses], 1e-9)
	assert.InDelta(t, 50000.0, first.Fields[FieldInstructions], 1e-9)
	// component utilizations from the first TEST block
	ethCPU, ethKernel, ethUser := ComponentFields("ethernet_driver")
	assert.InDelta(t, 0.1234, first.Fields[ethCPU], 1e-9)
	assert.InDelta(t, 0.1, first.Fields[ethKernel], 1e-9)
	assert.InDelta(t, 0.0234, first.Fields[ethUser], 1e-9)
	txCPU, _, _ := ComponentFields("net_virt_tx")
	assert.InDelta(t, 0.05, first.Fields[txCPU], 1e-9)
	// unknown components are never recorded
	_, hasUnknown := first.Fields["idle_thread_cpu_util"]
	assert.False(t, hasUnknown)

	second := iterations[1]
	assert.Equal(t, 100, second.Key)
	assert.InDelta(t, 70000.0, second.Fields[FieldInstructions], 1e-9)
	assert.InDelta(t, 0.2, second.Fields[ethCPU], 1e-9)
	// net_virt_tx was not captured in the second TEST block
	_, hasTx := second.Fields[txCPU]
	assert.False(t, hasTx)
}

func TestParseCPUSectionedEmptyCounterCell(t *testing.T) {
	content := `System Total 10Mb/s,1000000,900000,400000,300000,5000,2000
L1 i-cache misses,L1 d-cache misses,L1 i-tlb misses,L1 d-tlb misses,Instructions,Branch mispredictions
100,,10,20,50000,30
`
	iterations, _, faults := ParseCPU("out.txt", content)
	require.Len(t, iterations, 1)
	assert.Empty(t, faults)
	_, present := iterations[0].Fields[FieldL1DCacheMisses]
	assert.False(t, present, "empty counter cell should surface as absent, not zero")
	assert.InDelta(t, 100.0, iterations[0].Fields[FieldL1ICacheMisses], 1e-9)
}

func TestParseCPUSectionedFault(t *testing.T) {
	content := `System Total 10Mb/s,1000000,900000,garbage,300000,5000,2000
`
	iterations, keyed, faults := ParseCPU("out.txt", content)
	require.Len(t, iterations, 1)
	assert.True(t, keyed)
	require.Len(t, faults, 1)
	assert.Equal(t, FieldKernelCycles, faults[0].Field)
	_, present := iterations[0].Fields[FieldKernelCycles]
	assert.False(t, present)
	// the rest of the row still extracts
	assert.InDelta(t, 300000.0, iterations[0].Fields[FieldUserCycles], 1e-9)
}

const cpuLogBraces = `Benchmark output
{
L1 i-cache misses: 100
L1 d-cache misses: 200
L1 i-tlb misses: 10
L1 d-tlb misses: 20
Instructions: 50000
Branch mispredictions: 30
}
Total utilisation details:
{
KernelUtilisation: 400000
KernelEntries: 5000
NumberSchedules: 2000
TotalUtilisation: 1000000
}
{
L1 i-cache misses: 300
L1 d-cache misses: 400
L1 i-tlb misses: 30
L1 d-tlb misses: 40
Instructions: 70000
Branch mispredictions: 50
}
Total utilisation details:
{
KernelUtilisation: 800000
KernelEntries: 9000
NumberSchedules: 4000
TotalUtilisation: 2000000
}
`

func TestParseCPUBraces(t *testing.T) {
	iterations, keyed, faults := ParseCPU("out.txt", cpuLogBraces)
	require.Len(t, iterations, 2)
	assert.False(t, keyed, "brace format carries no throughput labels")
	assert.Empty(t, faults)
	for _, iter := range iterations {
		assert.Equal(t, UnknownKey, iter.Key)
	}
	first := iterations[0]
	assert.InDelta(t, 100.0, first.Fields[FieldL1ICacheMisses], 1e-9)
	assert.InDelta(t, 50000.0, first.Fields[FieldInstructions], 1e-9)
	assert.InDelta(t, 400000.0, first.Fields[FieldKernelCycles], 1e-9)
	assert.InDelta(t, 1000000.0, first.Fields[FieldCoreCycles], 1e-9)
	// the brace format reports no user cycle counter at all
	_, present := first.Fields[FieldUserCycles]
	assert.False(t, present)
	second := iterations[1]
	assert.InDelta(t, 70000.0, second.Fields[FieldInstructions], 1e-9)
	assert.InDelta(t, 2000000.0, second.Fields[FieldCoreCycles], 1e-9)
}
