package raw

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iqLogWithSummary = `Starting benchmark run
ipbench: client connected
Result Summary:
Requested_Throughput,Receive_Throughput,Send_Throughput,Packet_Size,Minimum_RTT,Average_RTT,Maximum_RTT,Stdev_RTT,Median_RTT,Bad_Packets,Idle_Cycles,Total_Cycles
10000000,9998000,9999000,1472,120,180,600,12.5,170,0,900000000,1000000000
100000000,99900000,99950000,1472,130,200,700,14.2,190,0,600000000,1000000000
1000000000,948000000,999100000,1472,150,260,900,21.7,240,3,100000000,1000000000

run complete
`

const iqLogWithoutSummary = `Requested_Throughput,Receive_Throughput,Send_Throughput,Packet_Size,Minimum_RTT,Average_RTT,Maximum_RTT,Stdev_RTT,Median_RTT,Bad_Packets,Idle_Cycles,Total_Cycles
20000000,19990000,19995000,1472,121,182,610,11.9,171,0,880000000,1000000000
`

func TestParseIQ(t *testing.T) {
	iterations, faults := ParseIQ("iq.txt", iqLogWithSummary)
	require.Len(t, iterations, 3)
	assert.Empty(t, faults)
	assert.Equal(t, 10, iterations[0].Key)
	assert.Equal(t, 100, iterations[1].Key)
	assert.Equal(t, 1000, iterations[2].Key)
	fields := iterations[1].Fields
	assert.InDelta(t, 100.0, fields[FieldRequestedThroughput], 1e-9)
	assert.InDelta(t, 99.9, fields[FieldReceiveThroughput], 1e-9)
	assert.InDelta(t, 1472.0, fields[FieldPacketSize], 1e-9)
	assert.InDelta(t, 200.0, fields[FieldMeanRTT], 1e-9)
	assert.InDelta(t, 14.2, fields[FieldStdevRTT], 1e-9)
	assert.InDelta(t, 600000000.0, fields[FieldIdleCycles], 1e-9)
	assert.InDelta(t, 1000000000.0, fields[FieldTotalCycles], 1e-9)
}

func TestParseIQWithoutSummaryMarker(t *testing.T) {
	iterations, faults := ParseIQ("iq.txt", iqLogWithoutSummary)
	require.Len(t, iterations, 1)
	assert.Empty(t, faults)
	assert.Equal(t, 20, iterations[0].Key)
}

func TestParseIQDuplicateKeyKeepsFirst(t *testing.T) {
	content := `Result Summary:
Requested_Throughput,Receive_Throughput,Send_Throughput,Packet_Size,Minimum_RTT,Average_RTT,Maximum_RTT,Stdev_RTT,Median_RTT,Bad_Packets,Idle_Cycles,Total_Cycles
100000000,99900000,99950000,1472,130,200,700,14.2,190,0,600000000,1000000000
100000000,88800000,88850000,1472,140,210,710,15.0,200,0,700000000,1000000000
`
	iterations, faults := ParseIQ("iq.txt", content)
	require.Len(t, iterations, 1)
	assert.Empty(t, faults)
	assert.InDelta(t, 99.9, iterations[0].Fields[FieldReceiveThroughput], 1e-9)
}

func TestParseIQFaults(t *testing.T) {
	tests := []struct {
		name           string
		row            string
		wantIterations int
		wantFaults     int
		absentField    string
	}{
		{
			name:           "non-numeric optional column leaves field absent",
			row:            "100000000,99900000,99950000,1472,130,garbage,700,14.2,190,0,600000000,1000000000",
			wantIterations: 1,
			wantFaults:     1,
			absentField:    FieldMeanRTT,
		},
		{
			name:           "non-numeric key column drops the row",
			row:            "garbage,99900000,99950000,1472,130,200,700,14.2,190,0,600000000,1000000000",
			wantIterations: 0,
			wantFaults:     1,
		},
	}
	header := "Requested_Throughput,Receive_Throughput,Send_Throughput,Packet_Size,Minimum_RTT,Average_RTT,Maximum_RTT,Stdev_RTT,Median_RTT,Bad_Packets,Idle_Cycles,Total_Cycles"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "Result Summary:\n" + header + "\n" + tt.row + "\n"
			iterations, faults := ParseIQ("iq.txt", content)
			assert.Len(t, iterations, tt.wantIterations)
			assert.Len(t, faults, tt.wantFaults)
			if tt.wantIterations > 0 && tt.absentField != "" {
				_, present := iterations[0].Fields[tt.absentField]
				assert.False(t, present, "faulted field should be absent, not zero")
				// the other fields on the line still extract
				assert.InDelta(t, 130.0, iterations[0].Fields[FieldMinRTT], 1e-9)
			}
		})
	}
}
