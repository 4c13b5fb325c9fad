// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestInMemoryRegistry_ExportAll(t *testing.T) {
	registry := NewRegistry()
	gauge := registry.NewGauge("ActiveElections.Size")
	gauge.Add(1)

	gaugeValue := registry.ExportAll()["ActiveElections.Size"].(gaugeExport)
	require.EqualValues(t, 1, gaugeValue.Value)
}

func TestInMemoryRegistry_StringListsEveryMetric(t *testing.T) {
	registry := NewRegistry()
	registry.NewGauge("Hinting.Size").Update(3)
	registry.NewRate("Hinting.Promoted.Rate")
	registry.NewLatency("Backlog.ChunkDuration.Millis", time.Second)

	s := registry.String()
	require.Contains(t, s, "metric Hinting.Size: 3")
	require.Contains(t, s, "metric Hinting.Promoted.Rate")
	require.Contains(t, s, "metric Backlog.ChunkDuration.Millis")
}

func TestHistogram_EmptyExportHasNoLogRow(t *testing.T) {
	h := newHistogram("empty", time.Second.Nanoseconds())
	require.Nil(t, h.Export().LogRow(), "histogram without samples should not be reported")
}

func TestHistogram_RecordsSamples(t *testing.T) {
	h := newHistogram("latency", time.Second.Nanoseconds())
	h.Record(int64(2 * time.Millisecond))
	h.Record(int64(4 * time.Millisecond))

	e := h.export()
	require.EqualValues(t, 2, e.Samples)
	require.InDelta(t, 4, e.Max, 0.1)
}
