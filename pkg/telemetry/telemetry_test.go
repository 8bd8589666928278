// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := NewCounter("test_subsystem", "calls", []string{"outcome"}, "test counter")
	c.Inc("ok")
	c.Add(2, "ok")
	c.Inc("failed")

	assert.Equal(t, 3.0, c.WithValues("ok").Get())
	assert.Equal(t, 1.0, c.WithValues("failed").Get())

	// same name returns the registered collector
	again := NewCounter("test_subsystem", "calls", []string{"outcome"}, "test counter")
	assert.Equal(t, 3.0, again.WithValues("ok").Get())

	families, err := Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_subsystem__calls")
}

func TestSimpleHistogram(t *testing.T) {
	h := NewSimpleHistogram("test_subsystem", "latency_seconds", "test histogram", []float64{0.1, 1})
	h.Observe(0.05)
	h.Observe(0.5)

	families, err := Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "test_subsystem__latency_seconds" {
			assert.EqualValues(t, 2, f.GetMetric()[0].GetHistogram().GetSampleCount())
			return
		}
	}
	t.Fatal("histogram not registered")
}
