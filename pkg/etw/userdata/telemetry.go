// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package userdata

import "github.com/DataDog/etw-manifest-decoder/pkg/telemetry"

const subsystem = "etw_decoder"

// decode paths
const (
	pathSchema   = "schema"
	pathFallback = "fallback"
	pathFault    = "fault"
)

var tlm = struct {
	events     telemetry.Counter
	nullValues telemetry.SimpleCounter
}{
	telemetry.NewCounter(subsystem, "events", []string{"path"},
		"Decoded events by decode path"),
	telemetry.NewSimpleCounter(subsystem, "null_values",
		"Values rendered as null because they could not be read"),
}
