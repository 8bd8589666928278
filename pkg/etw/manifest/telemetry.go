// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package manifest

import "github.com/DataDog/etw-manifest-decoder/pkg/telemetry"

const subsystem = "etw_schema"

// resolve outcomes
const (
	outcomeOK               = "ok"
	outcomeDegraded         = "degraded"
	outcomeProviderNotFound = "provider_not_found"
	outcomeInvalidArgument  = "invalid_argument"
)

// reasons for skipping an event
const (
	skipReservedID = "reserved_id"
	skipNotFound   = "not_found"
	skipFailed     = "failed"
	skipMalformed  = "malformed"
	skipNoFields   = "no_fields"
)

var tlm = struct {
	resolves        telemetry.Counter
	eventsSkipped   telemetry.Counter
	fieldsInvalid   telemetry.SimpleCounter
	resolveDuration telemetry.SimpleHistogram
}{
	telemetry.NewCounter(subsystem, "resolves", []string{"outcome"},
		"Provider schema resolutions by outcome"),
	telemetry.NewCounter(subsystem, "events_skipped", []string{"reason"},
		"Events left out of a provider schema"),
	telemetry.NewSimpleCounter(subsystem, "fields_invalid",
		"Field descriptors that could not be parsed"),
	telemetry.NewSimpleHistogram(subsystem, "resolve_duration_seconds",
		"Time spent resolving a provider schema", nil),
}
