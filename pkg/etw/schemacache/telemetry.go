// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package schemacache

import "github.com/DataDog/etw-manifest-decoder/pkg/telemetry"

const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupError = "error"
)

var tlm = struct {
	lookups telemetry.Counter
}{
	telemetry.NewCounter("etw_schema_cache", "lookups", []string{"result"},
		"Provider schema cache lookups by result"),
}
