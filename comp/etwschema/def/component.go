// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package etwschema provides the schemas of manifest-based ETW providers and
// decodes the payloads of their events.
package etwschema

// team: windows-agent

import (
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/userdata"
)

// Component is the component type.
type Component interface {
	// Resolve returns the schema of provider, shared with other callers when
	// the schema cache is enabled. It fails when the provider has no
	// registered manifest.
	Resolve(provider schema.ProviderID) (*schema.ProviderSchema, error)
	// NewSession resolves provider and returns a Session decoding its events.
	NewSession(provider schema.ProviderID) (*userdata.Session, error)
	// Invalidate drops the cached schema of provider, e.g. after its
	// manifest was re-registered.
	Invalidate(provider schema.ProviderID)
}
