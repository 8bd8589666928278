// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package fx provides the fx module for the etwschema component
package fx

import (
	etwschemaimpl "github.com/DataDog/etw-manifest-decoder/comp/etwschema/impl"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/fxutil"
)

// Module defines the fx options for this component
func Module() fxutil.Module {
	return fxutil.Component(
		fxutil.ProvideComponentConstructor(
			etwschemaimpl.NewComponent,
		),
	)
}
