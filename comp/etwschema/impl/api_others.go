// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

//go:build !windows

package etwschemaimpl

import (
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh/static"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// defaultAPI has no registered manifests: every provider is not found.
func defaultAPI() tdh.API {
	log.Warn("No manifest provider on this platform, load manifests from files to resolve providers") //nolint:errcheck
	return static.New()
}
