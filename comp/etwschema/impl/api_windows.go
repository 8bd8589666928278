// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

//go:build windows

package etwschemaimpl

import (
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
	wintdh "github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh/windows"
)

func defaultAPI() tdh.API {
	return wintdh.New()
}
