// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package subcommands lists the subcommands of etw-decoder.
package subcommands

import (
	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/command"
	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/subcommands/decode"
	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/subcommands/resolve"
	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/subcommands/version"
)

// ETWDecoderSubcommands returns SubcommandFactories for the subcommands
// supported by etw-decoder.
func ETWDecoderSubcommands() []command.SubcommandFactory {
	return []command.SubcommandFactory{
		resolve.Commands,
		decode.Commands,
		version.Commands,
	}
}
