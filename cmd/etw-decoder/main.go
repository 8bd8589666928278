// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Command etw-decoder resolves the schemas of manifest-based ETW providers and
// decodes event payloads with them.
package main

import (
	"os"

	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/command"
	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/subcommands"
)

func main() {
	os.Exit(command.Run(command.MakeCommand(subcommands.ETWDecoderSubcommands())))
}
