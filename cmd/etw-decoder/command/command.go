// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package command implements the top-level `etw-decoder` binary, including
// its subcommands.
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// LoggerName is the name of the logger of every subcommand
const LoggerName log.LoggerName = "ETW"

// GlobalParams contains the values of etw-decoder-global Cobra flags.
//
// A pointer to this type is passed to SubcommandFactory's, but its contents
// are not valid until Cobra calls the subcommand's Run or RunE function.
type GlobalParams struct {
	// ConfFilePath holds the path to the configuration file, if any.
	ConfFilePath string

	// ManifestPath holds the path to a YAML manifest file. When set, providers
	// are resolved from it instead of the manifests registered on the host.
	ManifestPath string

	// LogLevel overrides the log level of the configuration.
	LogLevel string
}

// SubcommandFactory is a callable that will return a slice of subcommands.
type SubcommandFactory func(globalParams *GlobalParams) []*cobra.Command

// MakeCommand makes the top-level Cobra command for this app.
func MakeCommand(subcommandFactories []SubcommandFactory) *cobra.Command {
	globalParams := GlobalParams{}

	cmd := &cobra.Command{
		Use:   "etw-decoder [command]",
		Short: "Decode manifest-based ETW events.",
		Long: `
etw-decoder resolves the schema of a manifest-based ETW provider from the
manifests registered on the host, or from a manifest file, and decodes the
UserData payload of its events into named values.`,
		SilenceUsage: true,
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVarP(&globalParams.ConfFilePath, "cfgpath", "c", "", "path to the etw-decoder configuration file")
	pflags.StringVarP(&globalParams.ManifestPath, "manifest", "m", "", "path to a YAML manifest file to resolve providers from")
	pflags.StringVarP(&globalParams.LogLevel, "log-level", "l", "", "log level, overrides the configuration")

	for _, sf := range subcommandFactories {
		for _, subcmd := range sf(&globalParams) {
			cmd.AddCommand(subcmd)
		}
	}

	return cmd
}

// Run executes cmd and returns the process exit code.
func Run(cmd *cobra.Command) int {
	err := cmd.Execute()
	log.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	return 0
}
