// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package version implements 'etw-decoder version'.
package version

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/command"
	"github.com/DataDog/etw-manifest-decoder/pkg/version"
)

// Commands returns a slice of subcommands for the 'etw-decoder' command.
func Commands(_ *command.GlobalParams) []*cobra.Command {
	var noColor bool
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version info",
		Long:  ``,
		Run: func(cmd *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true
			}
			commit := ""
			if version.Commit != "" {
				commit = fmt.Sprintf("- Commit: %s ", color.GreenString(version.Commit))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "etw-decoder %s %s- Go version: %s\n",
				color.CyanString(version.Version),
				commit,
				color.RedString(runtime.Version()),
			)
		},
	}
	versionCmd.Flags().BoolVarP(&noColor, "no-color", "n", false, "disable color output")
	return []*cobra.Command{versionCmd}
}
