// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package resolve implements 'etw-decoder resolve'.
package resolve

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/command"
	etwschema "github.com/DataDog/etw-manifest-decoder/comp/etwschema/def"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/fxutil"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	provider string
	format   string
	out      io.Writer
}

// Commands returns a slice of subcommands for the 'etw-decoder' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	resolveCmd := &cobra.Command{
		Use:   "resolve <provider-guid>",
		Short: "Print the schema of a provider",
		Long:  `Resolves the schema of a manifest-based provider and prints its events and their fields.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliParams.provider = args[0]
			cliParams.out = cmd.OutOrStdout()
			return fxutil.OneShot(printSchema,
				fx.Supply(cliParams),
				command.Bundle(globalParams),
			)
		},
	}
	resolveCmd.Flags().StringVarP(&cliParams.format, "output", "o", "json", "output format, json or yaml")

	return []*cobra.Command{resolveCmd}
}

func printSchema(params *cliParams, comp etwschema.Component) error {
	provider, err := schema.ParseProviderID(params.provider)
	if err != nil {
		return err
	}
	ps, err := comp.Resolve(provider)
	if err != nil {
		return err
	}
	return write(params.out, params.format, ps.View())
}

func write(w io.Writer, format string, view schema.ProviderView) error {
	switch format {
	case "json":
		out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q, use json or yaml", format)
	}
}
