// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package decode implements 'etw-decoder decode'.
package decode

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/command"
	etwschema "github.com/DataDog/etw-manifest-decoder/comp/etwschema/def"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/manifest"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/userdata"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/fxutil"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	provider string
	eventID  uint16
	payload  string
	fallback []string
	out      io.Writer
}

// Commands returns a slice of subcommands for the 'etw-decoder' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode the payload of an event",
		Long: `Decodes a hex-encoded UserData payload with the schema of its event.

When the provider or the event has no schema, the event is made of the
--fallback properties, as a capture session would do.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliParams.out = cmd.OutOrStdout()
			return fxutil.OneShot(decodeEvent,
				fx.Supply(cliParams),
				command.Bundle(globalParams),
			)
		},
	}
	decodeCmd.Flags().StringVarP(&cliParams.provider, "provider", "p", "", "provider GUID")
	decodeCmd.Flags().Uint16VarP(&cliParams.eventID, "event", "e", 0, "event id")
	decodeCmd.Flags().StringVar(&cliParams.payload, "hex", "", "hex-encoded UserData payload")
	decodeCmd.Flags().StringArrayVar(&cliParams.fallback, "fallback", nil, "fallback property as name=value, repeatable")
	_ = decodeCmd.MarkFlagRequired("provider")
	_ = decodeCmd.MarkFlagRequired("event")

	return []*cobra.Command{decodeCmd}
}

func decodeEvent(params *cliParams, comp etwschema.Component) error {
	provider, err := schema.ParseProviderID(params.provider)
	if err != nil {
		return err
	}
	blob, err := hex.DecodeString(strings.Join(strings.Fields(params.payload), ""))
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	fallback, err := parseFallback(params.fallback)
	if err != nil {
		return err
	}

	session, err := comp.NewSession(provider)
	if manifest.IsProviderNotFound(err) {
		log.Warnf("%v, decoding from the fallback properties", err) //nolint:errcheck
		session = userdata.NewSession(nil)
	} else if err != nil {
		return err
	}

	out, err := session.Decode(schema.EventID(params.eventID), blob, fallback).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(params.out, string(out))
	return err
}

func parseFallback(values []string) ([]schema.Property, error) {
	props := make([]schema.Property, 0, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid fallback property %q, expected name=value", v)
		}
		props = append(props, schema.Property{Name: name, Value: value})
	}
	return props, nil
}
