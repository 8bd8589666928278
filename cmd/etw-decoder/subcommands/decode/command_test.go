// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package decode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/etw-manifest-decoder/cmd/etw-decoder/command"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/manifest"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh/static"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/userdata"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/fxutil"
)

const testManifest = "../../../../pkg/etw/tdh/static/testdata/kernel-process.yaml"

func TestCommand(t *testing.T) {
	fxutil.TestOneShot(t, func() {
		cmd := command.MakeCommand([]command.SubcommandFactory{Commands})
		cmd.SetArgs([]string{"decode", "-m", testManifest,
			"--provider", "{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}", "--event", "2", "--hex", "01000000"})
		_ = cmd.Execute()
	}, decodeEvent)
}

type resolverComponent struct {
	*manifest.Resolver
}

func (c resolverComponent) NewSession(provider schema.ProviderID) (*userdata.Session, error) {
	ps, err := c.Resolve(provider)
	if err != nil {
		return nil, err
	}
	return userdata.NewSession(ps), nil
}

func (resolverComponent) Invalidate(schema.ProviderID) {}

func newComponent(t *testing.T) resolverComponent {
	t.Helper()
	api, err := static.NewFromFile(testManifest)
	require.NoError(t, err)
	return resolverComponent{manifest.NewResolver(api, manifest.Options{})}
}

func decode(t *testing.T, params *cliParams) string {
	t.Helper()
	var out bytes.Buffer
	params.out = &out
	require.NoError(t, decodeEvent(params, newComponent(t)))
	return out.String()
}

func TestDecodeEvent(t *testing.T) {
	// ProcessStop: ProcessID, ExitCode, TokenElevationType, ImageName
	out := decode(t, &cliParams{
		provider: "{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}",
		eventID:  2,
		payload:  "d2040000 00000000 02000000 6e6f74657061642e65786500",
	})
	assert.JSONEq(t, `{
		"ProcessID": "1234",
		"ExitCode": "0",
		"TokenElevationType": "2 (Full)",
		"ImageName": "notepad.exe"
	}`, out)
}

func TestDecodeFallsBack(t *testing.T) {
	t.Run("unknown event", func(t *testing.T) {
		out := decode(t, &cliParams{
			provider: "{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}",
			eventID:  99,
			payload:  "01",
			fallback: []string{"A=x", "B=y=z"},
		})
		assert.JSONEq(t, `{"A": "x", "B": "y=z"}`, out)
	})

	t.Run("unknown provider", func(t *testing.T) {
		out := decode(t, &cliParams{
			provider: "{EDD08927-9CC4-4E65-B970-C2560FB5C289}",
			eventID:  1,
			payload:  "01",
			fallback: []string{"FileName=c:\\x"},
		})
		assert.JSONEq(t, `{"FileName": "c:\\x"}`, out)
	})
}

func TestDecodeEventErrors(t *testing.T) {
	comp := newComponent(t)
	for name, params := range map[string]*cliParams{
		"bad provider": {provider: "nope"},
		"bad hex":      {provider: "{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}", payload: "zz"},
		"bad fallback": {provider: "{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}", fallback: []string{"novalue"}},
	} {
		t.Run(name, func(t *testing.T) {
			params.out = &bytes.Buffer{}
			require.Error(t, decodeEvent(params, comp))
		})
	}
}
