// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package resolve

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
		cmd.SetArgs([]string{"resolve", "--manifest", testManifest, "{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}"})
		_ = cmd.Execute()
	}, printSchema)
}

func TestCommandRequiresProvider(t *testing.T) {
	cmd := command.MakeCommand([]command.SubcommandFactory{Commands})
	cmd.SetArgs([]string{"resolve"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}

// resolverComponent serves schemas straight from a resolver.
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

func TestPrintSchema(t *testing.T) {
	comp := newComponent(t)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var out bytes.Buffer
			err := printSchema(&cliParams{
				provider: "22fb2cd6-0e7b-422b-a0c7-2fad1fd0e716",
				format:   format,
				out:      &out,
			}, comp)
			require.NoError(t, err)

			assert.Contains(t, out.String(), "{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}")
			assert.Contains(t, out.String(), "TokenElevationType")
			assert.Contains(t, out.String(), "Affinity.Mask")
		})
	}
}

func TestPrintSchemaErrors(t *testing.T) {
	comp := newComponent(t)

	err := printSchema(&cliParams{provider: "not a guid", format: "json", out: &bytes.Buffer{}}, comp)
	require.Error(t, err)

	err = printSchema(&cliParams{provider: "{EDD08927-9CC4-4E65-B970-C2560FB5C289}", format: "json", out: &bytes.Buffer{}}, comp)
	require.Error(t, err)
	assert.True(t, manifest.IsProviderNotFound(err))

	err = printSchema(&cliParams{provider: "{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}", format: "xml", out: &bytes.Buffer{}}, comp)
	require.ErrorContains(t, err, "unknown output format")
}
