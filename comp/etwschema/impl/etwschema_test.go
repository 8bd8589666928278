// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package etwschemaimpl

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	compdef "github.com/DataDog/etw-manifest-decoder/comp/def"
	etwschema "github.com/DataDog/etw-manifest-decoder/comp/etwschema/def"
	"github.com/DataDog/etw-manifest-decoder/pkg/config"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/manifest"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh/static"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/fxutil"
)

var kernelProcess = schema.MustParseProviderID("{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}")

func newStaticAPI(t *testing.T) *static.API {
	t.Helper()
	api := static.New()
	require.NoError(t, api.Add(&static.Manifest{
		Provider: kernelProcess,
		Name:     "Microsoft-Windows-Kernel-Process",
		EnumMaps: map[string]map[string]string{
			"TokenElevationTypeMap": {"1": "Default", "2": "Full", "3": "Limited"},
		},
		Events: []static.Event{
			{ID: 2, Name: "ProcessStop", Fields: []static.Field{
				{Name: "ProcessID", Type: "win:UInt32"},
				{Name: "TokenElevationType", Type: "win:UInt32", Map: "TokenElevationTypeMap"},
			}},
		},
	}))
	return api
}

func newComponent(t *testing.T, api tdh.API, overrides map[string]interface{}) etwschema.Component {
	t.Helper()
	return fxutil.Test[etwschema.Component](t,
		fx.Provide(func() config.Reader { return config.Mock(t, overrides) }),
		fx.Provide(func() tdh.API { return api }),
		fxutil.Component(fxutil.ProvideComponentConstructor(NewComponent)),
	)
}

func TestSessionDecodesEvents(t *testing.T) {
	comp := newComponent(t, newStaticAPI(t), nil)

	session, err := comp.NewSession(kernelProcess)
	require.NoError(t, err)

	blob := binary.LittleEndian.AppendUint32(nil, 4242)
	blob = binary.LittleEndian.AppendUint32(blob, 3)
	ev := session.Decode(2, blob, nil)
	assert.Equal(t, []schema.Property{
		{Name: "ProcessID", Value: "4242"},
		{Name: "TokenElevationType", Value: "3 (Limited)"},
	}, ev.Properties())
}

func TestResolveUsesCache(t *testing.T) {
	api := newStaticAPI(t)
	comp := newComponent(t, api, nil)

	first, err := comp.Resolve(kernelProcess)
	require.NoError(t, err)
	second, err := comp.Resolve(kernelProcess)
	require.NoError(t, err)
	assert.Same(t, first, second)
	// size query and fetch
	assert.Equal(t, 2, api.Calls(tdh.KindEnumerateEvents))

	comp.Invalidate(kernelProcess)
	_, err = comp.Resolve(kernelProcess)
	require.NoError(t, err)
	assert.Equal(t, 4, api.Calls(tdh.KindEnumerateEvents))
}

func TestResolveWithoutCache(t *testing.T) {
	api := newStaticAPI(t)
	comp := newComponent(t, api, map[string]interface{}{config.SchemaCacheEnabled: false})

	for i := 0; i < 3; i++ {
		_, err := comp.Resolve(kernelProcess)
		require.NoError(t, err)
	}
	// invalidating without a cache is a no-op
	comp.Invalidate(kernelProcess)
	assert.Equal(t, 6, api.Calls(tdh.KindEnumerateEvents))
}

func TestUnknownProvider(t *testing.T) {
	comp := newComponent(t, newStaticAPI(t), nil)
	other := schema.MustParseProviderID("{EDD08927-9CC4-4E65-B970-C2560FB5C289}")

	_, err := comp.NewSession(other)
	require.Error(t, err)
	assert.True(t, manifest.IsProviderNotFound(err))
}

func TestInvalidConfig(t *testing.T) {
	_, err := NewComponent(Requires{
		Lifecycle: noopLifecycle{},
		Config:    config.Mock(t, map[string]interface{}{config.TDHMaxFetchAttempts: 0}),
		API:       static.New(),
	})
	require.ErrorContains(t, err, config.TDHMaxFetchAttempts)
}

type noopLifecycle struct{}

func (noopLifecycle) Append(compdef.Hook) {}
