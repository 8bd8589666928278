// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package fxutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// Test starts an app built from opts and returns the T it provides. The app
// is stopped when the test ends.
func Test[T any](t testing.TB, opts ...fx.Option) T {
	t.Helper()
	var deps T
	app := fxtest.New(t, append(opts, fxBase(), fx.Populate(&deps))...)
	app.RequireStart()
	t.Cleanup(func() { app.RequireStop() })
	return deps
}

// TestOneShot runs fct, which is expected to call OneShot. It checks that
// the app OneShot would build is valid and that its function is the one
// expected, without running it.
func TestOneShot(t testing.TB, fct func(), expected interface{}) {
	t.Helper()
	var invoked bool
	var validation error
	fxAppTestOverride = func(oneShotFunc interface{}, opts []fx.Option) error {
		invoked = true
		require.Equal(t, funcName(expected), funcName(oneShotFunc))
		delayed := newDelayedFxInvocation(oneShotFunc)
		validation = fx.ValidateApp(append(opts, fxBase(), delayed.option())...)
		return validation
	}
	defer func() { fxAppTestOverride = nil }()

	fct()
	require.True(t, invoked, "OneShot was not called")
	require.NoError(t, validation)
}
