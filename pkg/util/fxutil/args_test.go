// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package fxutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	compdef "github.com/DataDog/etw-manifest-decoder/comp/def"
)

func TestDelayedFxInvocationNoReturn(t *testing.T) {
	var got string
	fn := func(str string) {
		got = str
	}
	delayed := newDelayedFxInvocation(fn)

	app := fxtest.New(t,
		fx.Provide(func() string { return "a string" }),
		delayed.option(),
	)
	defer app.RequireStart().RequireStop()

	require.Equal(t, got, "") // not gotten yet
	require.NoError(t, delayed.call())
	require.Equal(t, got, "a string")
}

func TestDelayedFxInvocationErrorReturn(t *testing.T) {
	var got string
	fn := func(str string) error {
		got = str
		return errors.New("uhoh")
	}
	delayed := newDelayedFxInvocation(fn)

	app := fxtest.New(t,
		fx.Provide(func() string { return "a string" }),
		delayed.option(),
	)
	defer app.RequireStart().RequireStop()

	require.Equal(t, got, "")
	require.ErrorContains(t, delayed.call(), "uhoh")
	require.Equal(t, got, "a string")
}

func TestDelayedFxInvocationRejectsNonFunctions(t *testing.T) {
	require.Panics(t, func() { newDelayedFxInvocation("not a function") })
	require.Panics(t, func() { newDelayedFxInvocation(func() int { return 0 }) })
}

func TestOneShotRunsAfterStart(t *testing.T) {
	var events []string
	err := OneShot(
		func(s string) error {
			events = append(events, "called with "+s)
			return nil
		},
		fx.Provide(func(lc compdef.Lifecycle) string {
			lc.Append(compdef.Hook{
				OnStart: func(context.Context) error { events = append(events, "start"); return nil },
				OnStop:  func(context.Context) error { events = append(events, "stop"); return nil },
			})
			return "value"
		}),
	)
	require.NoError(t, err)
	require.Equal(t, []string{"start", "called with value", "stop"}, events)
}

func TestOneShotReturnsMissingDependency(t *testing.T) {
	err := OneShot(func(int) {})
	require.Error(t, err)
}

type requires struct {
	compdef.In
	Name string
}

type provides struct {
	compdef.Out
	Greeting greeting
}

type greeting string

func newGreeting(reqs requires) provides {
	return provides{Greeting: greeting("hello " + reqs.Name)}
}

func TestComponent(t *testing.T) {
	got := Test[greeting](t,
		fx.Supply("etw"),
		Component(ProvideComponentConstructor(newGreeting)),
	)
	require.Equal(t, greeting("hello etw"), got)
}

func oneShotTarget(string) {}

func TestTestOneShot(t *testing.T) {
	TestOneShot(t, func() {
		_ = OneShot(oneShotTarget, fx.Supply("value"))
	}, oneShotTarget)
}
