// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package fxutil

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/dig"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	compdef "github.com/DataDog/etw-manifest-decoder/comp/def"
)

// appTimeout bounds the start and the stop of an application.
const appTimeout = 2 * time.Minute

// Run runs an fx.App using the supplied options, returning any errors.
//
// This differs from fx.App#Run in that it returns errors instead of exiting
// the process.
func Run(opts ...fx.Option) error {
	if fxAppTestOverride != nil {
		return fxAppTestOverride(func() {}, opts)
	}

	app := fx.New(withBase(opts)...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return errors.Join(UnwrapIfErrArgumentsFailed(err), stopApp(app))
	}

	<-app.Done()

	return stopApp(app)
}

// OneShot runs the given function in an fx.App using the supplied options.
// The function's arguments are supplied by fx and can be any provided type.
// The function must return nothing or an error.
//
// The resulting app starts all components, then invokes the function, then
// immediately shuts down.
func OneShot(oneShotFunc interface{}, opts ...fx.Option) error {
	if fxAppTestOverride != nil {
		return fxAppTestOverride(oneShotFunc, opts)
	}

	delayed := newDelayedFxInvocation(oneShotFunc)
	opts = append(opts, delayed.option())

	app := fx.New(withBase(opts)...)
	if err := app.Err(); err != nil {
		return UnwrapIfErrArgumentsFailed(err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return errors.Join(UnwrapIfErrArgumentsFailed(err), stopApp(app))
	}

	return errors.Join(delayed.call(), stopApp(app))
}

func stopApp(app *fx.App) error {
	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}

// UnwrapIfErrArgumentsFailed returns the cause of a failed constructor
// instead of the whole dependency chain fx reports.
func UnwrapIfErrArgumentsFailed(err error) error {
	if err == nil {
		return nil
	}
	return dig.RootCause(err)
}

func withBase(opts []fx.Option) []fx.Option {
	return append([]fx.Option{
		fx.StartTimeout(appTimeout),
		fx.StopTimeout(appTimeout),
		FxLoggingOption(),
		fxBase(),
	}, opts...)
}

// fxBase provides the types every component may require.
func fxBase() fx.Option {
	return fx.Provide(newLifecycleAdapter)
}

// FxLoggingOption writes the fx event log to stderr when TRACE_FX is set.
func FxLoggingOption() fx.Option {
	return fx.WithLogger(func() fxevent.Logger {
		if os.Getenv("TRACE_FX") == "" {
			return fxevent.NopLogger
		}
		return &fxevent.ConsoleLogger{W: os.Stderr}
	})
}

type lifecycleAdapter struct {
	lc fx.Lifecycle
}

func newLifecycleAdapter(lc fx.Lifecycle) compdef.Lifecycle {
	return &lifecycleAdapter{lc: lc}
}

// Append implements compdef.Lifecycle.
func (a *lifecycleAdapter) Append(h compdef.Hook) {
	a.lc.Append(fx.Hook{OnStart: h.OnStart, OnStop: h.OnStop})
}
