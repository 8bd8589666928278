// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package fxutil provides helpers to build and run applications out of fx
// components.
package fxutil

import "go.uber.org/fx"

// Module is the fx wiring of one component.
type Module struct {
	fx.Option
}

// Component returns the Module made of opts.
func Component(opts ...fx.Option) Module {
	return Module{Option: fx.Options(opts...)}
}

// ProvideComponentConstructor provides the outputs of ctor. ctor takes a
// struct embedding compdef.In and returns a struct embedding compdef.Out,
// optionally with an error.
func ProvideComponentConstructor(ctor interface{}) fx.Option {
	return fx.Provide(ctor)
}
