// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package def holds the types shared by every component: the markers of
// their dependency and output structs and the lifecycle they hook into.
package def

import (
	"context"

	"go.uber.org/fx"
)

// In marks a struct whose fields are the dependencies of a constructor.
type In = fx.In

// Out marks a struct whose fields are the outputs of a constructor.
type Out = fx.Out

// Hook is a pair of start and stop callbacks.
type Hook struct {
	OnStart func(context.Context) error
	OnStop  func(context.Context) error
}

// Lifecycle lets components run code when the application starts and stops.
type Lifecycle interface {
	Append(h Hook)
}
