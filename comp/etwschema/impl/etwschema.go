// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package etwschemaimpl implements the etwschema component interface.
package etwschemaimpl

import (
	"context"

	compdef "github.com/DataDog/etw-manifest-decoder/comp/def"
	etwschema "github.com/DataDog/etw-manifest-decoder/comp/etwschema/def"
	"github.com/DataDog/etw-manifest-decoder/pkg/config"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/manifest"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schemacache"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/userdata"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// Requires defines the dependencies for the etwschema component
type Requires struct {
	compdef.In

	Lifecycle compdef.Lifecycle
	Config    config.Reader
	// API overrides the platform metadata API, e.g. with manifests loaded
	// from files.
	API tdh.API `optional:"true"`
}

// Provides defines the output of the etwschema component
type Provides struct {
	compdef.Out

	Comp etwschema.Component
}

type etwSchema struct {
	resolver *manifest.Resolver
	// nil when the schema cache is disabled
	cache *schemacache.Cache
}

// NewComponent creates a new etwschema component
func NewComponent(reqs Requires) (Provides, error) {
	if err := config.Validate(reqs.Config); err != nil {
		return Provides{}, err
	}

	api := reqs.API
	if api == nil {
		api = defaultAPI()
	}
	comp := newETWSchema(api, reqs.Config)

	if comp.cache != nil {
		reqs.Lifecycle.Append(compdef.Hook{
			OnStop: func(_ context.Context) error {
				comp.cache.Flush()
				return nil
			},
		})
	}

	return Provides{Comp: comp}, nil
}

func newETWSchema(api tdh.API, cfg config.Reader) *etwSchema {
	resolver := manifest.NewResolver(api, manifest.Options{
		MaxFetchAttempts: cfg.GetInt(config.TDHMaxFetchAttempts),
		EnumMapCacheSize: cfg.GetInt(config.EnumMapCacheSize),
	})
	comp := &etwSchema{resolver: resolver}
	if cfg.GetBool(config.SchemaCacheEnabled) {
		comp.cache = schemacache.New(resolver, cfg.GetDuration(config.SchemaCacheTTL))
	} else {
		log.Debug("Provider schema cache disabled, every session resolves its provider")
	}
	return comp
}

func (c *etwSchema) Resolve(provider schema.ProviderID) (*schema.ProviderSchema, error) {
	if c.cache == nil {
		return c.resolver.Resolve(provider)
	}
	return c.cache.Get(provider)
}

func (c *etwSchema) NewSession(provider schema.ProviderID) (*userdata.Session, error) {
	ps, err := c.Resolve(provider)
	if err != nil {
		return nil, err
	}
	return userdata.NewSession(ps), nil
}

func (c *etwSchema) Invalidate(provider schema.ProviderID) {
	if c.cache != nil {
		c.cache.Invalidate(provider)
	}
}
