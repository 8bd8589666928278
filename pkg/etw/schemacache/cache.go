// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package schemacache shares resolved provider schemas across capture
// sessions.
//
// A schema is built once per provider, published whole and never modified
// afterwards; readers get the published pointer. Concurrent misses for one
// provider share a single resolve. Failed resolves are not cached.
package schemacache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// Resolver builds the schema of a provider.
type Resolver interface {
	Resolve(provider schema.ProviderID) (*schema.ProviderSchema, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(provider schema.ProviderID) (*schema.ProviderSchema, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(provider schema.ProviderID) (*schema.ProviderSchema, error) {
	return f(provider)
}

// Cache holds published provider schemas.
type Cache struct {
	resolver Resolver
	cache    *cache.Cache
	group    singleflight.Group

	// a resolve publishes only if neither its provider was invalidated nor
	// the cache flushed since it started
	mu          sync.Mutex
	epoch       uint64
	generations map[string]uint64
}

type stamp struct {
	epoch, generation uint64
}

// New returns a Cache resolving misses with r. Schemas expire after ttl; a
// ttl of 0 keeps them until invalidated.
func New(r Resolver, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	// expired entries are replaced on the next miss, no janitor
	return &Cache{
		resolver:    r,
		cache:       cache.New(ttl, 0),
		generations: make(map[string]uint64),
	}
}

// Get returns the schema of provider, resolving it on a miss.
func (c *Cache) Get(provider schema.ProviderID) (*schema.ProviderSchema, error) {
	key := provider.String()
	if v, found := c.cache.Get(key); found {
		tlm.lookups.Inc(lookupHit)
		return v.(*schema.ProviderSchema), nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		started := c.stamp(key)
		ps, err := c.resolver.Resolve(provider)
		if err != nil {
			return nil, err
		}
		c.publish(key, started, ps)
		return ps, nil
	})
	if err != nil {
		tlm.lookups.Inc(lookupError)
		return nil, err
	}
	if shared {
		log.Tracef("Shared the schema resolve of provider %s", key)
	}
	tlm.lookups.Inc(lookupMiss)
	return v.(*schema.ProviderSchema), nil
}

func (c *Cache) stamp(key string) stamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stamp{c.epoch, c.generations[key]}
}

func (c *Cache) publish(key string, started stamp, ps *schema.ProviderSchema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if (stamp{c.epoch, c.generations[key]}) != started {
		log.Debugf("Provider %s was invalidated while resolving, not caching its schema", key)
		return
	}
	c.cache.SetDefault(key, ps)
}

// Invalidate drops the schema of provider. The next Get resolves it again;
// sessions holding the old schema keep using it.
func (c *Cache) Invalidate(provider schema.ProviderID) {
	key := provider.String()
	c.mu.Lock()
	c.generations[key]++
	c.cache.Delete(key)
	c.mu.Unlock()
	c.group.Forget(key)
}

// Flush drops every schema.
func (c *Cache) Flush() {
	c.mu.Lock()
	c.epoch++
	c.generations = make(map[string]uint64)
	c.cache.Flush()
	c.mu.Unlock()
}

// Len returns the number of cached schemas, expired ones included until
// they are replaced.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}
