// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package manifest

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// DefaultEnumMapCacheSize is the number of value maps kept by NewEnumMapResolver.
const DefaultEnumMapCacheSize = 256

// EnumMapResolver resolves the value map a field refers to by name. It never
// fails: an unknown or unreadable map is an empty one.
type EnumMapResolver interface {
	ResolveEnumMap(provider schema.ProviderID, descriptor tdh.EventDescriptor, mapName string) map[string]string
}

// enumMapKey identifies a value map. Maps are declared once per manifest and
// shared by its events.
type enumMapKey struct {
	provider schema.ProviderID
	name     string
}

type cachedEnumMaps struct {
	api   tdh.API
	cache *lru.Cache[enumMapKey, map[string]string]
}

// NewEnumMapResolver returns an EnumMapResolver querying api and keeping the
// last size maps, including empty results.
func NewEnumMapResolver(api tdh.API, size int) EnumMapResolver {
	if size <= 0 {
		size = DefaultEnumMapCacheSize
	}
	cache, err := lru.New[enumMapKey, map[string]string](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &cachedEnumMaps{api: api, cache: cache}
}

func (r *cachedEnumMaps) ResolveEnumMap(provider schema.ProviderID, descriptor tdh.EventDescriptor, mapName string) map[string]string {
	key := enumMapKey{provider: provider, name: mapName}
	if m, ok := r.cache.Get(key); ok {
		return m
	}

	m, err := r.api.TdhGetManifestEventMap(&provider, &descriptor, mapName)
	if err != nil {
		log.Debugf("value map %q of provider %s unavailable: %v", mapName, provider, err)
		m = nil
	}
	r.cache.Add(key, m)
	return m
}

// NoEnumMaps is an EnumMapResolver for which every map is empty.
type NoEnumMaps struct{}

// ResolveEnumMap implements EnumMapResolver.
func (NoEnumMaps) ResolveEnumMap(schema.ProviderID, tdh.EventDescriptor, string) map[string]string {
	return nil
}
