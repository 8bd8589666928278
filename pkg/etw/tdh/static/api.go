// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package static implements tdh.API in memory from manifest descriptions.
//
// The buffers it serves use the native TRACE_EVENT_INFO and PROVIDER_EVENT_INFO
// layouts, so the resolver runs the same parsing code against it as against
// tdh.dll. It is used for tests and to resolve schemas offline.
package static

import (
	"maps"
	"sync"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
)

// AnyEvent matches every event id in SetFailure.
const AnyEvent = -1

type eventKey struct {
	id      uint16
	version uint8
}

type registered struct {
	manifest *Manifest
	events   []byte
	infos    map[eventKey][]byte
}

type failureKey struct {
	kind tdh.Kind
	id   int
}

// API implements tdh.API from manifests. Safe for concurrent use.
type API struct {
	mu        sync.Mutex
	providers map[schema.ProviderID]*registered
	failures  map[failureKey]error
	corrupt   map[eventKey]func([]byte)
	calls     map[tdh.Kind]int
}

// New returns an empty API. Every provider is unknown until added.
func New() *API {
	return &API{
		providers: make(map[schema.ProviderID]*registered),
		failures:  make(map[failureKey]error),
		corrupt:   make(map[eventKey]func([]byte)),
		calls:     make(map[tdh.Kind]int),
	}
}

// NewFromFile returns an API serving the manifests of a YAML file.
func NewFromFile(path string) (*API, error) {
	manifests, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	api := New()
	for _, m := range manifests {
		if err := api.Add(m); err != nil {
			return nil, err
		}
	}
	return api, nil
}

// Add registers m, replacing any manifest of the same provider.
func (api *API) Add(m *Manifest) error {
	r := &registered{
		manifest: m,
		events:   encodeProviderEventInfo(m.Events),
		infos:    make(map[eventKey][]byte, len(m.Events)),
	}
	for _, e := range m.Events {
		info, err := encodeTraceEventInfo(m, e)
		if err != nil {
			return err
		}
		r.infos[eventKey{e.ID, e.Version}] = info
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	api.providers[m.Provider] = r
	return nil
}

// Remove unregisters provider.
func (api *API) Remove(provider schema.ProviderID) {
	api.mu.Lock()
	defer api.mu.Unlock()
	delete(api.providers, provider)
}

// SetFailure makes calls of kind for event id (or AnyEvent) fail with err.
// A nil err clears the failure.
func (api *API) SetFailure(kind tdh.Kind, id int, err error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	key := failureKey{kind, id}
	if err == nil {
		delete(api.failures, key)
		return
	}
	api.failures[key] = err
}

// Corrupt registers fn to modify the TRACE_EVENT_INFO buffer of an event
// each time it is served.
func (api *API) Corrupt(id uint16, version uint8, fn func([]byte)) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.corrupt[eventKey{id, version}] = fn
}

// Calls returns the number of calls made for kind.
func (api *API) Calls(kind tdh.Kind) int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.calls[kind]
}

// TdhEnumerateManifestProviderEvents implements tdh.API.
func (api *API) TdhEnumerateManifestProviderEvents(provider *schema.ProviderID, buffer []byte, bufferSize *uint32) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.calls[tdh.KindEnumerateEvents]++

	if provider == nil || bufferSize == nil {
		return tdh.ErrorInvalidParameter
	}
	if err := api.failure(tdh.KindEnumerateEvents, AnyEvent); err != nil {
		return err
	}
	r, ok := api.providers[*provider]
	if !ok {
		return tdh.ErrorNotFound
	}
	if len(r.manifest.Events) == 0 {
		return tdh.ErrorEmpty
	}
	return fill(r.events, buffer, bufferSize)
}

// TdhGetManifestEventInformation implements tdh.API.
func (api *API) TdhGetManifestEventInformation(provider *schema.ProviderID, descriptor *tdh.EventDescriptor, buffer []byte, bufferSize *uint32) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.calls[tdh.KindDescribeEvent]++

	if provider == nil || descriptor == nil || bufferSize == nil {
		return tdh.ErrorInvalidParameter
	}
	if err := api.failure(tdh.KindDescribeEvent, int(descriptor.ID)); err != nil {
		return err
	}
	r, ok := api.providers[*provider]
	if !ok {
		return tdh.ErrorNotFound
	}
	key := eventKey{descriptor.ID, descriptor.Version}
	info, ok := r.infos[key]
	if !ok {
		return tdh.ErrorNotFound
	}
	if fn := api.corrupt[key]; fn != nil {
		info = append([]byte(nil), info...)
		fn(info)
	}
	return fill(info, buffer, bufferSize)
}

// TdhGetManifestEventMap implements tdh.API from Manifest.EnumMaps.
func (api *API) TdhGetManifestEventMap(provider *schema.ProviderID, _ *tdh.EventDescriptor, mapName string) (map[string]string, error) {
	api.mu.Lock()
	defer api.mu.Unlock()

	r, ok := api.providers[providerOf(provider)]
	if !ok {
		return nil, tdh.ErrorNotFound
	}
	m, ok := r.manifest.EnumMaps[mapName]
	if !ok {
		return nil, tdh.ErrorNotFound
	}
	return maps.Clone(m), nil
}

func (api *API) failure(kind tdh.Kind, id int) error {
	if err, ok := api.failures[failureKey{kind, id}]; ok {
		return err
	}
	if err, ok := api.failures[failureKey{kind, AnyEvent}]; ok {
		return err
	}
	return nil
}

// fill copies data into buffer following the native sizing convention.
func fill(data, buffer []byte, bufferSize *uint32) error {
	need := uint32(len(data))
	if *bufferSize < need || uint32(len(buffer)) < need {
		*bufferSize = need
		return tdh.ErrorInsufficientBuffer
	}
	copy(buffer, data)
	*bufferSize = need
	return nil
}
