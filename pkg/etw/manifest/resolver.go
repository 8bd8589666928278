// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package manifest resolves the registered manifest of a provider into a
// schema.ProviderSchema.
//
// Resolution walks the provider's event descriptors, describes each event and
// parses the native property records. Only two conditions fail a resolve: a
// provider without a manifest (*ProviderNotFoundError) and a request the
// metadata service rejects as malformed (ErrInvalidArgument). Every other
// anomaly drops the affected event or field and is reported as a warning.
package manifest

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// Options configures a Resolver.
type Options struct {
	// MaxFetchAttempts bounds the two-phase retries when a buffer grows
	// between the size query and the fetch. 0 selects tdh.DefaultMaxAttempts.
	MaxFetchAttempts int
	// EnumMaps resolves value maps. nil selects a cache of EnumMapCacheSize
	// maps over the API.
	EnumMaps EnumMapResolver
	// EnumMapCacheSize is used when EnumMaps is nil. 0 selects DefaultEnumMapCacheSize.
	EnumMapCacheSize int
}

// Resolver builds provider schemas from the metadata service. It holds no
// per-provider state and may be shared.
type Resolver struct {
	reader   *tdh.Reader
	enumMaps EnumMapResolver
}

// NewResolver returns a Resolver over api.
func NewResolver(api tdh.API, opts Options) *Resolver {
	enumMaps := opts.EnumMaps
	if enumMaps == nil {
		enumMaps = NewEnumMapResolver(api, opts.EnumMapCacheSize)
	}
	return &Resolver{
		reader:   tdh.NewReader(api, opts.MaxFetchAttempts),
		enumMaps: enumMaps,
	}
}

// Resolution is the outcome of ResolveWithReport.
type Resolution struct {
	Schema *schema.ProviderSchema
	// Warnings aggregates the anomalies that made the schema smaller, nil when
	// every event was described cleanly.
	Warnings error
	// Skipped lists the event ids left out of the schema.
	Skipped []schema.EventID
}

// Resolve builds the schema of provider. It blocks on the metadata service
// and is meant to run once per capture session.
func (r *Resolver) Resolve(provider schema.ProviderID) (*schema.ProviderSchema, error) {
	res, err := r.ResolveWithReport(provider)
	if err != nil {
		return nil, err
	}
	return res.Schema, nil
}

// ResolveWithReport is Resolve, also returning what was left out and why.
func (r *Resolver) ResolveWithReport(provider schema.ProviderID) (*Resolution, error) {
	start := time.Now()
	defer func() { tlm.resolveDuration.Observe(time.Since(start).Seconds()) }()

	buf, res := r.reader.Read(tdh.EnumerateEvents(provider))
	switch res.Status {
	case tdh.StatusOK:
	case tdh.StatusNotFound:
		tlm.resolves.Inc(outcomeProviderNotFound)
		return nil, &ProviderNotFoundError{Provider: provider}
	case tdh.StatusInvalidArgument:
		tlm.resolves.Inc(outcomeInvalidArgument)
		return nil, fmt.Errorf("enumerating events of %s: %w", provider, ErrInvalidArgument)
	default:
		err := log.Warnf("Unable to enumerate events of provider %s: %v", provider, res.Err())
		tlm.resolves.Inc(outcomeDegraded)
		return &Resolution{
			Schema:   schema.NewProviderSchemaBuilder(provider).Build(),
			Warnings: err,
		}, nil
	}

	var warnings *multierror.Error
	descriptors, err := parseProviderEventInfo(buf)
	if err != nil {
		warnings = multierror.Append(warnings, err)
		log.Warnf("Provider %s: %v", provider, err) //nolint:errcheck
	}

	resolution := &Resolution{}
	builder := schema.NewProviderSchemaBuilder(provider)
	for _, descriptor := range descriptors {
		d, err := r.describe(provider, descriptor)
		if err != nil {
			tlm.resolves.Inc(outcomeInvalidArgument)
			return nil, err
		}
		if d.warning != nil {
			warnings = multierror.Append(warnings, fmt.Errorf("event %d version %d: %w", descriptor.ID, descriptor.Version, d.warning))
		}
		if d.skip == "" {
			if d.event.Len() == 0 {
				d.skip = skipNoFields
			} else {
				// a lower version of an id already added is superseded, not skipped
				builder.Add(d.event)
			}
		}
		if d.skip != "" {
			tlm.eventsSkipped.Inc(d.skip)
			resolution.Skipped = append(resolution.Skipped, schema.EventID(descriptor.ID))
		}
	}

	resolution.Schema = builder.Build()
	resolution.Warnings = warnings.ErrorOrNil()
	if resolution.Warnings != nil {
		tlm.resolves.Inc(outcomeDegraded)
	} else {
		tlm.resolves.Inc(outcomeOK)
	}
	log.Infof("Resolved %d events of provider %s, %d skipped", resolution.Schema.Len(), provider, len(resolution.Skipped))
	return resolution, nil
}

// described is the result of describing one event.
type described struct {
	event *schema.EventSchema
	// skip is the reason the event is left out, empty when it is kept
	skip    string
	warning error
}

// describe fetches and parses one event. The error is fatal to the resolve.
func (r *Resolver) describe(provider schema.ProviderID, descriptor tdh.EventDescriptor) (described, error) {
	if descriptor.ID == 0 {
		log.Debugf("Provider %s: skipping reserved event id 0", provider)
		return described{skip: skipReservedID}, nil
	}

	buf, res := r.reader.Read(tdh.DescribeEvent(provider, descriptor))
	switch res.Status {
	case tdh.StatusOK:
	case tdh.StatusNotFound:
		log.Warnf("Provider %s: event %d is not described by the manifest, skipping it", provider, descriptor.ID) //nolint:errcheck
		return described{skip: skipNotFound}, nil
	case tdh.StatusInvalidArgument:
		return described{}, fmt.Errorf("describing event %d of %s: %w", descriptor.ID, provider, ErrInvalidArgument)
	default:
		err := log.Warnf("Provider %s: unable to describe event %d: %v", provider, descriptor.ID, res.Err())
		return described{skip: skipFailed, warning: err}, nil
	}

	event, err := parseEvent(provider, descriptor, buf, r.enumMaps)
	if event == nil {
		log.Warnf("Provider %s: malformed description of event %d: %v", provider, descriptor.ID, err) //nolint:errcheck
		return described{skip: skipMalformed, warning: err}, nil
	}
	if err != nil {
		log.Debugf("Provider %s: event %d described with invalid fields: %v", provider, descriptor.ID, err)
	} else {
		log.Debugf("Provider %s: event %d version %d has %d fields", provider, descriptor.ID, descriptor.Version, event.Len())
	}
	return described{event: event, warning: err}, nil
}
