// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package userdata

import "github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"

// Session decodes the events of one capture session against the schema
// resolved for its provider when the session started.
type Session struct {
	schema  *schema.ProviderSchema
	decoder Decoder
}

// NewSession returns a Session over ps. A nil ps decodes every event from
// its fallback properties.
func NewSession(ps *schema.ProviderSchema) *Session {
	return &Session{schema: ps}
}

// Schema returns the provider schema of the session, possibly nil.
func (s *Session) Schema() *schema.ProviderSchema { return s.schema }

// Provider returns the provider the session decodes events of.
func (s *Session) Provider() (schema.ProviderID, bool) {
	if s.schema == nil {
		return schema.ProviderID{}, false
	}
	return s.schema.Provider(), true
}

// Decode decodes the payload of event id. Events missing from the schema
// decode from fallback.
func (s *Session) Decode(id schema.EventID, blob []byte, fallback []schema.Property) *schema.DecodedEvent {
	var es *schema.EventSchema
	if s.schema != nil {
		es, _ = s.schema.Event(id)
	}
	return s.decoder.Decode(es, blob, fallback)
}
