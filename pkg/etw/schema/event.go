// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package schema

import (
	"slices"
	"sort"
)

// EventSchema is the ordered field list of one event. Field order is the
// on-wire order of the payload.
type EventSchema struct {
	id      EventID
	version uint8
	fields  []FieldDefinition
}

// NewEventSchema builds an EventSchema owning a copy of fields.
func NewEventSchema(id EventID, version uint8, fields []FieldDefinition) *EventSchema {
	return &EventSchema{
		id:      id,
		version: version,
		fields:  slices.Clone(fields),
	}
}

// ID of the event.
func (e *EventSchema) ID() EventID { return e.id }

// Version of the event descriptor the schema was built from.
func (e *EventSchema) Version() uint8 { return e.version }

// Len returns the number of fields. A nil schema has no fields.
func (e *EventSchema) Len() int {
	if e == nil {
		return 0
	}
	return len(e.fields)
}

// Field returns the i-th field in wire order.
func (e *EventSchema) Field(i int) FieldDefinition { return e.fields[i] }

// Fields returns a copy of the field list.
func (e *EventSchema) Fields() []FieldDefinition { return slices.Clone(e.fields) }

// FullyParsed reports whether no field descriptor was invalid.
func (e *EventSchema) FullyParsed() bool {
	for _, f := range e.fields {
		if f.status == StatusInvalid {
			return false
		}
	}
	return true
}

// ProviderSchema maps the event ids of one provider to their schemas. It is
// read-only once built.
type ProviderSchema struct {
	provider ProviderID
	events   map[EventID]*EventSchema
}

// Provider returns the id the schema was resolved for.
func (p *ProviderSchema) Provider() ProviderID { return p.provider }

// Event returns the schema of event id.
func (p *ProviderSchema) Event(id EventID) (*EventSchema, bool) {
	e, ok := p.events[id]
	return e, ok
}

// Len returns the number of described events.
func (p *ProviderSchema) Len() int { return len(p.events) }

// EventIDs returns the described event ids in ascending order.
func (p *ProviderSchema) EventIDs() []EventID {
	ids := make([]EventID, 0, len(p.events))
	for id := range p.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ProviderSchemaBuilder accumulates event schemas for one provider.
type ProviderSchemaBuilder struct {
	provider ProviderID
	events   map[EventID]*EventSchema
}

// NewProviderSchemaBuilder returns an empty builder for provider.
func NewProviderSchemaBuilder(provider ProviderID) *ProviderSchemaBuilder {
	return &ProviderSchemaBuilder{
		provider: provider,
		events:   make(map[EventID]*EventSchema),
	}
}

// Add records e. Schemas for event id 0 or without fields are refused. When an
// id is added twice the highest version is kept. Returns whether e was kept.
func (b *ProviderSchemaBuilder) Add(e *EventSchema) bool {
	if e == nil || e.id == 0 || len(e.fields) == 0 {
		return false
	}
	if prev, ok := b.events[e.id]; ok && prev.version > e.version {
		return false
	}
	b.events[e.id] = e
	return true
}

// Build returns the ProviderSchema. The builder must not be used afterwards.
func (b *ProviderSchemaBuilder) Build() *ProviderSchema {
	events := b.events
	b.events = nil
	return &ProviderSchema{
		provider: b.provider,
		events:   events,
	}
}

// EventView is the exported, serializable form of an EventSchema.
type EventView struct {
	ID          EventID     `json:"id" yaml:"id"`
	Version     uint8       `json:"version" yaml:"version"`
	FullyParsed bool        `json:"fully_parsed" yaml:"fully_parsed"`
	Fields      []FieldView `json:"fields" yaml:"fields"`
}

// ProviderView is the exported, serializable form of a ProviderSchema.
type ProviderView struct {
	Provider ProviderID  `json:"provider" yaml:"provider"`
	Events   []EventView `json:"events" yaml:"events"`
}

// View returns the serializable form of p, events in ascending id order.
func (p *ProviderSchema) View() ProviderView {
	v := ProviderView{Provider: p.provider}
	for _, id := range p.EventIDs() {
		e := p.events[id]
		ev := EventView{ID: id, Version: e.version, FullyParsed: e.FullyParsed()}
		for _, f := range e.fields {
			ev.Fields = append(ev.Fields, f.View())
		}
		v.Events = append(v.Events, ev)
	}
	return v
}
