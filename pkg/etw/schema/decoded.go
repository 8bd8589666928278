// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package schema

import (
	jsoniter "github.com/json-iterator/go"
)

const (
	// NullValue is the rendering of a value that could not be read.
	NullValue = "(null)"
	// DiagnosticKey is the reserved key recording a decode fault.
	DiagnosticKey = "_decode_error"
)

// Property is one name/value pair of the runtime's self-describing view of
// an event, used as fallback when schema decoding is unavailable.
type Property struct {
	Name  string
	Value string
}

// DecodedEvent is an insertion-ordered mapping from field name to rendered value.
type DecodedEvent struct {
	keys   []string
	values map[string]string
}

// NewDecodedEvent returns an empty event with room for capacity fields.
func NewDecodedEvent(capacity int) *DecodedEvent {
	return &DecodedEvent{
		keys:   make([]string, 0, capacity),
		values: make(map[string]string, capacity),
	}
}

// DecodedEventFromProperties builds an event from props, in order.
func DecodedEventFromProperties(props []Property) *DecodedEvent {
	d := NewDecodedEvent(len(props))
	for _, p := range props {
		d.Set(p.Name, p.Value)
	}
	return d
}

// Set stores value under name. A name keeps the position of its first Set.
func (d *DecodedEvent) Set(name, value string) {
	if _, ok := d.values[name]; !ok {
		d.keys = append(d.keys, name)
	}
	d.values[name] = value
}

// Get returns the value stored under name.
func (d *DecodedEvent) Get(name string) (string, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Len returns the number of entries, the diagnostic key included.
func (d *DecodedEvent) Len() int { return len(d.keys) }

// Keys returns the names in insertion order.
func (d *DecodedEvent) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Properties returns the entries in insertion order.
func (d *DecodedEvent) Properties() []Property {
	props := make([]Property, 0, len(d.keys))
	for _, k := range d.keys {
		props = append(props, Property{Name: k, Value: d.values[k]})
	}
	return props
}

// Diagnostic returns the decode fault message, if any.
func (d *DecodedEvent) Diagnostic() (string, bool) {
	return d.Get(DiagnosticKey)
}

// MarshalJSON renders the event as a JSON object preserving field order.
func (d *DecodedEvent) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigDefault.BorrowStream(nil)
	defer jsoniter.ConfigDefault.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, k := range d.keys {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(k)
		stream.WriteString(d.values[k])
	}
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}
