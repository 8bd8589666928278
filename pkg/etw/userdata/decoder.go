// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package userdata decodes the UserData payload of an event with the
// EventSchema of its provider.
//
// Decoding never fails. Without a schema or payload the fallback properties
// supplied by the capture session are returned as is; a value that runs past
// the end of the payload renders as schema.NullValue; any fault falls back to
// the fallback properties and records the fault under schema.DiagnosticKey.
package userdata

import (
	"fmt"
	"strings"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/internal/wire"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// Decoder decodes payloads. It holds no state: the zero value is ready to use
// and safe for concurrent use as long as each call owns its blob.
type Decoder struct{}

// Decode decodes blob with es using the zero Decoder.
func Decode(es *schema.EventSchema, blob []byte, fallback []schema.Property) *schema.DecodedEvent {
	return Decoder{}.Decode(es, blob, fallback)
}

// Decode walks the fields of es over blob in order. es is only read.
func (d Decoder) Decode(es *schema.EventSchema, blob []byte, fallback []schema.Property) (event *schema.DecodedEvent) {
	if es.Len() == 0 || len(blob) == 0 {
		tlm.events.Inc(pathFallback)
		return schema.DecodedEventFromProperties(fallback)
	}

	defer func() {
		if r := recover(); r != nil {
			event = faulted(es, fallback, r)
		}
	}()

	w := walker{
		cursor: wire.NewCursor(blob),
		schema: es,
		event:  schema.NewDecodedEvent(es.Len()),
		ints:   make([]intValue, es.Len()),
	}
	w.walk()
	tlm.events.Inc(pathSchema)
	if w.nulls > 0 {
		tlm.nullValues.Add(float64(w.nulls))
	}
	return w.event
}

func faulted(es *schema.EventSchema, fallback []schema.Property, fault interface{}) *schema.DecodedEvent {
	tlm.events.Inc(pathFault)
	msg := fmt.Sprintf("decoding event %d: %v", es.ID(), fault)
	log.Warnf("Falling back to the event properties: %s", msg) //nolint:errcheck

	event := schema.NewDecodedEvent(len(fallback) + 1)
	for _, p := range fallback {
		event.Set(p.Name, p.Value)
	}
	event.Set(schema.DiagnosticKey, msg)
	return event
}

// intValue is the decoded value of an integer field, kept for the fields
// taking their count or length from it.
type intValue struct {
	set   bool
	value uint64
}

// beforeField, when set, runs before each field is decoded. Tests use it to
// fault in the middle of a walk.
var beforeField func(i int)

type walker struct {
	cursor *wire.Cursor
	schema *schema.EventSchema
	event  *schema.DecodedEvent
	ints   []intValue
	nulls  int
}

func (w *walker) walk() {
	for i := 0; i < w.schema.Len(); i++ {
		if beforeField != nil {
			beforeField(i)
		}
		f := w.schema.Field(i)
		if f.Type() == schema.Unknown {
			w.skip(f)
			continue
		}

		start := w.cursor.Pos()
		rendered, err := w.field(i, f)
		if err != nil {
			// the cursor stays at the start of the field for its siblings
			w.cursor.Seek(start)
			w.nulls++
			log.Tracef("Event %d field %s at offset %d: %v", w.schema.ID(), f.Name(), start, err)
			w.event.Set(f.Name(), schema.NullValue)
			continue
		}
		w.event.Set(f.Name(), rendered)
	}
}

// skip advances over a field without a decode rule, clamping at the end.
func (w *walker) skip(f schema.FieldDefinition) {
	n := int(f.DeclaredLength())
	if n == 0 {
		n = schema.UnknownSkipWidth
	}
	if !w.cursor.Skip(n) {
		w.cursor.Seek(w.cursor.Len())
	}
}

// reference returns the decoded value of the integer field idx, which must
// precede field i.
func (w *walker) reference(i, idx int, what string) (uint64, error) {
	if idx < 0 || idx >= i {
		return 0, fmt.Errorf("%s taken from field %d, which is not decoded before field %d", what, idx, i)
	}
	v := w.ints[idx]
	if !v.set {
		return 0, fmt.Errorf("%s taken from field %s, which has no integer value", what, w.schema.Field(idx).Name())
	}
	return v.value, nil
}

func (w *walker) field(i int, f schema.FieldDefinition) (string, error) {
	length := lengthSpec{bytes: f.DeclaredLength()}
	if idx, ok := f.LengthField(); ok {
		v, err := w.reference(i, idx, "length")
		if err != nil {
			return "", err
		}
		if f.Type() == schema.UnicodeString {
			// characters
			v *= 2
		}
		length = lengthSpec{bytes: uint32(min(v, uint64(w.cursor.Len()))), dynamic: true}
	}

	if !f.IsArray() {
		v, err := readValue(w.cursor, f.Type(), length)
		if err != nil {
			return "", err
		}
		if v.isInt {
			w.ints[i] = intValue{set: true, value: v.bits}
		}
		return withEnumLabel(f, v), nil
	}

	count := uint64(f.ArrayCount())
	if idx, ok := f.CountField(); ok {
		v, err := w.reference(i, idx, "count")
		if err != nil {
			return "", err
		}
		count = v
	}
	if count > uint64(w.cursor.Remaining()) {
		// every element takes at least one byte
		return "", fmt.Errorf("%d elements in %d bytes", count, w.cursor.Remaining())
	}
	elements := make([]string, 0, count)
	for k := uint64(0); k < count; k++ {
		v, err := readValue(w.cursor, f.Type(), length)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", k, err)
		}
		elements = append(elements, v.text)
	}
	return strings.Join(elements, ", "), nil
}

// withEnumLabel renders "<raw> (<label>)" when the value has a label.
func withEnumLabel(f schema.FieldDefinition, v value) string {
	if !f.HasEnumMap() {
		return v.text
	}
	if label, ok := f.EnumLabel(v.key()); ok {
		return v.text + " (" + label + ")"
	}
	return v.text
}
