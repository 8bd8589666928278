// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package schema

import (
	"fmt"
	"maps"
	"strings"
)

// FieldSpec carries everything needed to construct a FieldDefinition.
type FieldSpec struct {
	Name string
	Type SemanticType
	// DeclaredLength is a byte count; 0 means variable or null-terminated.
	DeclaredLength uint32
	IsArray        bool
	ArrayCount     uint32
	// CountField, when HasCountField is set, is the index within the event of
	// the field whose decoded value gives the array count.
	HasCountField bool
	CountField    int
	// LengthField, when HasLengthField is set, is the index within the event of
	// the field whose decoded value gives the length.
	HasLengthField bool
	LengthField    int
	EnumMap        map[string]string
	Status         ParseStatus
}

// FieldDefinition describes one field of an event payload. It is immutable:
// the enum map is copied at construction and only exposed through lookups.
type FieldDefinition struct {
	name           string
	typ            SemanticType
	declaredLength uint32
	isArray        bool
	arrayCount     uint32
	countField     int
	lengthField    int
	enumMap        map[string]string
	status         ParseStatus
}

// NewField builds a FieldDefinition from spec.
func NewField(spec FieldSpec) FieldDefinition {
	f := FieldDefinition{
		name:           spec.Name,
		typ:            spec.Type,
		declaredLength: spec.DeclaredLength,
		isArray:        spec.IsArray,
		arrayCount:     spec.ArrayCount,
		countField:     -1,
		lengthField:    -1,
		status:         spec.Status,
	}
	if spec.HasCountField {
		f.isArray = true
		f.countField = spec.CountField
	}
	if spec.HasLengthField {
		f.lengthField = spec.LengthField
	}
	if len(spec.EnumMap) > 0 {
		f.enumMap = maps.Clone(spec.EnumMap)
	}
	return f
}

// Name of the field, also the key in the decoded event.
func (f FieldDefinition) Name() string { return f.name }

// Type is the decode rule.
func (f FieldDefinition) Type() SemanticType { return f.typ }

// DeclaredLength in bytes, 0 for variable length.
func (f FieldDefinition) DeclaredLength() uint32 { return f.declaredLength }

// IsArray reports whether the field repeats.
func (f FieldDefinition) IsArray() bool { return f.isArray }

// ArrayCount is the declared element count of an array field.
func (f FieldDefinition) ArrayCount() uint32 { return f.arrayCount }

// CountField returns the index of the field holding this field's element count.
func (f FieldDefinition) CountField() (int, bool) { return f.countField, f.countField >= 0 }

// LengthField returns the index of the field holding this field's length.
func (f FieldDefinition) LengthField() (int, bool) { return f.lengthField, f.lengthField >= 0 }

// Status is the parse status of the descriptor the field was built from.
func (f FieldDefinition) Status() ParseStatus { return f.status }

// HasEnumMap reports whether values have labels.
func (f FieldDefinition) HasEnumMap() bool { return len(f.enumMap) > 0 }

// EnumLabel looks raw up in the field's enum map.
func (f FieldDefinition) EnumLabel(raw string) (string, bool) {
	label, ok := f.enumMap[raw]
	return label, ok
}

// EnumMap returns a copy of the enum map.
func (f FieldDefinition) EnumMap() map[string]string {
	return maps.Clone(f.enumMap)
}

// String implements fmt.Stringer, e.g. "Flags:UInt16[3]".
func (f FieldDefinition) String() string {
	var b strings.Builder
	b.WriteString(f.name)
	b.WriteByte(':')
	b.WriteString(f.typ.String())
	if f.declaredLength > 0 {
		fmt.Fprintf(&b, "(%d)", f.declaredLength)
	}
	switch {
	case f.countField >= 0:
		fmt.Fprintf(&b, "[#%d]", f.countField)
	case f.isArray:
		fmt.Fprintf(&b, "[%d]", f.arrayCount)
	}
	if f.status == StatusInvalid {
		b.WriteString(" (invalid)")
	}
	return b.String()
}

// FieldView is the exported, serializable form of a FieldDefinition.
type FieldView struct {
	Name           string            `json:"name" yaml:"name"`
	Type           string            `json:"type" yaml:"type"`
	DeclaredLength uint32            `json:"declared_length,omitempty" yaml:"declared_length,omitempty"`
	IsArray        bool              `json:"is_array,omitempty" yaml:"is_array,omitempty"`
	ArrayCount     uint32            `json:"array_count,omitempty" yaml:"array_count,omitempty"`
	CountField     *int              `json:"count_field,omitempty" yaml:"count_field,omitempty"`
	LengthField    *int              `json:"length_field,omitempty" yaml:"length_field,omitempty"`
	EnumMap        map[string]string `json:"enum_map,omitempty" yaml:"enum_map,omitempty"`
	Status         string            `json:"status" yaml:"status"`
}

// View returns the serializable form of f.
func (f FieldDefinition) View() FieldView {
	v := FieldView{
		Name:           f.name,
		Type:           f.typ.String(),
		DeclaredLength: f.declaredLength,
		IsArray:        f.isArray,
		ArrayCount:     f.arrayCount,
		EnumMap:        f.EnumMap(),
		Status:         f.status.String(),
	}
	if idx, ok := f.CountField(); ok {
		v.CountField = &idx
	}
	if idx, ok := f.LengthField(); ok {
		v.LengthField = &idx
	}
	return v
}
