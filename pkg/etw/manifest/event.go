// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package manifest

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
)

// eventParser turns the property array of one TRACE_EVENT_INFO into the
// ordered field list of an EventSchema.
type eventParser struct {
	provider schema.ProviderID
	info     *traceEventInfo
	enumMaps EnumMapResolver

	fields []schema.FieldDefinition
	// field index of each top-level scalar property, for count and length references
	topLevel map[int]int
	errs     *multierror.Error
}

// parseEvent builds the schema of the event described by buf. The error
// aggregates the per-field anomalies; the schema is nil only when the header
// itself cannot be read.
func parseEvent(provider schema.ProviderID, descriptor tdh.EventDescriptor, buf []byte, enumMaps EnumMapResolver) (*schema.EventSchema, error) {
	info, err := parseTraceEventInfo(buf)
	if err != nil {
		return nil, err
	}
	// the descriptor we asked for is authoritative, the returned one may omit the version
	info.descriptor = descriptor

	p := &eventParser{
		provider: provider,
		info:     info,
		enumMaps: enumMaps,
		fields:   make([]schema.FieldDefinition, 0, info.topLevelCount),
		topLevel: make(map[int]int, info.topLevelCount),
	}
	for i := 0; i < info.topLevelCount; i++ {
		p.parseTopLevel(i)
	}
	return schema.NewEventSchema(schema.EventID(descriptor.ID), descriptor.Version, p.fields), p.errs.ErrorOrNil()
}

func placeholderName(i int) string {
	return fmt.Sprintf("Field%d", i)
}

func (p *eventParser) addInvalid(name string, typ schema.SemanticType, err error) {
	p.errs = multierror.Append(p.errs, fmt.Errorf("field %s: %w", name, err))
	tlm.fieldsInvalid.Inc()
	p.fields = append(p.fields, schema.NewField(schema.FieldSpec{
		Name:   name,
		Type:   typ,
		Status: schema.StatusInvalid,
	}))
}

// recoverField turns a fault while parsing one property into an invalid field.
func (p *eventParser) recoverField(name func() string) {
	if r := recover(); r != nil {
		p.addInvalid(name(), schema.Unknown, fmt.Errorf("fault: %v", r))
	}
}

func (p *eventParser) parseTopLevel(i int) {
	name := placeholderName(i)
	defer p.recoverField(func() string { return name })

	prop, err := p.info.property(i)
	if err != nil {
		p.addInvalid(name, schema.Unknown, err)
		return
	}
	name, nameErr := p.info.stringAt(prop.nameOffset)
	if nameErr != nil {
		name = placeholderName(i)
		p.badName(name, nameErr)
	}
	if prop.isStruct() {
		p.parseStruct(name, prop)
		return
	}

	spec, err := p.fieldSpec(name, prop, func(idx int) (int, bool) {
		field, ok := p.topLevel[idx]
		return field, ok
	})
	if err != nil {
		p.addInvalid(name, schema.Unknown, err)
		return
	}
	p.topLevel[i] = len(p.fields)
	p.addField(spec, nameErr)
}

// badName records an unreadable property name. The field keeps its layout
// under a placeholder name so that its siblings stay at their offsets.
func (p *eventParser) badName(name string, err error) {
	p.errs = multierror.Append(p.errs, fmt.Errorf("field %s: name: %w", name, err))
}

func (p *eventParser) addField(spec schema.FieldSpec, nameErr error) {
	if nameErr != nil {
		spec.Status = schema.StatusInvalid
		tlm.fieldsInvalid.Inc()
	}
	p.fields = append(p.fields, schema.NewField(spec))
}

// parseStruct flattens the members of a struct property: "Parent.Member" for
// a single struct, "Parent[i].Member" for a fixed-count array of structs.
func (p *eventParser) parseStruct(name string, prop propertyInfo) {
	if prop.flags.Has(tdh.PropertyParamCount) {
		p.addInvalid(name, schema.Unknown, fmt.Errorf("struct with a count taken from property %d", prop.count))
		return
	}
	start, members := prop.structRange()
	if members == 0 || start < p.info.topLevelCount || start+members > p.info.propertyCount {
		p.addInvalid(name, schema.Unknown, fmt.Errorf("struct members [%d, %d) outside of [%d, %d)",
			start, start+members, p.info.topLevelCount, p.info.propertyCount))
		return
	}

	elements, indexed := 1, false
	if prop.flags.Has(tdh.PropertyParamFixedCount) || prop.count > 1 {
		elements, indexed = int(prop.count), true
	}
	for e := 0; e < elements; e++ {
		prefix := name
		if indexed {
			prefix = fmt.Sprintf("%s[%d]", name, e)
		}
		siblings := make(map[int]int, members)
		for m := start; m < start+members; m++ {
			p.parseMember(m, prefix, siblings)
		}
	}
}

func (p *eventParser) parseMember(i int, prefix string, siblings map[int]int) {
	name := prefix + "." + placeholderName(i)
	defer p.recoverField(func() string { return name })

	prop, err := p.info.property(i)
	if err != nil {
		p.addInvalid(name, schema.Unknown, err)
		return
	}
	member, nameErr := p.info.stringAt(prop.nameOffset)
	if nameErr != nil {
		p.badName(name, nameErr)
	} else {
		name = prefix + "." + member
	}
	if prop.isStruct() {
		p.addInvalid(name, schema.Unknown, errors.New("nested struct"))
		return
	}

	spec, err := p.fieldSpec(name, prop, func(idx int) (int, bool) {
		if field, ok := siblings[idx]; ok {
			return field, true
		}
		field, ok := p.topLevel[idx]
		return field, ok
	})
	if err != nil {
		p.addInvalid(name, schema.Unknown, err)
		return
	}
	siblings[i] = len(p.fields)
	p.addField(spec, nameErr)
}

// fieldSpec describes a scalar or array property. ref maps a property index
// to the index of an already built field.
func (p *eventParser) fieldSpec(name string, prop propertyInfo, ref func(int) (int, bool)) (schema.FieldSpec, error) {
	in, out := tdh.InType(prop.inType), tdh.OutType(prop.outType)
	spec := schema.FieldSpec{
		Name:           name,
		Type:           SemanticTypeOf(in),
		DeclaredLength: declaredLength(in, out, prop),
		Status:         schema.StatusValid,
	}
	if spec.Type == schema.Unknown {
		spec.Status = schema.StatusUnknown
	}

	reference := func(idx uint16, what string) (int, error) {
		field, ok := ref(int(idx))
		if !ok {
			return 0, fmt.Errorf("%s taken from property %d, which is not a preceding scalar", what, idx)
		}
		if t := p.fields[field].Type(); !t.IsInteger() {
			return 0, fmt.Errorf("%s taken from property %d of type %s", what, idx, t)
		}
		return field, nil
	}

	switch {
	case isCharType(in) && prop.flags.Has(tdh.PropertyParamCount):
		// a run of characters whose count is another property is a string of that length
		field, err := reference(prop.count, "length")
		if err != nil {
			return spec, err
		}
		spec.DeclaredLength = 0
		spec.HasLengthField, spec.LengthField = true, field
		return p.withEnumMap(spec, prop), nil
	case isCharType(in):
		// the count is already the string length
	case prop.flags.Has(tdh.PropertyParamCount):
		field, err := reference(prop.count, "count")
		if err != nil {
			return spec, err
		}
		spec.HasCountField, spec.CountField = true, field
	case prop.flags.Has(tdh.PropertyParamFixedCount) || prop.count > 1:
		spec.IsArray, spec.ArrayCount = true, uint32(prop.count)
	}

	if prop.flags.Has(tdh.PropertyParamLength) {
		field, err := reference(prop.length, "length")
		if err != nil {
			return spec, err
		}
		spec.HasLengthField, spec.LengthField = true, field
	}
	return p.withEnumMap(spec, prop), nil
}

// withEnumMap attaches the value map of prop. A missing map leaves the field
// without labels.
func (p *eventParser) withEnumMap(spec schema.FieldSpec, prop propertyInfo) schema.FieldSpec {
	if prop.mapNameOffset == 0 || p.enumMaps == nil {
		return spec
	}
	mapName, err := p.info.stringAt(prop.mapNameOffset)
	if err != nil {
		p.errs = multierror.Append(p.errs, fmt.Errorf("field %s: map name: %w", spec.Name, err))
		return spec
	}
	spec.EnumMap = p.enumMaps.ResolveEnumMap(p.provider, p.info.descriptor, mapName)
	return spec
}
