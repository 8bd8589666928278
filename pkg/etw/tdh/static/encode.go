// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package static

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
)

// property is one EVENT_PROPERTY_INFO before encoding.
type property struct {
	flags   tdh.PropertyFlags
	name    string
	inType  uint16 // StructStartIndex for structs
	outType uint16 // NumOfStructMembers for structs
	mapName string
	count   uint16
	length  uint16
}

// encodeProviderEventInfo builds a PROVIDER_EVENT_INFO.
func encodeProviderEventInfo(events []Event) []byte {
	buf := make([]byte, tdh.ProviderEventInfoHeaderSize+len(events)*tdh.EventDescriptorSize)
	binary.LittleEndian.PutUint32(buf, uint32(len(events)))
	for i, e := range events {
		putDescriptor(buf[tdh.ProviderEventInfoHeaderSize+i*tdh.EventDescriptorSize:], e.Descriptor())
	}
	return buf
}

func putDescriptor(b []byte, d tdh.EventDescriptor) {
	binary.LittleEndian.PutUint16(b[0:], d.ID)
	b[2] = d.Version
	b[3] = d.Channel
	b[4] = d.Level
	b[5] = d.Opcode
	binary.LittleEndian.PutUint16(b[6:], d.Task)
	binary.LittleEndian.PutUint64(b[8:], d.Keyword)
}

// encodeTraceEventInfo builds the TRACE_EVENT_INFO of e: fixed header,
// property array at the aligned offset, then the UTF-16 string table.
func encodeTraceEventInfo(m *Manifest, e Event) ([]byte, error) {
	props, err := flatten(e.Fields)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", e.ID, err)
	}

	arrayOff := tdh.PropertyArrayOffset()
	buf := make([]byte, arrayOff+len(props)*tdh.EventPropertyInfoSize)
	addString := func(s string) (uint32, error) {
		if s == "" {
			return 0, nil
		}
		off := uint32(len(buf))
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
		if err != nil {
			return 0, err
		}
		buf = append(buf, encoded...)
		buf = append(buf, 0, 0)
		return off, nil
	}

	providerName, err := addString(m.Name)
	if err != nil {
		return nil, err
	}
	eventName, err := addString(e.Name)
	if err != nil {
		return nil, err
	}

	copy(buf[tdh.TEIProviderGUID:], m.Provider.AppendBytes(nil))
	putDescriptor(buf[tdh.TEIEventDescriptor:], e.Descriptor())
	binary.LittleEndian.PutUint32(buf[tdh.TEIDecodingSource:], uint32(tdh.DecodingSourceXMLFile))
	binary.LittleEndian.PutUint32(buf[tdh.TEIProviderNameOffset:], providerName)
	binary.LittleEndian.PutUint32(buf[tdh.TEIEventNameOffset:], eventName)
	binary.LittleEndian.PutUint32(buf[tdh.TEIPropertyCount:], uint32(len(props)))
	binary.LittleEndian.PutUint32(buf[tdh.TEITopLevelPropertyCount:], uint32(len(e.Fields)))

	for i, p := range props {
		nameOff, err := addString(p.name)
		if err != nil {
			return nil, err
		}
		mapOff, err := addString(p.mapName)
		if err != nil {
			return nil, err
		}
		rec := buf[arrayOff+i*tdh.EventPropertyInfoSize:]
		binary.LittleEndian.PutUint32(rec[tdh.EPIFlags:], uint32(p.flags))
		binary.LittleEndian.PutUint32(rec[tdh.EPINameOffset:], nameOff)
		binary.LittleEndian.PutUint16(rec[tdh.EPIInType:], p.inType)
		binary.LittleEndian.PutUint16(rec[tdh.EPIOutType:], p.outType)
		if !p.flags.Has(tdh.PropertyStruct) {
			binary.LittleEndian.PutUint32(rec[tdh.EPIMapNameOffset:], mapOff)
		}
		binary.LittleEndian.PutUint16(rec[tdh.EPICount:], p.count)
		binary.LittleEndian.PutUint16(rec[tdh.EPILength:], p.length)
	}
	return buf, nil
}

// flatten lays out the property array: top-level properties first, struct
// members after them, each struct pointing at its first member.
func flatten(fields []Field) ([]property, error) {
	props := make([]property, 0, len(fields))
	topLevel := indexNames(fields, 0)
	for _, f := range fields {
		p, err := newProperty(f, topLevel, nil)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	for i, f := range fields {
		if len(f.Members) == 0 {
			continue
		}
		start := len(props)
		props[i].inType = uint16(start)
		props[i].outType = uint16(len(f.Members))
		siblings := indexNames(f.Members, start)
		for _, member := range f.Members {
			if len(member.Members) > 0 {
				return nil, fmt.Errorf("%s.%s: nested structs are not supported", f.Name, member.Name)
			}
			p, err := newProperty(member, topLevel, siblings)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			props = append(props, p)
		}
	}
	return props, nil
}

func indexNames(fields []Field, base int) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = base + i
	}
	return idx
}

func newProperty(f Field, topLevel, siblings map[string]int) (property, error) {
	lookup := func(name string) (uint16, error) {
		if i, ok := siblings[name]; ok {
			return uint16(i), nil
		}
		if i, ok := topLevel[name]; ok {
			return uint16(i), nil
		}
		return 0, fmt.Errorf("%s: unknown field %q", f.Name, name)
	}

	p := property{name: f.Name, mapName: f.Map, count: 1}
	switch {
	case f.CountField != "":
		i, err := lookup(f.CountField)
		if err != nil {
			return p, err
		}
		p.flags |= tdh.PropertyParamCount
		p.count = i
	case f.Count > 0:
		p.flags |= tdh.PropertyParamFixedCount
		p.count = f.Count
	}

	if len(f.Members) > 0 {
		p.flags |= tdh.PropertyStruct
		return p, nil
	}

	switch {
	case f.LengthField != "":
		i, err := lookup(f.LengthField)
		if err != nil {
			return p, err
		}
		p.flags |= tdh.PropertyParamLength
		p.length = i
	case f.Length > 0:
		p.flags |= tdh.PropertyParamFixedLength
		p.length = f.Length
	}

	in, err := ParseInType(f.Type)
	if err != nil {
		return p, fmt.Errorf("%s: %w", f.Name, err)
	}
	out, err := ParseOutType(f.OutType)
	if err != nil {
		return p, fmt.Errorf("%s: %w", f.Name, err)
	}
	p.inType = uint16(in)
	p.outType = uint16(out)
	return p, nil
}

// providerOf is the key of a manifest in the API.
func providerOf(p *schema.ProviderID) schema.ProviderID {
	if p == nil {
		return schema.ProviderID{}
	}
	return *p
}
