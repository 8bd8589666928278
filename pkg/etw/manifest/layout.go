// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package manifest

import (
	"fmt"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/internal/wire"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
)

// parseProviderEventInfo reads the descriptors of a PROVIDER_EVENT_INFO. A
// truncated buffer returns the descriptors read so far along with an error.
func parseProviderEventInfo(buf []byte) ([]tdh.EventDescriptor, error) {
	if len(buf) == 0 {
		return nil, nil
	}
	c := wire.NewCursor(buf)
	count, ok := c.ReadUint32()
	if !ok || !c.Skip(tdh.ProviderEventInfoHeaderSize-4) {
		return nil, fmt.Errorf("provider event info: %d bytes, header needs %d", len(buf), tdh.ProviderEventInfoHeaderSize)
	}

	descriptors := make([]tdh.EventDescriptor, 0, min(int(count), c.Remaining()/tdh.EventDescriptorSize))
	for i := uint32(0); i < count; i++ {
		rec, ok := c.ReadFixed(tdh.EventDescriptorSize)
		if !ok {
			return descriptors, fmt.Errorf("provider event info: %d of %d descriptors present", i, count)
		}
		descriptors = append(descriptors, readDescriptor(wire.NewCursor(rec)))
	}
	return descriptors, nil
}

// readDescriptor reads an EVENT_DESCRIPTOR from a cursor holding at least
// tdh.EventDescriptorSize bytes.
func readDescriptor(c *wire.Cursor) tdh.EventDescriptor {
	var d tdh.EventDescriptor
	d.ID, _ = c.ReadUint16()
	d.Version, _ = c.ReadUint8()
	d.Channel, _ = c.ReadUint8()
	d.Level, _ = c.ReadUint8()
	d.Opcode, _ = c.ReadUint8()
	d.Task, _ = c.ReadUint16()
	d.Keyword, _ = c.ReadUint64()
	return d
}

// traceEventInfo is a parsed TRACE_EVENT_INFO header over its buffer.
type traceEventInfo struct {
	buf           []byte
	descriptor    tdh.EventDescriptor
	eventName     string
	propertyCount int
	topLevelCount int
}

// propertyInfo is one EVENT_PROPERTY_INFO record.
type propertyInfo struct {
	index         int
	flags         tdh.PropertyFlags
	nameOffset    uint32
	inType        uint16 // StructStartIndex for structs
	outType       uint16 // NumOfStructMembers for structs
	mapNameOffset uint32
	count         uint16 // countPropertyIndex with PropertyParamCount
	length        uint16 // lengthPropertyIndex with PropertyParamLength
}

func (p propertyInfo) isStruct() bool { return p.flags.Has(tdh.PropertyStruct) }

func (p propertyInfo) structRange() (start, count int) {
	return int(p.inType), int(p.outType)
}

func parseTraceEventInfo(buf []byte) (*traceEventInfo, error) {
	if len(buf) < tdh.TraceEventInfoHeaderSize {
		return nil, fmt.Errorf("trace event info: %d bytes, header needs %d", len(buf), tdh.TraceEventInfoHeaderSize)
	}
	c := wire.NewCursor(buf)
	info := &traceEventInfo{buf: buf}

	c.Seek(tdh.TEIEventDescriptor)
	info.descriptor = readDescriptor(c)

	c.Seek(tdh.TEIEventNameOffset)
	if off, _ := c.ReadUint32(); off != 0 {
		// the name is informational, an unreadable one is ignored
		info.eventName, _ = c.UTF16CStringAt(int(off))
	}

	c.Seek(tdh.TEIPropertyCount)
	propertyCount, _ := c.ReadUint32()
	topLevelCount, _ := c.ReadUint32()
	if topLevelCount > propertyCount {
		return nil, fmt.Errorf("trace event info: %d top level properties out of %d", topLevelCount, propertyCount)
	}
	info.propertyCount = int(propertyCount)
	info.topLevelCount = int(topLevelCount)
	return info, nil
}

// property reads the i-th EVENT_PROPERTY_INFO of the array starting at the
// 8-byte aligned end of the header.
func (t *traceEventInfo) property(i int) (propertyInfo, error) {
	if i < 0 || i >= t.propertyCount {
		return propertyInfo{}, fmt.Errorf("property %d out of %d", i, t.propertyCount)
	}
	c := wire.NewCursor(t.buf)
	if !c.Seek(tdh.PropertyArrayOffset() + i*tdh.EventPropertyInfoSize) {
		return propertyInfo{}, fmt.Errorf("property %d: record beyond buffer end", i)
	}
	rec, ok := c.ReadFixed(tdh.EventPropertyInfoSize)
	if !ok {
		return propertyInfo{}, fmt.Errorf("property %d: truncated record", i)
	}

	r := wire.NewCursor(rec)
	p := propertyInfo{index: i}
	flags, _ := r.ReadUint32()
	p.flags = tdh.PropertyFlags(flags)
	p.nameOffset, _ = r.ReadUint32()
	p.inType, _ = r.ReadUint16()
	p.outType, _ = r.ReadUint16()
	p.mapNameOffset, _ = r.ReadUint32()
	p.count, _ = r.ReadUint16()
	p.length, _ = r.ReadUint16()
	return p, nil
}

// stringAt reads the null-terminated UTF-16 string at byte offset off of the buffer.
func (t *traceEventInfo) stringAt(off uint32) (string, error) {
	if off == 0 || int64(off) >= int64(len(t.buf)) {
		return "", fmt.Errorf("string offset %d outside of %d byte buffer", off, len(t.buf))
	}
	s, ok := wire.NewCursor(t.buf).UTF16CStringAt(int(off))
	if !ok {
		return "", fmt.Errorf("unterminated string at offset %d", off)
	}
	return s, nil
}
