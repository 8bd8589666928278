// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package static

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/internal/wire"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
)

var kernelProcess = schema.MustParseProviderID("{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}")

func loadTestAPI(t *testing.T) *API {
	t.Helper()
	api, err := NewFromFile("testdata/kernel-process.yaml")
	require.NoError(t, err)
	return api
}

func TestLoad(t *testing.T) {
	manifests, err := LoadFile("testdata/kernel-process.yaml")
	require.NoError(t, err)
	require.Len(t, manifests, 1)

	m := manifests[0]
	assert.Equal(t, kernelProcess, m.Provider)
	assert.Equal(t, "Microsoft-Windows-Kernel-Process", m.Name)
	require.Len(t, m.Events, 4)
	assert.EqualValues(t, 0x10, m.Events[0].Keyword)
	assert.Equal(t, "Full", m.EnumMaps["TokenElevationTypeMap"]["2"])
	assert.Len(t, m.Events[3].Fields[2].Members, 2)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(strings.NewReader("events: []\n"))
	assert.ErrorContains(t, err, "missing provider")

	_, err = Load(strings.NewReader("provider: nope\n"))
	assert.Error(t, err)

	manifests, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, manifests)
}

func TestParseInType(t *testing.T) {
	for s, want := range map[string]tdh.InType{
		"win:UInt32":        tdh.InTypeUInt32,
		"UnicodeString":     tdh.InTypeUnicodeString,
		"win:GUID":          tdh.InTypeGUID,
		"win:CountedString": tdh.InTypeManifestCountedString,
		"307":               tdh.InTypeAnsiChar,
	} {
		got, err := ParseInType(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
	_, err := ParseInType("win:Quaternion")
	assert.Error(t, err)

	out, err := ParseOutType("win:IPv6")
	require.NoError(t, err)
	assert.Equal(t, tdh.OutTypeIPv6, out)
}

func TestAddRejectsBadReferences(t *testing.T) {
	api := New()
	err := api.Add(&Manifest{
		Provider: kernelProcess,
		Events: []Event{{ID: 1, Fields: []Field{
			{Name: "Items", Type: "win:UInt32", CountField: "Missing"},
		}}},
	})
	assert.ErrorContains(t, err, `unknown field "Missing"`)

	err = api.Add(&Manifest{
		Provider: kernelProcess,
		Events: []Event{{ID: 1, Fields: []Field{
			{Name: "Outer", Members: []Field{{Name: "Inner", Members: []Field{{Name: "X", Type: "win:UInt8"}}}}},
		}}},
	})
	assert.ErrorContains(t, err, "nested structs")
}

func TestEnumerateLayout(t *testing.T) {
	api := loadTestAPI(t)
	buf, res := tdh.NewReader(api, 0).Read(tdh.EnumerateEvents(kernelProcess))
	require.True(t, res.OK(), res.Err())
	require.Len(t, buf, tdh.ProviderEventInfoHeaderSize+4*tdh.EventDescriptorSize)

	c := wire.NewCursor(buf)
	count, _ := c.ReadUint32()
	assert.EqualValues(t, 4, count)
	c.Skip(4)
	id, _ := c.ReadUint16()
	assert.EqualValues(t, 1, id)

	// third descriptor: id 5 version 1
	require.True(t, c.Seek(tdh.ProviderEventInfoHeaderSize+2*tdh.EventDescriptorSize))
	id, _ = c.ReadUint16()
	version, _ := c.ReadUint8()
	assert.EqualValues(t, 5, id)
	assert.EqualValues(t, 1, version)

	assert.Equal(t, 2, api.Calls(tdh.KindEnumerateEvents))
}

func TestTraceEventInfoLayout(t *testing.T) {
	api := loadTestAPI(t)
	buf, res := tdh.NewReader(api, 0).Read(tdh.DescribeEvent(kernelProcess, tdh.EventDescriptor{ID: 10}))
	require.True(t, res.OK(), res.Err())

	c := wire.NewCursor(buf)
	assert.Equal(t, kernelProcess, schema.ProviderIDFromBytes(buf[tdh.TEIProviderGUID:]))

	require.True(t, c.Seek(tdh.TEIPropertyCount))
	count, _ := c.ReadUint32()
	topLevel, _ := c.ReadUint32()
	assert.EqualValues(t, 5, count)
	assert.EqualValues(t, 3, topLevel)

	nameOff := func(i int) int {
		c.Seek(tdh.PropertyArrayOffset() + i*tdh.EventPropertyInfoSize + tdh.EPINameOffset)
		off, _ := c.ReadUint32()
		return int(off)
	}
	name := func(i int) string {
		s, ok := c.UTF16CStringAt(nameOff(i))
		require.True(t, ok)
		return s
	}
	assert.Equal(t, "GroupCount", name(0))
	assert.Equal(t, "Groups", name(1))
	assert.Equal(t, "Affinity", name(2))
	assert.Equal(t, "Mask", name(3))
	assert.Equal(t, "Group", name(4))

	rec := func(i int) []byte {
		off := tdh.PropertyArrayOffset() + i*tdh.EventPropertyInfoSize
		return buf[off : off+tdh.EventPropertyInfoSize]
	}
	groups := wire.NewCursor(rec(1))
	flags, _ := groups.ReadUint32()
	assert.Equal(t, tdh.PropertyParamCount, tdh.PropertyFlags(flags))
	groups.Seek(tdh.EPICount)
	countIndex, _ := groups.ReadUint16()
	assert.EqualValues(t, 0, countIndex)

	affinity := wire.NewCursor(rec(2))
	flags, _ = affinity.ReadUint32()
	assert.True(t, tdh.PropertyFlags(flags).Has(tdh.PropertyStruct))
	affinity.Seek(tdh.EPIInType)
	start, _ := affinity.ReadUint16()
	members, _ := affinity.ReadUint16()
	assert.EqualValues(t, 3, start)
	assert.EqualValues(t, 2, members)
}

func TestNotFoundAndFailures(t *testing.T) {
	api := loadTestAPI(t)
	r := tdh.NewReader(api, 0)

	_, res := r.Read(tdh.EnumerateEvents(schema.ProviderID{Data1: 0xdead}))
	assert.Equal(t, tdh.StatusNotFound, res.Status)

	_, res = r.Read(tdh.DescribeEvent(kernelProcess, tdh.EventDescriptor{ID: 99}))
	assert.Equal(t, tdh.StatusNotFound, res.Status)

	// version is part of the lookup
	_, res = r.Read(tdh.DescribeEvent(kernelProcess, tdh.EventDescriptor{ID: 5}))
	assert.Equal(t, tdh.StatusNotFound, res.Status)

	api.SetFailure(tdh.KindDescribeEvent, 2, tdh.ErrorInvalidParameter)
	_, res = r.Read(tdh.DescribeEvent(kernelProcess, tdh.EventDescriptor{ID: 2}))
	assert.Equal(t, tdh.StatusInvalidArgument, res.Status)
	_, res = r.Read(tdh.DescribeEvent(kernelProcess, tdh.EventDescriptor{ID: 1}))
	assert.True(t, res.OK())

	api.SetFailure(tdh.KindDescribeEvent, 2, nil)
	_, res = r.Read(tdh.DescribeEvent(kernelProcess, tdh.EventDescriptor{ID: 2}))
	assert.True(t, res.OK())
}

func TestEmptyProvider(t *testing.T) {
	api := New()
	require.NoError(t, api.Add(&Manifest{Provider: kernelProcess}))
	buf, res := tdh.NewReader(api, 0).Read(tdh.EnumerateEvents(kernelProcess))
	assert.True(t, res.OK())
	assert.Empty(t, buf)
}

func TestEnumMaps(t *testing.T) {
	api := loadTestAPI(t)
	m, err := api.TdhGetManifestEventMap(&kernelProcess, &tdh.EventDescriptor{ID: 2}, "TokenElevationTypeMap")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Default", "2": "Full", "3": "Limited"}, m)

	_, err = api.TdhGetManifestEventMap(&kernelProcess, &tdh.EventDescriptor{ID: 2}, "Nope")
	assert.ErrorIs(t, err, tdh.ErrorNotFound)
}

func TestCorrupt(t *testing.T) {
	api := loadTestAPI(t)
	api.Corrupt(1, 0, func(b []byte) {
		b[tdh.TEIPropertyCount] = 0xff
	})
	buf, res := tdh.NewReader(api, 0).Read(tdh.DescribeEvent(kernelProcess, tdh.EventDescriptor{ID: 1}))
	require.True(t, res.OK())
	assert.EqualValues(t, 0xff, buf[tdh.TEIPropertyCount])
}
