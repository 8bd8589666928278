// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package tdh

// Native record layouts (x64, tdh.h). The widths are the wire widths of the
// records inside the buffers returned by TDH and are pinned by tests; never
// replace them with unsafe.Sizeof of a Go mirror.
const (
	// PROVIDER_EVENT_INFO: NumberOfEvents u32, Reserved u32, then EVENT_DESCRIPTOR[].
	ProviderEventInfoHeaderSize = 8
	// EVENT_DESCRIPTOR: Id u16, Version u8, Channel u8, Level u8, Opcode u8, Task u16, Keyword u64.
	EventDescriptorSize = 16
	// TRACE_EVENT_INFO up to, excluding, EventPropertyInfoArray.
	TraceEventInfoHeaderSize = 112
	// EVENT_PROPERTY_INFO.
	EventPropertyInfoSize = 24
	// alignment of EventPropertyInfoArray inside TRACE_EVENT_INFO.
	PropertyArrayAlignment = 8
)

// TRACE_EVENT_INFO field offsets.
const (
	TEIProviderGUID          = 0
	TEIEventGUID             = 16
	TEIEventDescriptor       = 32
	TEIDecodingSource        = 48
	TEIProviderNameOffset    = 52
	TEILevelNameOffset       = 56
	TEIChannelNameOffset     = 60
	TEIKeywordsNameOffset    = 64
	TEITaskNameOffset        = 68
	TEIOpcodeNameOffset      = 72
	TEIEventMessageOffset    = 76
	TEIProviderMessageOffset = 80
	TEIBinaryXMLOffset       = 84
	TEIBinaryXMLSize         = 88
	TEIEventNameOffset       = 92
	TEIRelatedActivityOffset = 96
	TEIPropertyCount         = 100
	TEITopLevelPropertyCount = 104
	TEIFlags                 = 108
)

// EVENT_PROPERTY_INFO field offsets.
const (
	EPIFlags         = 0
	EPINameOffset    = 4
	EPIInType        = 8 // StructStartIndex for structs
	EPIOutType       = 10
	EPIMapNameOffset = 12 // NumOfStructMembers at 10, padding at 12 for structs
	EPICount         = 16 // countPropertyIndex with PropertyParamCount
	EPILength        = 18 // lengthPropertyIndex with PropertyParamLength
	EPIReserved      = 20
)

// PropertyArrayOffset is the start of EventPropertyInfoArray: the fixed header
// rounded up to the next 8-byte boundary.
func PropertyArrayOffset() int {
	return AlignUp(TraceEventInfoHeaderSize, PropertyArrayAlignment)
}

// AlignUp rounds n up to a multiple of align, a power of two.
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// DecodingSource of a TRACE_EVENT_INFO.
type DecodingSource uint32

// Decoding sources
const (
	DecodingSourceXMLFile DecodingSource = iota
	DecodingSourceWbem
	DecodingSourceWPP
	DecodingSourceTlg
	DecodingSourceMax
)

// EventDescriptor mirrors EVENT_DESCRIPTOR.
type EventDescriptor struct {
	ID      uint16
	Version uint8
	Channel uint8
	Level   uint8
	Opcode  uint8
	Task    uint16
	Keyword uint64
}

// PropertyFlags mirrors PROPERTY_FLAGS.
type PropertyFlags uint32

// Property flags
const (
	PropertyStruct           PropertyFlags = 0x1
	PropertyParamLength      PropertyFlags = 0x2
	PropertyParamCount       PropertyFlags = 0x4
	PropertyWBEMXmlFragment  PropertyFlags = 0x8
	PropertyParamFixedLength PropertyFlags = 0x10
	PropertyParamFixedCount  PropertyFlags = 0x20
	PropertyHasTags          PropertyFlags = 0x40
	PropertyHasCustomSchema  PropertyFlags = 0x80
)

// Has reports whether all bits of flag are set.
func (f PropertyFlags) Has(flag PropertyFlags) bool { return f&flag == flag }

// InType is a TDH_IN_TYPE code.
type InType uint16

// TDH in-types
const (
	InTypeNull                        InType = 0
	InTypeUnicodeString               InType = 1
	InTypeAnsiString                  InType = 2
	InTypeInt8                        InType = 3
	InTypeUInt8                       InType = 4
	InTypeInt16                       InType = 5
	InTypeUInt16                      InType = 6
	InTypeInt32                       InType = 7
	InTypeUInt32                      InType = 8
	InTypeInt64                       InType = 9
	InTypeUInt64                      InType = 10
	InTypeFloat                       InType = 11
	InTypeDouble                      InType = 12
	InTypeBoolean                     InType = 13
	InTypeBinary                      InType = 14
	InTypeGUID                        InType = 15
	InTypePointer                     InType = 16
	InTypeFileTime                    InType = 17
	InTypeSystemTime                  InType = 18
	InTypeSID                         InType = 19
	InTypeHexInt32                    InType = 20
	InTypeHexInt64                    InType = 21
	InTypeManifestCountedString       InType = 22
	InTypeManifestCountedAnsiString   InType = 23
	InTypeReserved24                  InType = 24
	InTypeManifestCountedBinary       InType = 25
	InTypeCountedString               InType = 300
	InTypeCountedAnsiString           InType = 301
	InTypeReversedCountedString       InType = 302
	InTypeReversedCountedAnsiString   InType = 303
	InTypeNonNullTerminatedString     InType = 304
	InTypeNonNullTerminatedAnsiString InType = 305
	InTypeUnicodeChar                 InType = 306
	InTypeAnsiChar                    InType = 307
	InTypeSizeT                       InType = 308
	InTypeHexDump                     InType = 309
	InTypeWbemSID                     InType = 310
)

// OutType is a TDH_OUT_TYPE code. Only the codes that change how a value is
// read are listed.
type OutType uint16

// TDH out-types
const (
	OutTypeNull   OutType = 0
	OutTypeString OutType = 1
	OutTypeIPv6   OutType = 24
)
