// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package manifest

import (
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
)

// boolWidth is the width of a native BOOL, used when a manifest leaves the
// length of a win:Boolean unset.
const boolWidth = 4

// ipv6Width is the width of a binary field formatted as an IPv6 address.
const ipv6Width = 16

// inTypes maps the TDH in-types that have a decode rule. Every other code,
// including the counted and prefixed string forms, decodes as Unknown.
var inTypes = map[tdh.InType]schema.SemanticType{
	tdh.InTypeUnicodeString: schema.UnicodeString,
	tdh.InTypeAnsiString:    schema.AnsiString,
	tdh.InTypeInt8:          schema.Int8,
	tdh.InTypeUInt8:         schema.UInt8,
	tdh.InTypeInt16:         schema.Int16,
	tdh.InTypeUInt16:        schema.UInt16,
	tdh.InTypeInt32:         schema.Int32,
	tdh.InTypeUInt32:        schema.UInt32,
	tdh.InTypeInt64:         schema.Int64,
	tdh.InTypeUInt64:        schema.UInt64,
	tdh.InTypeFloat:         schema.Float32,
	tdh.InTypeDouble:        schema.Float64,
	tdh.InTypeBoolean:       schema.Bool,
	tdh.InTypeBinary:        schema.Binary,
	tdh.InTypeGUID:          schema.Guid,
	tdh.InTypePointer:       schema.HexInt64,
	tdh.InTypeFileTime:      schema.FileTime,
	tdh.InTypeSystemTime:    schema.SystemTime,
	tdh.InTypeSID:           schema.Sid,
	tdh.InTypeHexInt32:      schema.HexInt32,
	tdh.InTypeHexInt64:      schema.HexInt64,
	tdh.InTypeUnicodeChar:   schema.UnicodeString,
	tdh.InTypeAnsiChar:      schema.AnsiString,
	tdh.InTypeSizeT:         schema.HexInt64,
}

// SemanticTypeOf translates a TDH in-type code.
func SemanticTypeOf(in tdh.InType) schema.SemanticType {
	if t, ok := inTypes[in]; ok {
		return t
	}
	return schema.Unknown
}

// isCharType reports whether the element count of in is the string length.
func isCharType(in tdh.InType) bool {
	return in == tdh.InTypeUnicodeChar || in == tdh.InTypeAnsiChar
}

// declaredLength converts the length of a property, in manifest units, to
// the byte length of the field. length is ignored when it is a property index.
func declaredLength(in tdh.InType, out tdh.OutType, prop propertyInfo) uint32 {
	length := uint32(prop.length)
	if prop.flags.Has(tdh.PropertyParamLength) {
		length = 0
	}
	count := uint32(prop.count)
	if count == 0 || prop.flags.Has(tdh.PropertyParamCount) {
		count = 1
	}

	switch in {
	case tdh.InTypeUnicodeString:
		return 2 * length
	case tdh.InTypeUnicodeChar:
		return 2 * count
	case tdh.InTypeAnsiChar:
		return count
	case tdh.InTypeBoolean:
		if length == 0 {
			return boolWidth
		}
		return length
	case tdh.InTypeBinary:
		if length == 0 && out == tdh.OutTypeIPv6 {
			return ipv6Width
		}
		return length
	}
	if _, fixed := SemanticTypeOf(in).FixedWidth(); fixed {
		return 0
	}
	return length
}
