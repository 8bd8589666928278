// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package schema

import (
	"fmt"
	"strings"
)

// SemanticType is the decode rule of a field, independent of the native type code
// it was translated from.
type SemanticType uint8

// Semantic types. The set is closed: native codes without a rule map to Unknown.
const (
	Unknown SemanticType = iota
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
	Bool
	HexInt32
	HexInt64
	UnicodeString
	AnsiString
	Binary
	Guid //nolint:revive
	FileTime
	SystemTime
	Sid

	semanticTypeCount
)

// UnknownSkipWidth is how far the decoder advances over an Unknown field that
// carries no declared length.
const UnknownSkipWidth = 4

// widthKind tells the decoder where the byte width of a value comes from.
type widthKind uint8

const (
	widthFixed    widthKind = iota // width column of the rule
	widthDeclared                  // declared length of the field
	widthString                    // declared length, or terminator scan when 0
	widthSkip                      // declared length or UnknownSkipWidth, no value
)

type decodeRule struct {
	name  string
	kind  widthKind
	width int
}

var decodeRules = [semanticTypeCount]decodeRule{
	Unknown:       {"Unknown", widthSkip, 0},
	Int8:          {"Int8", widthFixed, 1},
	UInt8:         {"UInt8", widthFixed, 1},
	Int16:         {"Int16", widthFixed, 2},
	UInt16:        {"UInt16", widthFixed, 2},
	Int32:         {"Int32", widthFixed, 4},
	UInt32:        {"UInt32", widthFixed, 4},
	Int64:         {"Int64", widthFixed, 8},
	UInt64:        {"UInt64", widthFixed, 8},
	Float32:       {"Float32", widthFixed, 4},
	Float64:       {"Float64", widthFixed, 8},
	Bool:          {"Bool", widthFixed, 1},
	HexInt32:      {"HexInt32", widthFixed, 4},
	HexInt64:      {"HexInt64", widthFixed, 8},
	UnicodeString: {"UnicodeString", widthString, 0},
	AnsiString:    {"AnsiString", widthString, 0},
	Binary:        {"Binary", widthDeclared, 0},
	Guid:          {"Guid", widthFixed, 16},
	FileTime:      {"FileTime", widthFixed, 8},
	SystemTime:    {"SystemTime", widthFixed, 16},
	Sid:           {"Sid", widthDeclared, 0},
}

func (t SemanticType) rule() decodeRule {
	if t >= semanticTypeCount {
		return decodeRules[Unknown]
	}
	return decodeRules[t]
}

// String implements fmt.Stringer.
func (t SemanticType) String() string {
	if t >= semanticTypeCount {
		return fmt.Sprintf("SemanticType(%d)", uint8(t))
	}
	return decodeRules[t].name
}

// FixedWidth returns the wire width of scalar types whose width does not depend
// on the field declaration.
func (t SemanticType) FixedWidth() (int, bool) {
	r := t.rule()
	if r.kind != widthFixed {
		return 0, false
	}
	return r.width, true
}

// IsString reports whether values are strings with the declared-length or
// null-terminated contract.
func (t SemanticType) IsString() bool {
	return t.rule().kind == widthString
}

// IsDeclaredWidth reports whether the value width is the field's declared length.
func (t SemanticType) IsDeclaredWidth() bool {
	return t.rule().kind == widthDeclared
}

// IsInteger reports whether values can serve as the count or length of
// another field.
func (t SemanticType) IsInteger() bool {
	switch t {
	case Int8, UInt8, Int16, UInt16, Int32, UInt32, Int64, UInt64, HexInt32, HexInt64:
		return true
	}
	return false
}

// ParseSemanticType is the inverse of String, case insensitive.
func ParseSemanticType(s string) (SemanticType, error) {
	for t := Unknown; t < semanticTypeCount; t++ {
		if strings.EqualFold(decodeRules[t].name, s) {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown semantic type %q", s)
}

// ParseStatus records whether a field descriptor was read cleanly from the manifest.
type ParseStatus uint8

// Parse statuses
const (
	StatusUnknown ParseStatus = iota
	StatusValid
	StatusInvalid
)

// String implements fmt.Stringer.
func (s ParseStatus) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
