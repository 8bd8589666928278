// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package schema

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ProviderIDSize is the size of a provider id in its native (GUID) encoding.
const ProviderIDSize = 16

// ProviderID identifies an event provider.
//
// The field layout matches the native GUID so that it can be converted to
// windows.GUID without copying.
type ProviderID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// ParseProviderID parses a provider id in registry format, with or without braces.
func ParseProviderID(s string) (ProviderID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ProviderID{}, fmt.Errorf("invalid provider id %q: %w", s, err)
	}
	id := ProviderID{
		Data1: binary.BigEndian.Uint32(u[0:4]),
		Data2: binary.BigEndian.Uint16(u[4:6]),
		Data3: binary.BigEndian.Uint16(u[6:8]),
	}
	copy(id.Data4[:], u[8:16])
	return id, nil
}

// MustParseProviderID is like ParseProviderID but panics on malformed input.
// Meant for package level provider declarations.
func MustParseProviderID(s string) ProviderID {
	id, err := ParseProviderID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ProviderIDFromBytes reads a provider id from its native little-endian
// encoding. b must hold at least ProviderIDSize bytes.
func ProviderIDFromBytes(b []byte) ProviderID {
	id := ProviderID{
		Data1: binary.LittleEndian.Uint32(b[0:4]),
		Data2: binary.LittleEndian.Uint16(b[4:6]),
		Data3: binary.LittleEndian.Uint16(b[6:8]),
	}
	copy(id.Data4[:], b[8:16])
	return id
}

// AppendBytes appends the native little-endian encoding of the id to b.
func (p ProviderID) AppendBytes(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, p.Data1)
	b = binary.LittleEndian.AppendUint16(b, p.Data2)
	b = binary.LittleEndian.AppendUint16(b, p.Data3)
	return append(b, p.Data4[:]...)
}

// IsZero reports whether p is the null GUID.
func (p ProviderID) IsZero() bool {
	return p == ProviderID{}
}

// String returns the registry format, e.g. {22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}.
func (p ProviderID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		p.Data1, p.Data2, p.Data3,
		p.Data4[0], p.Data4[1],
		p.Data4[2], p.Data4[3], p.Data4[4], p.Data4[5], p.Data4[6], p.Data4[7])
}

// MarshalText implements encoding.TextMarshaler.
func (p ProviderID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ProviderID) UnmarshalText(text []byte) error {
	id, err := ParseProviderID(string(text))
	if err != nil {
		return err
	}
	*p = id
	return nil
}

// EventID identifies one event kind within a provider. Id 0 is reserved and
// never part of a resolved schema.
type EventID uint16
