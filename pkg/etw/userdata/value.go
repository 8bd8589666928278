// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package userdata

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/internal/wire"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
)

var errTruncated = errors.New("value runs past the end of the payload")

// lengthSpec is the byte length of a value: declared by the field, or taken
// from another field when dynamic. A zero declared length means the value is
// null-terminated or has a type-defined width.
type lengthSpec struct {
	bytes   uint32
	dynamic bool
}

func (l lengthSpec) explicit() bool { return l.dynamic || l.bytes > 0 }

// value is one decoded scalar.
type value struct {
	text string
	// bits holds integer values, sign-extended for signed types
	bits   uint64
	isInt  bool
	signed bool
}

// key is the canonical form looked up in enum maps: decimal for integers,
// the rendered text otherwise.
func (v value) key() string {
	if !v.isInt {
		return v.text
	}
	if v.signed {
		return strconv.FormatInt(int64(v.bits), 10)
	}
	return strconv.FormatUint(v.bits, 10)
}

func unsigned(u uint64) value {
	return value{text: strconv.FormatUint(u, 10), bits: u, isInt: true}
}

func signed(i int64) value {
	return value{text: strconv.FormatInt(i, 10), bits: uint64(i), isInt: true, signed: true}
}

func hexInt(u uint64) value {
	return value{text: fmt.Sprintf("0x%X", u), bits: u, isInt: true}
}

// readValue reads one value of type t at the cursor. On error the cursor
// position is unspecified; callers rewind it.
func readValue(c *wire.Cursor, t schema.SemanticType, length lengthSpec) (value, error) {
	switch t {
	case schema.Int8:
		b, ok := c.ReadUint8()
		return signed(int64(int8(b))), check(ok)
	case schema.UInt8:
		b, ok := c.ReadUint8()
		return unsigned(uint64(b)), check(ok)
	case schema.Int16:
		u, ok := c.ReadUint16()
		return signed(int64(int16(u))), check(ok)
	case schema.UInt16:
		u, ok := c.ReadUint16()
		return unsigned(uint64(u)), check(ok)
	case schema.Int32:
		u, ok := c.ReadUint32()
		return signed(int64(int32(u))), check(ok)
	case schema.UInt32:
		u, ok := c.ReadUint32()
		return unsigned(uint64(u)), check(ok)
	case schema.Int64:
		u, ok := c.ReadUint64()
		return signed(int64(u)), check(ok)
	case schema.UInt64:
		u, ok := c.ReadUint64()
		return unsigned(u), check(ok)
	case schema.HexInt32:
		u, ok := c.ReadUint32()
		return hexInt(uint64(u)), check(ok)
	case schema.HexInt64:
		u, ok := c.ReadUint64()
		return hexInt(u), check(ok)
	case schema.Float32:
		u, ok := c.ReadUint32()
		return value{text: strconv.FormatFloat(float64(math.Float32frombits(u)), 'g', -1, 32)}, check(ok)
	case schema.Float64:
		u, ok := c.ReadUint64()
		return value{text: strconv.FormatFloat(math.Float64frombits(u), 'g', -1, 64)}, check(ok)
	case schema.Bool:
		return readBool(c, length)
	case schema.UnicodeString:
		return readString(c, length, c.ReadUTF16CString, wire.DecodeUTF16)
	case schema.AnsiString:
		return readString(c, length, c.ReadANSICString, wire.DecodeANSI)
	case schema.Binary:
		b, ok := c.ReadFixed(int(length.bytes))
		return value{text: hex.EncodeToString(b)}, check(ok)
	case schema.Guid:
		b, ok := c.ReadFixed(schema.ProviderIDSize)
		if !ok {
			return value{}, errTruncated
		}
		return value{text: schema.ProviderIDFromBytes(b).String()}, nil
	case schema.FileTime:
		u, ok := c.ReadUint64()
		return value{text: renderFileTime(u)}, check(ok)
	case schema.SystemTime:
		b, ok := c.ReadFixed(16)
		if !ok {
			return value{}, errTruncated
		}
		return value{text: renderSystemTime(b)}, nil
	case schema.Sid:
		return readSID(c, length)
	default:
		return value{}, fmt.Errorf("no decode rule for %s", t)
	}
}

func check(ok bool) error {
	if !ok {
		return errTruncated
	}
	return nil
}

func readBool(c *wire.Cursor, length lengthSpec) (value, error) {
	width := 1
	if length.bytes > 0 {
		width = int(length.bytes)
	}
	b, ok := c.ReadFixed(width)
	if !ok {
		return value{}, errTruncated
	}
	for _, x := range b {
		if x != 0 {
			return value{text: "true"}, nil
		}
	}
	return value{text: "false"}, nil
}

// readString reads a string of the declared length with its trailing NUL
// padding removed, or up to its terminator. An unterminated string takes the
// rest of the payload.
func readString(c *wire.Cursor, length lengthSpec, terminated func() (string, bool), decode func([]byte) string) (value, error) {
	if length.explicit() {
		b, ok := c.ReadFixed(int(length.bytes))
		if !ok {
			return value{}, errTruncated
		}
		return value{text: strings.TrimRight(decode(b), "\x00")}, nil
	}
	if s, ok := terminated(); ok {
		return value{text: s}, nil
	}
	if c.Remaining() == 0 {
		return value{}, errTruncated
	}
	return value{text: strings.TrimRight(decode(c.ReadRest()), "\x00")}, nil
}

// sidHeaderSize is the size of a SID without its sub-authorities.
const sidHeaderSize = 8

// readSID reads a SID of the declared length, or sized by its own header.
func readSID(c *wire.Cursor, length lengthSpec) (value, error) {
	n := int(length.bytes)
	if !length.explicit() {
		header, ok := c.ReadFixed(sidHeaderSize)
		if !ok {
			return value{}, errTruncated
		}
		n = sidHeaderSize + 4*int(header[1])
		c.Seek(c.Pos() - sidHeaderSize)
	}
	b, ok := c.ReadFixed(n)
	if !ok {
		return value{}, errTruncated
	}
	return value{text: renderSID(b)}, nil
}

// renderSID renders S-R-I-S-S..., or hex digits when b is not a well-formed SID.
func renderSID(b []byte) string {
	if len(b) < sidHeaderSize || b[0] != 1 || len(b) != sidHeaderSize+4*int(b[1]) {
		return hex.EncodeToString(b)
	}
	var authority uint64
	for _, x := range b[2:8] {
		authority = authority<<8 | uint64(x)
	}
	var sb strings.Builder
	sb.WriteString("S-1-")
	sb.WriteString(strconv.FormatUint(authority, 10))
	for i := sidHeaderSize; i < len(b); i += 4 {
		sb.WriteByte('-')
		sb.WriteString(strconv.FormatUint(uint64(binary.LittleEndian.Uint32(b[i:])), 10))
	}
	return sb.String()
}

// FILETIME counts 100ns intervals since 1601-01-01 UTC.
const (
	fileTimeTicksPerSecond = 10_000_000
	fileTimeToUnixSeconds  = 11_644_473_600
)

func renderFileTime(ft uint64) string {
	secs := int64(ft/fileTimeTicksPerSecond) - fileTimeToUnixSeconds
	nsec := int64(ft%fileTimeTicksPerSecond) * 100
	return time.Unix(secs, nsec).UTC().Format(time.RFC3339Nano)
}

// renderSystemTime renders a SYSTEMTIME: year, month, day of week, day, hour,
// minute, second and milliseconds as little-endian uint16.
func renderSystemTime(b []byte) string {
	f := func(i int) int { return int(binary.LittleEndian.Uint16(b[2*i:])) }
	t := time.Date(f(0), time.Month(f(1)), f(3), f(4), f(5), f(6), f(7)*int(time.Millisecond), time.UTC)
	return t.Format(time.RFC3339Nano)
}
