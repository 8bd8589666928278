// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package wire provides a bounds-checked little-endian cursor over native
// buffers. No read ever goes past the end of the slice; a failed read leaves
// the cursor where it was.
package wire

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Cursor is a forward reader over an immutable byte slice.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the size of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(pos int) bool {
	if pos < 0 || pos > len(c.buf) {
		return false
	}
	c.pos = pos
	return true
}

// Skip advances by n bytes.
func (c *Cursor) Skip(n int) bool {
	if n < 0 || n > c.Remaining() {
		return false
	}
	c.pos += n
	return true
}

// ReadFixed returns the next n bytes without copying.
func (c *Cursor) ReadFixed(n int) ([]byte, bool) {
	if n < 0 || n > c.Remaining() {
		return nil, false
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, true
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, bool) {
	b, ok := c.ReadFixed(n)
	if !ok {
		return nil, false
	}
	return bytes.Clone(b), true
}

// ReadRest returns the unread bytes and moves to the end.
func (c *Cursor) ReadRest() []byte {
	b, _ := c.ReadFixed(c.Remaining())
	return b
}

// ReadUint8 reads one byte.
func (c *Cursor) ReadUint8() (uint8, bool) {
	b, ok := c.ReadFixed(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

// ReadUint16 reads a little-endian uint16.
func (c *Cursor) ReadUint16() (uint16, bool) {
	b, ok := c.ReadFixed(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

// ReadUint32 reads a little-endian uint32.
func (c *Cursor) ReadUint32() (uint32, bool) {
	b, ok := c.ReadFixed(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// ReadUint64 reads a little-endian uint64.
func (c *Cursor) ReadUint64() (uint64, bool) {
	b, ok := c.ReadFixed(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

// ReadUTF16CString reads UTF-16LE code units up to a two-zero-byte terminator
// at an even offset from the current position, and advances past it.
func (c *Cursor) ReadUTF16CString() (string, bool) {
	end, ok := utf16Terminator(c.buf[c.pos:])
	if !ok {
		return "", false
	}
	s := DecodeUTF16(c.buf[c.pos : c.pos+end])
	c.pos += end + 2
	return s, true
}

// ReadANSICString reads bytes up to a single zero byte and advances past it.
// The result is decoded as Windows-1252.
func (c *Cursor) ReadANSICString() (string, bool) {
	end := bytes.IndexByte(c.buf[c.pos:], 0)
	if end < 0 {
		return "", false
	}
	s := DecodeANSI(c.buf[c.pos : c.pos+end])
	c.pos += end + 1
	return s, true
}

// UTF16CStringAt reads a null-terminated UTF-16LE string starting at an
// absolute offset, without moving the cursor.
func (c *Cursor) UTF16CStringAt(off int) (string, bool) {
	if off < 0 || off > len(c.buf) {
		return "", false
	}
	end, ok := utf16Terminator(c.buf[off:])
	if !ok {
		return "", false
	}
	return DecodeUTF16(c.buf[off : off+end]), true
}

func utf16Terminator(b []byte) (int, bool) {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i, true
		}
	}
	return 0, false
}

// DecodeUTF16 decodes UTF-16LE bytes. A trailing odd byte is ignored.
func DecodeUTF16(b []byte) string {
	b = b[:len(b)&^1]
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// DecodeANSI decodes Windows-1252 bytes.
func DecodeANSI(b []byte) string {
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
