// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package static

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
)

// Manifest describes the registered metadata of one provider.
type Manifest struct {
	Provider schema.ProviderID            `yaml:"provider"`
	Name     string                       `yaml:"name,omitempty"`
	Events   []Event                      `yaml:"events"`
	EnumMaps map[string]map[string]string `yaml:"enum_maps,omitempty"`
}

// Event describes one event of a manifest.
type Event struct {
	ID      uint16  `yaml:"id"`
	Version uint8   `yaml:"version,omitempty"`
	Name    string  `yaml:"name,omitempty"`
	Channel uint8   `yaml:"channel,omitempty"`
	Level   uint8   `yaml:"level,omitempty"`
	Opcode  uint8   `yaml:"opcode,omitempty"`
	Task    uint16  `yaml:"task,omitempty"`
	Keyword uint64  `yaml:"keyword,omitempty"`
	Fields  []Field `yaml:"fields,omitempty"`
}

// Field describes one property of an event template, the way a manifest
// <data> or <struct> element does.
type Field struct {
	Name string `yaml:"name"`
	// Type is a manifest in-type such as "win:UInt32", or a numeric TDH code.
	// Ignored when Members is set.
	Type string `yaml:"type,omitempty"`
	// OutType is "win:IPv6", "xs:string" or a numeric TDH code.
	OutType string `yaml:"out_type,omitempty"`
	// Length in manifest units: characters for strings, bytes otherwise.
	Length uint16 `yaml:"length,omitempty"`
	// Count of a fixed-size array.
	Count uint16 `yaml:"count,omitempty"`
	// CountField and LengthField name the field holding the count or length.
	CountField  string `yaml:"count_field,omitempty"`
	LengthField string `yaml:"length_field,omitempty"`
	// Map names an entry of Manifest.EnumMaps.
	Map     string  `yaml:"map,omitempty"`
	Members []Field `yaml:"members,omitempty"`
}

// Descriptor returns the EVENT_DESCRIPTOR of e.
func (e Event) Descriptor() tdh.EventDescriptor {
	return tdh.EventDescriptor{
		ID:      e.ID,
		Version: e.Version,
		Channel: e.Channel,
		Level:   e.Level,
		Opcode:  e.Opcode,
		Task:    e.Task,
		Keyword: e.Keyword,
	}
}

var inTypeNames = map[string]tdh.InType{
	"null":              tdh.InTypeNull,
	"unicodestring":     tdh.InTypeUnicodeString,
	"ansistring":        tdh.InTypeAnsiString,
	"int8":              tdh.InTypeInt8,
	"uint8":             tdh.InTypeUInt8,
	"int16":             tdh.InTypeInt16,
	"uint16":            tdh.InTypeUInt16,
	"int32":             tdh.InTypeInt32,
	"uint32":            tdh.InTypeUInt32,
	"int64":             tdh.InTypeInt64,
	"uint64":            tdh.InTypeUInt64,
	"float":             tdh.InTypeFloat,
	"double":            tdh.InTypeDouble,
	"boolean":           tdh.InTypeBoolean,
	"binary":            tdh.InTypeBinary,
	"guid":              tdh.InTypeGUID,
	"pointer":           tdh.InTypePointer,
	"filetime":          tdh.InTypeFileTime,
	"systemtime":        tdh.InTypeSystemTime,
	"sid":               tdh.InTypeSID,
	"hexint32":          tdh.InTypeHexInt32,
	"hexint64":          tdh.InTypeHexInt64,
	"countedstring":     tdh.InTypeManifestCountedString,
	"countedansistring": tdh.InTypeManifestCountedAnsiString,
	"countedbinary":     tdh.InTypeManifestCountedBinary,
	"unicodechar":       tdh.InTypeUnicodeChar,
	"ansichar":          tdh.InTypeAnsiChar,
	"sizet":             tdh.InTypeSizeT,
	"hexdump":           tdh.InTypeHexDump,
	"wbemsid":           tdh.InTypeWbemSID,
}

var outTypeNames = map[string]tdh.OutType{
	"":       tdh.OutTypeNull,
	"string": tdh.OutTypeString,
	"ipv6":   tdh.OutTypeIPv6,
}

func typeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// ParseInType resolves a manifest in-type name or numeric code.
func ParseInType(s string) (tdh.InType, error) {
	if t, ok := inTypeNames[typeName(s)]; ok {
		return t, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown in-type %q", s)
	}
	return tdh.InType(n), nil
}

// ParseOutType resolves a manifest out-type name or numeric code.
func ParseOutType(s string) (tdh.OutType, error) {
	if t, ok := outTypeNames[typeName(s)]; ok {
		return t, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown out-type %q", s)
	}
	return tdh.OutType(n), nil
}

// Load reads manifests from a YAML stream, one per document.
func Load(r io.Reader) ([]*Manifest, error) {
	var manifests []*Manifest
	dec := yaml.NewDecoder(r)
	for {
		var m Manifest
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding manifest %d: %w", len(manifests), err)
		}
		if m.Provider.IsZero() {
			return nil, fmt.Errorf("manifest %d: missing provider", len(manifests))
		}
		manifests = append(manifests, &m)
	}
	return manifests, nil
}

// LoadFile reads manifests from a YAML file.
func LoadFile(path string) ([]*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
