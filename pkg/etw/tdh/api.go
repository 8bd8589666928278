// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package tdh is the binding layer to the Trace Data Helper metadata service.
//
// API mirrors the native calls one to one; Reader implements the two-phase
// buffer sizing protocol on top of it and reports every native status as a
// tagged Result.
package tdh

import (
	"fmt"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
)

// API exposes the TDH functions used to read provider manifests.
// https://learn.microsoft.com/en-us/windows/win32/api/tdh/
//
// The buffer functions follow the native convention: they write the required
// size to bufferSize and return ERROR_INSUFFICIENT_BUFFER when buffer is too
// small (including when it is empty). Errors are syscall.Errno values.
type API interface {
	// TdhEnumerateManifestProviderEvents fills buffer with a PROVIDER_EVENT_INFO.
	TdhEnumerateManifestProviderEvents(provider *schema.ProviderID, buffer []byte, bufferSize *uint32) error
	// TdhGetManifestEventInformation fills buffer with a TRACE_EVENT_INFO.
	TdhGetManifestEventInformation(provider *schema.ProviderID, descriptor *EventDescriptor, buffer []byte, bufferSize *uint32) error
	// TdhGetManifestEventMap returns the value map named mapName for an event.
	TdhGetManifestEventMap(provider *schema.ProviderID, descriptor *EventDescriptor, mapName string) (map[string]string, error)
}

// Kind selects the native call of a Request.
type Kind uint8

const (
	// KindEnumerateEvents lists the event descriptors of a provider.
	KindEnumerateEvents Kind = iota
	// KindDescribeEvent describes the fields of one event.
	KindDescribeEvent
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindEnumerateEvents:
		return "enumerate provider events"
	case KindDescribeEvent:
		return "describe event"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Request identifies one metadata query.
type Request struct {
	Kind       Kind
	Provider   schema.ProviderID
	Descriptor EventDescriptor
}

// EnumerateEvents returns the request listing the events of provider.
func EnumerateEvents(provider schema.ProviderID) Request {
	return Request{Kind: KindEnumerateEvents, Provider: provider}
}

// DescribeEvent returns the request describing one event of provider.
func DescribeEvent(provider schema.ProviderID, descriptor EventDescriptor) Request {
	return Request{Kind: KindDescribeEvent, Provider: provider, Descriptor: descriptor}
}

// String implements fmt.Stringer.
func (r Request) String() string {
	if r.Kind == KindDescribeEvent {
		return fmt.Sprintf("%s %s id=%d version=%d", r.Kind, r.Provider, r.Descriptor.ID, r.Descriptor.Version)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Provider)
}
