// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

//go:build windows

// Package wintdh binds the tdh.API interface to tdh.dll.
package wintdh

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
)

var (
	// Trace Data Helper
	// https://learn.microsoft.com/en-us/windows/win32/etw/retrieving-event-data-using-tdh
	tdhDLL                             = windows.NewLazySystemDLL("tdh.dll")
	tdhEnumerateManifestProviderEvents = tdhDLL.NewProc("TdhEnumerateManifestProviderEvents")
	tdhGetManifestEventInformation     = tdhDLL.NewProc("TdhGetManifestEventInformation")
)

// API implements tdh.API with tdh.dll
type API struct{}

// New returns a new TDH API
func New() *API {
	var api API
	return &api
}

// TdhEnumerateManifestProviderEvents wrapper.
// https://learn.microsoft.com/en-us/windows/win32/api/tdh/nf-tdh-tdhenumeratemanifestproviderevents
func (api *API) TdhEnumerateManifestProviderEvents(provider *schema.ProviderID, buffer []byte, bufferSize *uint32) error {
	if err := tdhEnumerateManifestProviderEvents.Find(); err != nil {
		return err
	}
	guid := windows.GUID(*provider)
	r1, _, _ := tdhEnumerateManifestProviderEvents.Call(
		uintptr(unsafe.Pointer(&guid)),
		bufferPtr(buffer),
		uintptr(unsafe.Pointer(bufferSize)))
	// TDH returns the status, it does not set the last error
	return status(r1)
}

// TdhGetManifestEventInformation wrapper.
// https://learn.microsoft.com/en-us/windows/win32/api/tdh/nf-tdh-tdhgetmanifesteventinformation
func (api *API) TdhGetManifestEventInformation(provider *schema.ProviderID, descriptor *tdh.EventDescriptor, buffer []byte, bufferSize *uint32) error {
	if err := tdhGetManifestEventInformation.Find(); err != nil {
		return err
	}
	guid := windows.GUID(*provider)
	r1, _, _ := tdhGetManifestEventInformation.Call(
		uintptr(unsafe.Pointer(&guid)),
		uintptr(unsafe.Pointer(descriptor)),
		bufferPtr(buffer),
		uintptr(unsafe.Pointer(bufferSize)))
	return status(r1)
}

// TdhGetManifestEventMap is not bound. TdhGetEventMapInformation needs an
// EVENT_RECORD, which a manifest-only lookup does not have.
func (api *API) TdhGetManifestEventMap(*schema.ProviderID, *tdh.EventDescriptor, string) (map[string]string, error) {
	return nil, tdh.ErrorNotSupported
}

func bufferPtr(buffer []byte) uintptr {
	if len(buffer) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buffer[0]))
}

func status(r1 uintptr) error {
	if r1 == 0 {
		return nil
	}
	return syscall.Errno(r1)
}
