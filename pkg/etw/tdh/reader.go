// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package tdh

import (
	"fmt"
)

// DefaultMaxAttempts is the number of query/fetch rounds Read makes when the
// required size keeps growing between the two calls.
const DefaultMaxAttempts = 3

// Reader runs the two-phase sizing protocol against an API.
type Reader struct {
	api         API
	maxAttempts int
}

// NewReader returns a Reader over api. maxAttempts <= 0 selects DefaultMaxAttempts.
func NewReader(api API, maxAttempts int) *Reader {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Reader{api: api, maxAttempts: maxAttempts}
}

// API returns the underlying binding.
func (r *Reader) API() API { return r.api }

// QuerySize calls req with a zero-length buffer. The insufficient buffer
// answer is the expected one and is reported as StatusOK with the required size.
func (r *Reader) QuerySize(req Request) Result {
	var size uint32
	err := r.call(req, nil, &size)
	res := Classify(err, size)
	if res.Status == StatusInsufficientBuffer {
		return Result{Status: StatusOK, Size: size}
	}
	return res
}

// Fetch calls req with a buffer of exactly size bytes. When the data grew
// since the query the result is StatusInsufficientBuffer with the new size.
func (r *Reader) Fetch(req Request, size uint32) ([]byte, Result) {
	buf := make([]byte, size)
	n := size
	err := r.call(req, buf, &n)
	res := Classify(err, n)
	if !res.OK() {
		return nil, res
	}
	if res.Size > 0 && res.Size < size {
		buf = buf[:res.Size]
	}
	res.Size = uint32(len(buf))
	return buf, res
}

// Read queries the size then fetches req. A provider or event without data
// yields an empty buffer with StatusOK.
func (r *Reader) Read(req Request) ([]byte, Result) {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		sized := r.QuerySize(req)
		if !sized.OK() || sized.Size == 0 {
			return nil, sized
		}
		buf, res := r.Fetch(req, sized.Size)
		if res.Status != StatusInsufficientBuffer {
			return buf, res
		}
	}
	return nil, Result{Status: StatusFailed, Code: ErrorInsufficientBuffer}
}

func (r *Reader) call(req Request, buf []byte, size *uint32) error {
	provider := req.Provider
	switch req.Kind {
	case KindEnumerateEvents:
		return r.api.TdhEnumerateManifestProviderEvents(&provider, buf, size)
	case KindDescribeEvent:
		descriptor := req.Descriptor
		return r.api.TdhGetManifestEventInformation(&provider, &descriptor, buf, size)
	default:
		return fmt.Errorf("unknown request kind %s: %w", req.Kind, ErrorInvalidParameter)
	}
}
