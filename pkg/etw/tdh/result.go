// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package tdh

import (
	"errors"
	"fmt"
	"syscall"
)

// Status is the tagged outcome of a native metadata call.
type Status uint8

const (
	// StatusOK means the call succeeded. On a size query, Result.Size holds
	// the required buffer size.
	StatusOK Status = iota
	// StatusInsufficientBuffer is the expected answer to a size query. Reader
	// folds it into StatusOK; it only surfaces from the raw classification.
	StatusInsufficientBuffer
	// StatusNotFound means the provider or event has no registered metadata.
	StatusNotFound
	// StatusInvalidArgument is a caller-side defect and is always fatal.
	StatusInvalidArgument
	// StatusFailed is any other native failure; Result.Code holds the code.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInsufficientBuffer:
		return "insufficient buffer"
	case StatusNotFound:
		return "not found"
	case StatusInvalidArgument:
		return "invalid argument"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Result of a native metadata call.
type Result struct {
	Status Status
	// Size is the byte size required (size query) or written (fetch).
	Size uint32
	// Code is the native error code, 0 on success.
	Code syscall.Errno
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Status == StatusOK }

// Err returns nil for successful results and a *StatusError otherwise.
func (r Result) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	return &StatusError{Status: r.Status, Code: r.Code}
}

// StatusError is the error form of a failed Result.
type StatusError struct {
	Status Status
	Code   syscall.Errno
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Code == 0 {
		return e.Status.String()
	}
	return fmt.Sprintf("%s (code %d)", e.Status, uint32(e.Code))
}

// Unwrap exposes the native code to errors.Is.
func (e *StatusError) Unwrap() error {
	if e.Code == 0 {
		return nil
	}
	return e.Code
}

// Classify maps the error returned by an API call to a Result.
func Classify(err error, size uint32) Result {
	if err == nil {
		return Result{Status: StatusOK, Size: size}
	}
	var code syscall.Errno
	if !errors.As(err, &code) {
		return Result{Status: StatusFailed, Size: size}
	}
	switch code {
	case 0:
		return Result{Status: StatusOK, Size: size}
	case ErrorInsufficientBuffer:
		return Result{Status: StatusInsufficientBuffer, Size: size, Code: code}
	case ErrorNotFound, ErrorFileNotFound, ErrorResourceTypeNotFound, ErrorMUIFileNotFound:
		return Result{Status: StatusNotFound, Size: size, Code: code}
	case ErrorInvalidParameter:
		return Result{Status: StatusInvalidArgument, Size: size, Code: code}
	case ErrorEmpty:
		// the provider is registered but declares no events
		return Result{Status: StatusOK, Size: 0}
	default:
		return Result{Status: StatusFailed, Size: size, Code: code}
	}
}
