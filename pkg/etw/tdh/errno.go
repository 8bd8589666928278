// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package tdh

import "syscall"

// Win32 error codes returned by the TDH functions. Declared here rather than
// taken from x/sys/windows so that the protocol handling builds everywhere.
const (
	ErrorFileNotFound         syscall.Errno = 2
	ErrorNotSupported         syscall.Errno = 50
	ErrorInvalidParameter     syscall.Errno = 87
	ErrorInsufficientBuffer   syscall.Errno = 122
	ErrorNotFound             syscall.Errno = 1168
	ErrorResourceTypeNotFound syscall.Errno = 1813
	ErrorEmpty                syscall.Errno = 4306
	ErrorMUIFileNotFound      syscall.Errno = 15100
)
