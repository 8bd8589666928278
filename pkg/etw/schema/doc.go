// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package schema holds the passive data model shared by the manifest resolver
// and the UserData decoder.
//
// A ProviderSchema is built once per capture session and is read-only after
// Build returns, so it can be shared by any number of decoding goroutines
// without synchronization.
package schema
