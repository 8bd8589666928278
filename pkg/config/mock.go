// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package config

import "testing"

// MockConfig should only be used in tests
type MockConfig struct {
	Config
}

// Mock returns a Config holding the defaults, with overrides applied.
func Mock(t testing.TB, overrides map[string]interface{}) *MockConfig {
	t.Helper()
	cfg := NewConfig()
	for k, v := range overrides {
		cfg.Set(k, v)
	}
	return &MockConfig{Config: cfg}
}
