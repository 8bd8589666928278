// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

// Package config holds the configuration of the decoder: defaults, environment
// variables prefixed with DD_ETW and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/DataDog/viper"
)

// Configuration keys
const (
	LogLevel            = "log_level"
	SchemaCacheEnabled  = "schema_cache.enabled"
	SchemaCacheTTL      = "schema_cache.ttl"
	EnumMapCacheSize    = "enum_map_cache.size"
	TDHMaxFetchAttempts = "tdh.max_fetch_attempts"
)

// EnvPrefix is the prefix of the environment variables overriding settings,
// e.g. DD_ETW_SCHEMA_CACHE_TTL.
const EnvPrefix = "DD_ETW"

// Reader is the read-only view of a configuration.
type Reader interface {
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetDuration(key string) time.Duration
	IsSet(key string) bool
}

// Config is a configuration that can be loaded and modified.
type Config interface {
	Reader
	Set(key string, value interface{})
	SetDefault(key string, value interface{})
	BindEnvAndSetDefault(key string, value interface{})
	SetConfigFile(path string)
	ReadInConfig() error
}

// NewConfig returns a Config with every default set and environment
// overrides bound.
func NewConfig() Config {
	cfg := newSafeConfig("etw", EnvPrefix, strings.NewReplacer(".", "_"))
	InitConfig(cfg)
	return cfg
}

// InitConfig declares every key with its default.
func InitConfig(cfg Config) {
	cfg.BindEnvAndSetDefault(LogLevel, "info")
	cfg.BindEnvAndSetDefault(SchemaCacheEnabled, true)
	cfg.BindEnvAndSetDefault(SchemaCacheTTL, 10*time.Minute)
	cfg.BindEnvAndSetDefault(EnumMapCacheSize, 256)
	cfg.BindEnvAndSetDefault(TDHMaxFetchAttempts, 3)
}

// Load reads path into cfg. An empty path keeps defaults and environment.
func Load(cfg Config, path string) error {
	if path == "" {
		return nil
	}
	cfg.SetConfigFile(path)
	err := cfg.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config file %s not found: %w", path, err)
	}
	return fmt.Errorf("unable to load config file %s: %w", path, err)
}

// Validate reports settings that cannot be used.
func Validate(cfg Reader) error {
	if cfg.GetDuration(SchemaCacheTTL) < 0 {
		return fmt.Errorf("%s must not be negative", SchemaCacheTTL)
	}
	if cfg.GetInt(EnumMapCacheSize) <= 0 {
		return fmt.Errorf("%s must be positive", EnumMapCacheSize)
	}
	if cfg.GetInt(TDHMaxFetchAttempts) <= 0 {
		return fmt.Errorf("%s must be positive", TDHMaxFetchAttempts)
	}
	return nil
}
