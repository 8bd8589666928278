// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package config

import (
	"strings"
	"sync"
	"time"

	"github.com/DataDog/viper"
)

// safeConfig implements Config with a Viper instance, for concurrent access
type safeConfig struct {
	*viper.Viper
	sync.RWMutex
}

func newSafeConfig(name, envPrefix string, envKeyReplacer *strings.Replacer) *safeConfig {
	cfg := &safeConfig{Viper: viper.New()}
	cfg.Viper.SetConfigName(name)
	cfg.Viper.SetConfigType("yaml")
	cfg.Viper.SetEnvPrefix(envPrefix)
	cfg.Viper.SetEnvKeyReplacer(envKeyReplacer)
	cfg.Viper.SetTypeByDefaultValue(true)
	return cfg
}

// Set wraps Viper for concurrent access
func (c *safeConfig) Set(key string, value interface{}) {
	c.Lock()
	defer c.Unlock()
	c.Viper.Set(key, value)
}

// SetDefault wraps Viper for concurrent access
func (c *safeConfig) SetDefault(key string, value interface{}) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetDefault(key, value)
}

// BindEnvAndSetDefault sets the default value of key and binds it to the
// environment variable derived from its name
func (c *safeConfig) BindEnvAndSetDefault(key string, value interface{}) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetDefault(key, value)
	_ = c.Viper.BindEnv(key)
}

// SetConfigFile wraps Viper for concurrent access
func (c *safeConfig) SetConfigFile(path string) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetConfigFile(path)
}

// ReadInConfig wraps Viper for concurrent access
func (c *safeConfig) ReadInConfig() error {
	c.Lock()
	defer c.Unlock()
	return c.Viper.ReadInConfig()
}

// IsSet wraps Viper for concurrent access
func (c *safeConfig) IsSet(key string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.IsSet(key)
}

// GetString wraps Viper for concurrent access
func (c *safeConfig) GetString(key string) string {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetString(key)
}

// GetBool wraps Viper for concurrent access
func (c *safeConfig) GetBool(key string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetBool(key)
}

// GetInt wraps Viper for concurrent access
func (c *safeConfig) GetInt(key string) int {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetInt(key)
}

// GetDuration wraps Viper for concurrent access
func (c *safeConfig) GetDuration(key string) time.Duration {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetDuration(key)
}
