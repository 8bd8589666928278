// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package command

import (
	"os"

	"go.uber.org/fx"

	etwschemafx "github.com/DataDog/etw-manifest-decoder/comp/etwschema/fx"
	"github.com/DataDog/etw-manifest-decoder/pkg/config"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh"
	"github.com/DataDog/etw-manifest-decoder/pkg/etw/tdh/static"
	"github.com/DataDog/etw-manifest-decoder/pkg/util/log"
)

// Bundle returns the options shared by every subcommand: configuration,
// logging and the etwschema component.
func Bundle(globalParams *GlobalParams) fx.Option {
	opts := []fx.Option{
		fx.Supply(globalParams),
		fx.Provide(newConfig),
		etwschemafx.Module(),
	}
	if globalParams.ManifestPath != "" {
		opts = append(opts, fx.Provide(newManifestAPI))
	}
	return fx.Options(opts...)
}

func newConfig(globalParams *GlobalParams) (config.Reader, error) {
	cfg := config.NewConfig()
	if err := config.Load(cfg, globalParams.ConfFilePath); err != nil {
		return nil, err
	}
	if globalParams.LogLevel != "" {
		cfg.Set(config.LogLevel, globalParams.LogLevel)
	}
	if err := log.SetupLogger(LoggerName, cfg.GetString(config.LogLevel), os.Stderr); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newManifestAPI(globalParams *GlobalParams) (tdh.API, error) {
	api, err := static.NewFromFile(globalParams.ManifestPath)
	if err != nil {
		return nil, err
	}
	log.Debugf("Resolving providers from %s", globalParams.ManifestPath)
	return api, nil
}
