package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/secrets"
	"github.com/kevin07696/hyperpay-gateway/internal/config"
)

// loadConfig reads the dotenv file, the YAML file and the environment,
// resolves secret references and returns the active gateway settings.
func loadConfig(ctx context.Context, opts *globalOptions) (*config.Config, *zap.Logger, config.GatewayConfig, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, config.GatewayConfig{}, fmt.Errorf("load %s: %w", opts.envFile, err)
		}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, config.GatewayConfig{}, err
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return nil, nil, config.GatewayConfig{}, err
	}

	sm, err := secrets.New(ctx, cfg.Secrets, logger)
	if err != nil {
		return nil, nil, config.GatewayConfig{}, err
	}
	if sm != nil {
		if err := cfg.ResolveSecrets(ctx, sm); err != nil {
			return nil, nil, config.GatewayConfig{}, err
		}
	}

	gw, err := cfg.Gateway()
	if err != nil {
		return nil, nil, config.GatewayConfig{}, err
	}
	return cfg, logger, gw, nil
}

// initLogger initializes the logger
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
