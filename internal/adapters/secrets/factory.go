// Package secrets provides SecretManagerAdapter backends used to resolve
// the HyperPay API token and webhook key at startup.
package secrets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/ports"
	"github.com/kevin07696/hyperpay-gateway/internal/config"
)

// Backend names accepted in configuration.
const (
	BackendAWS   = "aws"
	BackendVault = "vault"
	BackendLocal = "local"
)

// New builds the configured backend. An empty backend returns nil and no
// error; credentials are then taken from configuration as-is.
func New(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case BackendAWS:
		return NewAWSSecretsManager(ctx, AWSConfig{
			Region:   cfg.AWSRegion,
			Endpoint: cfg.AWSEndpoint,
			CacheTTL: ttl,
		}, logger)
	case BackendVault:
		return NewVaultAdapter(VaultConfig{
			Address:   cfg.VaultAddress,
			Token:     cfg.VaultToken,
			Namespace: cfg.VaultNamespace,
			MountPath: cfg.VaultMountPath,
			CacheTTL:  ttl,
		}, logger)
	case BackendLocal:
		logger.Warn("Using local filesystem secrets; do not use in production",
			zap.String("base_path", cfg.LocalBasePath))
		return NewLocalSecretManager(cfg.LocalBasePath, logger), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Backend)
	}
}
