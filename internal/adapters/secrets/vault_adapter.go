package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault adapter.
// Only token auth is supported; the token comes from VAULT_TOKEN or config.
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address   string
	Token     string
	Namespace string

	// KV v2 mount path (default: "secret")
	MountPath string

	CacheTTL time.Duration
}

type vaultAdapter struct {
	client    *vault.Client
	mountPath string
	logger    *zap.Logger
	cache     *secretCache
}

// NewVaultAdapter creates a KV v2 backed adapter.
func NewVaultAdapter(cfg VaultConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	vaultConfig := vault.DefaultConfig()
	if cfg.Address != "" {
		vaultConfig.Address = cfg.Address
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("vault token is required")
	}
	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	mount := cfg.MountPath
	if mount == "" {
		mount = "secret"
	}

	logger.Info("Vault adapter initialized",
		zap.String("address", vaultConfig.Address),
		zap.String("mount_path", mount),
	)

	return &vaultAdapter{
		client:    client,
		mountPath: mount,
		logger:    logger,
		cache:     newSecretCache(cfg.CacheTTL),
	}, nil
}

// GetSecret reads "<mount>/data/<path>" and returns the "value" key.
func (a *vaultAdapter) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if cached := a.cache.get(path); cached != nil {
		a.logger.Debug("Secret retrieved from cache", zap.String("path", path))
		return cached, nil
	}

	fullPath := fmt.Sprintf("%s/data/%s", a.mountPath, path)
	secret, err := a.client.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		a.logger.Error("Failed to retrieve secret from Vault",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read secret from Vault: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("secret not found: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret format from Vault at %s", path)
	}
	value, _ := data["value"].(string)
	if value == "" {
		return nil, fmt.Errorf("secret %s has no value key", path)
	}

	result := &ports.Secret{
		Value:    value,
		Metadata: make(map[string]string),
	}
	if metadata, ok := secret.Data["metadata"].(map[string]interface{}); ok {
		if v, ok := metadata["version"].(json.Number); ok {
			result.Version = v.String()
		}
		if ct, ok := metadata["created_time"].(string); ok {
			result.CreatedAt = ct
		}
	}
	for k, v := range data {
		if s, ok := v.(string); ok && k != "value" {
			result.Metadata[k] = s
		}
	}

	a.cache.set(path, result)
	return result, nil
}
