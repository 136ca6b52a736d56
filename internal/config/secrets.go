package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/ports"
)

// ResolveSecrets replaces the active environment's token and webhook key
// with values from sm when secret paths are configured. It must run before
// Gateway so validation sees the final values.
func (c *Config) ResolveSecrets(ctx context.Context, sm ports.SecretManagerAdapter) error {
	active, err := c.Active()
	if err != nil {
		return err
	}
	if active.TokenSecret == "" && active.WebhookKeySecret == "" {
		return nil
	}
	if sm == nil {
		return fmt.Errorf("secret paths configured for %s but no secrets backend selected", c.Environment)
	}

	if active.TokenSecret != "" {
		secret, err := sm.GetSecret(ctx, active.TokenSecret)
		if err != nil {
			return fmt.Errorf("resolve API token: %w", err)
		}
		active.Token = strings.TrimSpace(secret.Value)
	}
	if active.WebhookKeySecret != "" {
		secret, err := sm.GetSecret(ctx, active.WebhookKeySecret)
		if err != nil {
			return fmt.Errorf("resolve webhook key: %w", err)
		}
		active.WebhookKey = strings.TrimSpace(secret.Value)
	}
	return nil
}
