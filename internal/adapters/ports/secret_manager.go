package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value (API token or webhook key)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManagerAdapter retrieves gateway credentials from a secret store.
// Path format depends on the backend:
//   - AWS: "hyperpay/live/token" or a full ARN
//   - Vault: "hyperpay/live" (KV v2, value under the "value" key)
//   - Local: a file name relative to the base path
type SecretManagerAdapter interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
