// Package dotenv provides a dotenv-based vault implementation for development.
package dotenv

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Vault implements the vault.Vault interface using environment variables.
// This is primarily for local development and testing.
type Vault struct {
	// secrets stores in-memory overrides (for secrets not in env vars)
	secrets map[string]string
	mu      sync.RWMutex
}

// NewVault creates a new DotEnv vault instance.
func NewVault() *Vault {
	return &Vault{
		secrets: make(map[string]string),
	}
}

// GetSecret retrieves a secret from environment variables or the in-memory
// override store. URIs take the form "dotenv://{key}".
func (v *Vault) GetSecret(ctx context.Context, uri string) (string, error) {
	key := strings.TrimPrefix(uri, "dotenv://")

	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if value, ok := v.secrets[key]; ok {
		return value, nil
	}

	return "", fmt.Errorf("secret not found: %s", key)
}

// SetSecret stores a secret override in memory. Used by tests.
func (v *Vault) SetSecret(key, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.secrets[key] = value
}

// Ping checks if the vault is available (always nil for dotenv).
func (v *Vault) Ping(ctx context.Context) error {
	return nil
}

// Close closes the vault (no-op for dotenv).
func (v *Vault) Close() error {
	return nil
}
