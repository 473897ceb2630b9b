// Package vault defines the vault interface for secrets management.
package vault

import "context"

// Type represents the type of vault backend.
type Type string

const (
	// TypeDotEnv represents a DotEnv vault (for development).
	TypeDotEnv Type = "dotenv"
	// TypeAzure represents an Azure Key Vault.
	TypeAzure Type = "azure"
	// TypeHashiCorp represents a HashiCorp Vault.
	TypeHashiCorp Type = "hashicorp"
)

// Vault defines the interface for secrets retrieval. The service reads the
// JWT signing secret and LLM API key through this port.
type Vault interface {
	// GetSecret retrieves a secret by URI, e.g. "dotenv://JWT_SECRET".
	// Returns the secret value or an error if not found.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault connection is alive.
	Ping(ctx context.Context) error

	// Close closes the vault connection.
	Close() error
}
