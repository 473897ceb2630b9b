// Package dotenv_test provides unit tests for the dotenv vault.
package dotenv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscout/chat-service/internal/infrastructure/vault/dotenv"
)

func TestGetSecret_FromEnvironment(t *testing.T) {
	t.Setenv("TEST_VAULT_SECRET", "env-value")
	v := dotenv.NewVault()

	value, err := v.GetSecret(context.Background(), "dotenv://TEST_VAULT_SECRET")

	require.NoError(t, err)
	assert.Equal(t, "env-value", value)
}

func TestGetSecret_FromOverride(t *testing.T) {
	v := dotenv.NewVault()
	v.SetSecret("OVERRIDE_KEY", "override-value")

	value, err := v.GetSecret(context.Background(), "dotenv://OVERRIDE_KEY")

	require.NoError(t, err)
	assert.Equal(t, "override-value", value)
}

func TestGetSecret_EnvironmentWinsOverOverride(t *testing.T) {
	t.Setenv("SHARED_KEY", "env-value")
	v := dotenv.NewVault()
	v.SetSecret("SHARED_KEY", "override-value")

	value, err := v.GetSecret(context.Background(), "dotenv://SHARED_KEY")

	require.NoError(t, err)
	assert.Equal(t, "env-value", value)
}

func TestGetSecret_NotFound(t *testing.T) {
	v := dotenv.NewVault()

	_, err := v.GetSecret(context.Background(), "dotenv://NO_SUCH_SECRET")

	assert.Error(t, err)
}

func TestPingAndClose(t *testing.T) {
	v := dotenv.NewVault()

	assert.NoError(t, v.Ping(context.Background()))
	assert.NoError(t, v.Close())
}
