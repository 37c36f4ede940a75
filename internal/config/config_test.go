package config

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	owner := uuid.New()
	t.Setenv("OWNER_ACCOUNT_ID", owner.String())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.LedgerBackend)
	assert.Equal(t, owner, cfg.OwnerAccountID)
	assert.Equal(t, 100, cfg.SingleAssetRecipientLimit)
	assert.Equal(t, 255, cfg.CombinedRecipientLimit)
	assert.NotEqual(t, uuid.Nil, cfg.EngineAccountID)
	assert.Contains(t, cfg.ConnString(), "dbname=disburser")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OWNER_ACCOUNT_ID", uuid.New().String())
	t.Setenv("LEDGER_BACKEND", "memory")
	t.Setenv("PORT", "9090")
	t.Setenv("SINGLE_ASSET_RECIPIENT_LIMIT", "50")
	t.Setenv("COMBINED_RECIPIENT_LIMIT", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.LedgerBackend)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 50, cfg.SingleAssetRecipientLimit)
	assert.Equal(t, 200, cfg.CombinedRecipientLimit)
}

func TestLoad_MissingOwner(t *testing.T) {
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OWNER_ACCOUNT_ID")
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("OWNER_ACCOUNT_ID", uuid.New().String())
	t.Setenv("LEDGER_BACKEND", "sqlite")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ledger backend")
}
