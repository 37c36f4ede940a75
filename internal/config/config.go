package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// Ledger backend selection values
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config is the application configuration, loaded from the environment
type Config struct {
	Port          int    `env:"PORT" envDefault:"8080"`
	LedgerBackend string `env:"LEDGER_BACKEND" envDefault:"postgres"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"disburser"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	// AdminToken guards the pause/resume/claim endpoints.
	AdminToken string `env:"API_TOKEN" envDefault:"dev-token"`

	// OwnerAccountID is the administrator account; fixed for the lifetime of
	// the process, there is no ownership transfer.
	OwnerAccountID uuid.UUID `env:"OWNER_ACCOUNT_ID"`

	// EngineAccountID holds funds between a pull and its distribution.
	EngineAccountID uuid.UUID `env:"ENGINE_ACCOUNT_ID" envDefault:"00000000-0000-0000-0000-0000000000aa"`

	// Recipient limits per variant; intentionally asymmetric.
	SingleAssetRecipientLimit int `env:"SINGLE_ASSET_RECIPIENT_LIMIT" envDefault:"100"`
	CombinedRecipientLimit    int `env:"COMBINED_RECIPIENT_LIMIT" envDefault:"255"`
}

// Load parses the configuration from the environment and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.LedgerBackend != BackendPostgres && c.LedgerBackend != BackendMemory {
		return fmt.Errorf("unknown ledger backend %q", c.LedgerBackend)
	}

	if c.OwnerAccountID == uuid.Nil {
		return errors.New("OWNER_ACCOUNT_ID is required")
	}

	if c.EngineAccountID == uuid.Nil {
		return errors.New("ENGINE_ACCOUNT_ID must not be the zero account")
	}

	if c.SingleAssetRecipientLimit <= 0 || c.CombinedRecipientLimit <= 0 {
		return errors.New("recipient limits must be positive")
	}

	return nil
}

// ConnString builds the PostgreSQL connection string
func (c *Config) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
