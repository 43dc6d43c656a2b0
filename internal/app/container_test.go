package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/amirhossein-jamali/pinpayments/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: config.Test,
		Pin: config.PinConfig{
			Default: "test",
			Environments: map[string]config.PinEnvironmentConfig{
				"test": {Key: "pk_test", Secret: "sk_test", Host: "test-api.pinpayments.com"},
			},
		},
		Database: config.DatabaseConfig{
			Driver:        "sqlite",
			Database:      filepath.Join(t.TempDir(), "pin.db"),
			MaxOpenConns:  1,
			RetryAttempts: 1,
			LogLevel:      "silent",
			AutoMigrate:   true,
		},
		Logger: config.LoggerConfig{Level: "error", Format: "json", Output: "stderr"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *config.Config)
		contains string
	}{
		{"Valid", func(c *config.Config) {}, ""},
		{"No environments", func(c *config.Config) { c.Pin.Environments = nil }, "pin.environments"},
		{"Default not configured", func(c *config.Config) { c.Pin.Default = "live" }, "pin.environments.live"},
		{"Unknown driver", func(c *config.Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"Postgres without host", func(c *config.Config) {
			c.Database.Driver = "postgres"
			c.Database.Username = "pin"
		}, "database.host"},
		{"Broker without exchange", func(c *config.Config) { c.Events.URL = "amqp://localhost" }, "events.exchange"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := sqliteConfig(t)
			tc.mutate(cfg)

			err := Validate(cfg)
			if tc.contains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestNewWithSQLite(t *testing.T) {
	c, err := New(context.Background(), sqliteConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, c.Charges)
	assert.NotNil(t, c.Customers)
	assert.NotNil(t, c.Payouts)
	assert.NotNil(t, c.Billing)
	assert.Equal(t, []string{"test"}, c.Environments.Usable())
	assert.NotNil(t, c.MetricsHandler())

	ctx := context.Background()
	exists, err := c.UnitOfWork.GetTransactionRepository(ctx).ExistsByToken(ctx, "ch_missing")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, c.Close())
}

func TestDatabaseConfig(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Port = "not-a-port"

	dbc := DatabaseConfig(cfg)
	assert.Equal(t, "sqlite", dbc.Driver)
	assert.Equal(t, 5432, dbc.Port)
	assert.Equal(t, cfg.Database.Database, dbc.Database)
}
