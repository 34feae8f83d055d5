package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efi-capital/portfolio-tracker/internal/config"
)

func TestServerConfigDefaults(t *testing.T) {
	var cfg config.ServerConfig
	cfg.Setup()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestServerConfigKeepsExplicitValues(t *testing.T) {
	cfg := config.ServerConfig{
		Port:              "9090",
		ReadHeaderTimeout: 2 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	}
	cfg.Setup()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestValidateAndSetup(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg := config.Config{
		Quotes: config.QuotesConfig{
			EquityBaseURL: "https://quotes.local/api",
			ChainBaseURL:  "https://chains.local/api",
		},
	}
	require.NoError(t, cfg.ValidateAndSetup())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Quotes.Timeout)
	assert.Equal(t, 1*time.Hour, cfg.Quotes.ChainCacheTTL)
	assert.Equal(t, "America/New_York", cfg.Activity.Timezone)
	assert.Equal(t, "hunter2", cfg.AdminPassword)
}

func TestValidateAndSetupRequiresAdminPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")

	cfg := config.Config{
		Quotes: config.QuotesConfig{
			EquityBaseURL: "https://quotes.local/api",
			ChainBaseURL:  "https://chains.local/api",
		},
	}
	require.Error(t, cfg.ValidateAndSetup())
}
