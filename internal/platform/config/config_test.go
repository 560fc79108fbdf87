package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5, cfg.PostingMaxAttempts)
	assert.Equal(t, 20*time.Millisecond, cfg.PostingRetryInitialInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.PostingRetryMaxInterval)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("POSTING_MAX_ATTEMPTS", "8")
	t.Setenv("POSTING_RETRY_INITIAL_INTERVAL", "5ms")
	t.Setenv("POSTING_RETRY_MAX_INTERVAL", "not-a-duration")
	t.Setenv("DB_MAX_CONNS", "0")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 8, cfg.PostingMaxAttempts)
	assert.Equal(t, 5*time.Millisecond, cfg.PostingRetryInitialInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.PostingRetryMaxInterval)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
}
