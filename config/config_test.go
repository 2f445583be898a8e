package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/core"
)

// clearEnv blanks every variable Load reads, so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TASKDECK_ADDR", "TASKDECK_ENV",
		"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
		"ALLOWED_ORIGINS", "STORE_URL", "REDIS_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "taskdeck.db", cfg.StoreURL)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisURL)

	// Development falls back to the insecure built-in secrets.
	assert.NotEmpty(t, cfg.AccessSecret)
	assert.NotEmpty(t, cfg.RefreshSecret)
	assert.True(t, cfg.UsingDefaultSecrets())
}

func TestLoadExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKDECK_ADDR", ":8080")
	t.Setenv("TASKDECK_ENV", EnvProduction)
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("STORE_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.Production())
	assert.Equal(t, "access-secret", cfg.AccessSecret)
	assert.Equal(t, "refresh-secret", cfg.RefreshSecret)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.StoreURL)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.False(t, cfg.UsingDefaultSecrets())
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKDECK_ENV", EnvProduction)

	_, err := Load()
	assert.ErrorIs(t, err, core.ErrMissingSecret)

	// One secret is not enough.
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	_, err = Load()
	assert.ErrorIs(t, err, core.ErrMissingSecret)

	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadAllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestLoadInvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL", "fifteen minutes")

	_, err := Load()
	assert.Error(t, err)
}
