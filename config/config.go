// Package config loads the server configuration from environment variables,
// with development defaults for everything but the signing secrets in
// production.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/core"
)

const (
	// EnvDevelopment relaxes cookie security and allows default secrets.
	EnvDevelopment = "development"
	// EnvProduction requires explicit secrets and uses cross-site cookies.
	EnvProduction = "production"
)

// Insecure defaults used when no secrets are configured in development.
const (
	devAccessSecret  = "taskdeck-dev-access-secret"
	devRefreshSecret = "taskdeck-dev-refresh-secret"
)

// Config holds runtime settings for the taskdeck server.
type Config struct {
	Addr           string
	Env            string
	AccessSecret   string
	RefreshSecret  string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	AllowedOrigins []string
	StoreURL       string
	RedisURL       string
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// UsingDefaultSecrets reports whether the insecure development secrets are in
// use, so the caller can log a warning.
func (c *Config) UsingDefaultSecrets() bool {
	return c.AccessSecret == devAccessSecret || c.RefreshSecret == devRefreshSecret
}

// Load builds a Config from the environment. In production mode both signing
// secrets must be set explicitly; development mode falls back to insecure
// defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          getenv("TASKDECK_ADDR", ":5000"),
		Env:           getenv("TASKDECK_ENV", EnvDevelopment),
		AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		StoreURL:      getenv("STORE_URL", "taskdeck.db"),
		RedisURL:      os.Getenv("REDIS_URL"),
	}

	var err error
	cfg.AccessTTL, err = getduration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = getduration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		if cfg.Production() {
			return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required in production: %w", core.ErrMissingSecret)
		}
		if cfg.AccessSecret == "" {
			cfg.AccessSecret = devAccessSecret
		}
		if cfg.RefreshSecret == "" {
			cfg.RefreshSecret = devRefreshSecret
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
