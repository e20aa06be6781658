// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// DatabaseURL is the DSN for the credential store (postgres:// or a
	// SQLite path). When empty the server runs without a store and serves
	// the built-in demo identities only.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// ServerAddr is the address the HTTP server listens on (e.g. :8080).
	ServerAddr string `mapstructure:"SERVER_ADDR"`
	// BcryptCost is the bcrypt cost factor (4-31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// SessionTTL is the session lifetime (e.g. "24h").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// DemoFallback enables the built-in demo identities when the store has
	// no answer. On by default; set false for hardened deployments.
	DemoFallback bool `mapstructure:"AUTH_DEMO_FALLBACK"`
	// CORSOrigins is a comma-separated list of allowed dashboard origins.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	// LogLevel sets the zerolog level (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment via Viper. Missing .env is ignored. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("AUTH_DEMO_FALLBACK", true)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.ServerAddr == "" {
		return nil, errors.New("config: SERVER_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// StoreConfigured reports whether a credential store DSN is present.
// Absence is not an error; the service degrades to demo-only mode.
func (c *Config) StoreConfigured() bool {
	return c.DatabaseURL != ""
}

// SessionDuration parses SessionTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SessionDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// AllowedOrigins splits CORSOrigins into a list, dropping empty entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
