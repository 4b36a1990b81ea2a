// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinSessionSecretLength is the minimum required length for the token
// signing secret. HS256 wants at least 32 bytes of key material.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"GOVPORTAL_DB_PATH" envDefault:"./data/govportal.db"`
	SessionSecret string `env:"GOVPORTAL_SESSION_SECRET,required"`
	SessionTTL    int    `env:"GOVPORTAL_SESSION_TTL_HOURS" envDefault:"24"` // Token lifetime in hours
	ServerHost    string `env:"GOVPORTAL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"GOVPORTAL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"GOVPORTAL_ENV" envDefault:"development"`
	LogLevel      string `env:"GOVPORTAL_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"GOVPORTAL_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL    string `env:"GOVPORTAL_REDIS_URL"`                            // Optional Redis URL for the navigation cache
	CachePrefix string `env:"GOVPORTAL_CACHE_PREFIX" envDefault:"govportal:"` // Redis key prefix
	CacheTTL    int    `env:"GOVPORTAL_CACHE_TTL" envDefault:"300"`           // Navigation cache TTL in seconds

	// Seeding configuration
	DoSeed bool `env:"GOVPORTAL_DO_SEED" envDefault:"false"` // Create the default admin account on boot
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SessionLifetime returns the configured token TTL as a duration.
func (c Config) SessionLifetime() time.Duration {
	return time.Duration(c.SessionTTL) * time.Hour
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("GOVPORTAL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("GOVPORTAL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("GOVPORTAL_SESSION_TTL_HOURS must be positive, got %d", cfg.SessionTTL)
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("GOVPORTAL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
