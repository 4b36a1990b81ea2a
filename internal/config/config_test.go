// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "GOVPORTAL_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/govportal.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/govportal.db")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.SessionTTL != 24 {
		t.Errorf("SessionTTL = %d, want 24", cfg.SessionTTL)
	}
	if cfg.SessionLifetime() != 24*time.Hour {
		t.Errorf("SessionLifetime() = %v, want 24h", cfg.SessionLifetime())
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for missing secret")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "GOVPORTAL_SESSION_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for short secret")
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "GOVPORTAL_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for known weak secret")
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	os.Clearenv()
	setEnv(t, "GOVPORTAL_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")
	setEnv(t, "GOVPORTAL_SESSION_TTL_HOURS", "0")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for zero TTL")
	}
}

func TestServerAddr(t *testing.T) {
	cfg := Config{ServerHost: "0.0.0.0", ServerPort: 9090}
	if got := cfg.ServerAddr(); got != "0.0.0.0:9090" {
		t.Errorf("ServerAddr() = %q, want %q", got, "0.0.0.0:9090")
	}
}

func TestUseRedisCache(t *testing.T) {
	if (Config{}).UseRedisCache() {
		t.Error("UseRedisCache() = true without URL")
	}
	if !(Config{RedisURL: "redis://localhost:6379"}).UseRedisCache() {
		t.Error("UseRedisCache() = false with URL")
	}
}
