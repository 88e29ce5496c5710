// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"testing"
)

// clearEnv blanks every variable Load reads so tests see pure defaults.
// envOrDefault treats "" the same as unset, so t.Setenv(key, "") is enough
// and gets restored automatically when the test finishes.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Host)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.DBUser != "superguide" || cfg.DBName != "superguide" {
		t.Errorf("DB defaults = %q/%q, want superguide/superguide", cfg.DBUser, cfg.DBName)
	}
	if cfg.ValkeyHost != "localhost" || cfg.ValkeyPort != "6379" {
		t.Errorf("Valkey defaults = %q:%q, want localhost:6379", cfg.ValkeyHost, cfg.ValkeyPort)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false for default config, want true")
	}
}

// TestLoad_ProductionGuard verifies that production mode rejects the
// default database password.
func TestLoad_ProductionGuard(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Load() in production with default password: want error, got nil")
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with real password: unexpected error: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev() = true in production mode")
	}
}

// TestDSNAndAddr verifies connection string assembly.
func TestDSNAndAddr(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "sg")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "guide")
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	wantDSN := "postgres://sg:pw@db.internal:5433/guide?sslmode=disable"
	if got := cfg.DSN(); got != wantDSN {
		t.Errorf("DSN() = %q, want %q", got, wantDSN)
	}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9000", got)
	}
}
