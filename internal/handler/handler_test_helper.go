// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"govportal/internal/auth"
	"govportal/internal/cache"
	"govportal/internal/model"
	"govportal/internal/store"
	"govportal/internal/token"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "govportal-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

func testNav(db *sql.DB) *cache.Navigation {
	mem := cache.NewMemoryCache(time.Minute)
	return cache.NewNavigation(store.New(db), mem, time.Minute)
}

func testIssuer() *token.Issuer {
	return token.NewIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
}

// createTestUser provisions a user with a real password hash.
func createTestUser(t *testing.T, db *sql.DB, username, password string, role model.Role) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Name:         "Test " + username,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}
