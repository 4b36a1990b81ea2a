// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash = %q, want argon2id prefix", hash)
	}

	// Same password must produce different hashes (random salt)
	hash2, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == hash2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	t.Run("correct password", func(t *testing.T) {
		ok, err := CheckPassword("correct-horse", hash)
		if err != nil {
			t.Fatalf("CheckPassword() error = %v", err)
		}
		if !ok {
			t.Error("CheckPassword() = false, want true")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		ok, err := CheckPassword("battery-staple", hash)
		if err != nil {
			t.Fatalf("CheckPassword() error = %v", err)
		}
		if ok {
			t.Error("CheckPassword() = true, want false")
		}
	})

	t.Run("malformed hash", func(t *testing.T) {
		if _, err := CheckPassword("x", "not-a-hash"); err == nil {
			t.Error("CheckPassword() error = nil, want error")
		}
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		if _, err := CheckPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"); err == nil {
			t.Error("CheckPassword() error = nil, want error")
		}
	})
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if NeedsRehash(hash) {
		t.Error("NeedsRehash() = true for freshly created hash")
	}

	// Old 64MB parameters should be flagged
	old := "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	if !NeedsRehash(old) {
		t.Error("NeedsRehash() = false for outdated parameters")
	}

	if !NeedsRehash("garbage") {
		t.Error("NeedsRehash() = false for malformed hash")
	}
}
