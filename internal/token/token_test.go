// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"govportal/internal/model"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testUser() model.User {
	return model.User{
		ID:       42,
		Username: "s.bold",
		Role:     model.RoleAdmin,
		Name:     "S. Bold",
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	sess, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if sess.UserID != 42 {
		t.Errorf("UserID = %d, want 42", sess.UserID)
	}
	if sess.Username != "s.bold" {
		t.Errorf("Username = %q, want %q", sess.Username, "s.bold")
	}
	if sess.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", sess.Role)
	}
	if sess.Expiry.Sub(sess.IssuedAt) != time.Hour {
		t.Errorf("lifetime = %v, want 1h", sess.Expiry.Sub(sess.IssuedAt))
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer(testSecret, -time.Minute)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	other := NewIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestVerifyUnknownRole(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	// Mint a token with a role outside the closed set; the signature is
	// valid but verification must still reject it.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: "s.bold",
		Role:     "superuser",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}
