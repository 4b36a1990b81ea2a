// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package token issues and verifies signed, stateless session tokens.
// There is no server-side session table: a token is valid until its expiry,
// and rotating the signing secret invalidates every outstanding token at once.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"govportal/internal/model"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// malformed input, or claims the issuer could not have minted. Callers must
// not distinguish between these cases.
var ErrInvalidToken = errors.New("invalid session token")

// Claims carries the identity and role of an authenticated session.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// Session is a verified session extracted from a token.
type Session struct {
	UserID   int64
	Username string
	Role     model.Role
	Name     string
	IssuedAt time.Time
	Expiry   time.Time
}

// Issuer signs and verifies session tokens with a process-wide secret.
// The secret and TTL are configuration, fixed at startup.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates a token issuer with the given signing secret and lifetime.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue turns a verified identity into a signed session token.
func (i *Issuer) Issue(user model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Username: user.Username,
		Role:     string(user.Role),
		Name:     user.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. The role claim is only trusted
// after the signature checks out, and must parse to a known role.
func (i *Issuer) Verify(tokenString string) (Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	sess := Session{
		UserID:   userID,
		Username: claims.Username,
		Role:     role,
		Name:     claims.Name,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.Expiry = claims.ExpiresAt.Time
	}
	return sess, nil
}
