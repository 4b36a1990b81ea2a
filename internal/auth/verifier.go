// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"govportal/internal/model"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so that callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is verified against when the username does not exist, so the
// unknown-username path costs the same argon2 work as a real check.
var dummyHash string

func init() {
	var err error
	dummyHash, err = HashPassword("govportal-dummy-credential")
	if err != nil {
		panic(fmt.Sprintf("auth: creating dummy hash: %v", err))
	}
}

// UserSource looks up stored identities. Satisfied by *store.Queries.
type UserSource interface {
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

// Verifier checks submitted credentials against stored hashes.
type Verifier struct {
	users UserSource
}

// NewVerifier creates a credential verifier backed by the given user source.
func NewVerifier(users UserSource) *Verifier {
	return &Verifier{users: users}
}

// Verify looks up the identity by exact, case-sensitive username and checks
// the password against the stored argon2id hash. Both failure modes return
// ErrInvalidCredentials. Verify has no side effects: lockout counters are
// deliberately absent, rate limiting lives at the transport layer.
func (v *Verifier) Verify(ctx context.Context, username, password string) (model.User, error) {
	user, err := v.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn the same hashing cost as the found path
			_, _ = CheckPassword(password, dummyHash)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}

	return user, nil
}
