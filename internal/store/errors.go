// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// ErrDuplicateKey is returned when a write would violate a unique index.
// The unique index is the sole authority on uniqueness: callers never rely
// on a pre-check to guarantee the write will succeed.
var ErrDuplicateKey = errors.New("duplicate key")

// mapWriteError converts driver-level constraint violations into
// ErrDuplicateKey and passes every other error through unchanged.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrDuplicateKey
		}
	}

	// Some wrapped paths lose the typed error; match the driver message.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateKey
	}

	return err
}
