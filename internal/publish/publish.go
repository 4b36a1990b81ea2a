// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package publish implements the draft/published lifecycle for portal
// content. Every mutation of a publishable record passes through Transition
// so that published records always carry a publish timestamp and drafts
// never do.
package publish

import (
	"database/sql"
	"time"
)

// State is the publication state of a content record.
type State struct {
	Published   bool
	PublishedAt sql.NullTime
}

// Draft returns the initial state of newly created content.
func Draft() State {
	return State{}
}

// Transition applies a requested publication flag to the current state.
//
//   - draft → published stamps PublishedAt with now
//   - published → published keeps the original PublishedAt (idempotent)
//   - published → draft clears PublishedAt
//   - draft → draft stays empty
func Transition(current State, wantPublished bool, now time.Time) State {
	switch {
	case wantPublished && current.Published:
		return current
	case wantPublished:
		return State{Published: true, PublishedAt: sql.NullTime{Time: now, Valid: true}}
	default:
		return State{}
	}
}

// Valid reports whether a state satisfies the publication invariant:
// published records have a timestamp, drafts have none.
func (s State) Valid() bool {
	return s.Published == s.PublishedAt.Valid
}
