// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package publish

import (
	"database/sql"
	"testing"
	"time"
)

func TestTransition(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	t.Run("draft to published", func(t *testing.T) {
		s := Transition(Draft(), true, t0)
		if !s.Published {
			t.Error("Published = false, want true")
		}
		if !s.PublishedAt.Valid || !s.PublishedAt.Time.Equal(t0) {
			t.Errorf("PublishedAt = %v, want %v", s.PublishedAt, t0)
		}
		if !s.Valid() {
			t.Error("state violates publication invariant")
		}
	})

	t.Run("publish is idempotent", func(t *testing.T) {
		s := Transition(Draft(), true, t0)
		s = Transition(s, true, t1)
		if !s.PublishedAt.Time.Equal(t0) {
			t.Errorf("PublishedAt = %v after re-publish, want original %v", s.PublishedAt.Time, t0)
		}
	})

	t.Run("published to draft", func(t *testing.T) {
		s := Transition(Draft(), true, t0)
		s = Transition(s, false, t1)
		if s.Published {
			t.Error("Published = true, want false")
		}
		if s.PublishedAt.Valid {
			t.Errorf("PublishedAt = %v, want null", s.PublishedAt)
		}
		if !s.Valid() {
			t.Error("state violates publication invariant")
		}
	})

	t.Run("draft stays draft", func(t *testing.T) {
		s := Transition(Draft(), false, t0)
		if s.Published || s.PublishedAt.Valid {
			t.Errorf("state = %+v, want empty draft", s)
		}
	})

	t.Run("republish after unpublish stamps fresh time", func(t *testing.T) {
		s := Transition(Draft(), true, t0)
		s = Transition(s, false, t0.Add(time.Minute))
		s = Transition(s, true, t1)
		if !s.PublishedAt.Time.Equal(t1) {
			t.Errorf("PublishedAt = %v, want %v", s.PublishedAt.Time, t1)
		}
	})
}

func TestValid(t *testing.T) {
	bad := State{Published: true}
	if bad.Valid() {
		t.Error("published without timestamp reported valid")
	}

	bad = State{PublishedAt: sql.NullTime{Time: time.Now(), Valid: true}}
	if bad.Valid() {
		t.Error("draft with timestamp reported valid")
	}
}
