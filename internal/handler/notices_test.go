// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"govportal/internal/model"
	"govportal/internal/render"
)

func noticesRouter(db *sql.DB) http.Handler {
	nh := NewNoticesHandler(db)
	fh := NewFrontendHandler(db, render.New(), testNav(db))

	r := chi.NewRouter()
	r.Get("/api/notices", fh.ListNotices)
	r.Get("/api/notices/{id}", fh.GetNotice)
	r.Route("/admin/notices", func(r chi.Router) {
		r.Get("/", nh.List)
		r.Post("/", nh.Create)
		r.Get("/{id}", nh.Get)
		r.Put("/{id}", nh.Update)
		r.Delete("/{id}", nh.Delete)
	})
	return r
}

func TestNoticeDraftVisibility(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "admin", "admin-password-1", model.RoleAdmin)
	router := noticesRouter(db)

	draft := doJSON(t, router, http.MethodPost, "/admin/notices", ArticleRequest{
		Title: "Office closed for maintenance",
	})
	if draft.Code != http.StatusCreated {
		t.Fatalf("create status = %d; body %s", draft.Code, draft.Body)
	}
	live := doJSON(t, router, http.MethodPost, "/admin/notices", ArticleRequest{
		Title:     "New service hours",
		Published: true,
	})
	if live.Code != http.StatusCreated {
		t.Fatalf("create status = %d", live.Code)
	}

	// Public listing carries only the published notice.
	rec := doJSON(t, router, http.MethodGet, "/api/notices", nil)
	public := decodeData[[]PublicArticle](t, rec)
	if len(public) != 1 || public[0].Title != "New service hours" {
		t.Errorf("public notices = %+v", public)
	}

	// Administrative listing includes the draft.
	rec = doJSON(t, router, http.MethodGet, "/admin/notices", nil)
	all := decodeData[[]model.Notice](t, rec)
	if len(all) != 2 {
		t.Errorf("admin notices = %d, want 2", len(all))
	}

	// A draft fetched publicly by ID is a plain 404.
	if rec := doJSON(t, router, http.MethodGet, "/api/notices/"+idOf(t, draft), nil); rec.Code != http.StatusNotFound {
		t.Errorf("draft public fetch status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestNoticeUpdatePreservesPublishedAt(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "admin", "admin-password-1", model.RoleAdmin)
	router := noticesRouter(db)

	created := doJSON(t, router, http.MethodPost, "/admin/notices", ArticleRequest{
		Title:     "Procurement announcement",
		Published: true,
	})
	first := decodeData[model.Notice](t, created)

	rec := doJSON(t, router, http.MethodPut, "/admin/notices/"+idOf(t, created), ArticleRequest{
		Title:     "Procurement announcement (amended)",
		Published: true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	updated := decodeData[model.Notice](t, rec)

	if !updated.PublishedAt.Time.Equal(first.PublishedAt.Time) {
		t.Errorf("update moved publication time: %v vs %v",
			updated.PublishedAt.Time, first.PublishedAt.Time)
	}
}
