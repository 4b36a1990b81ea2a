// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"govportal/internal/middleware"
	"govportal/internal/model"
	"govportal/internal/render"
	"govportal/internal/token"
)

// testRouter wires the page handlers the way main does, minus middleware.
func testRouter(t *testing.T, db *sql.DB) http.Handler {
	t.Helper()

	nav := testNav(db)
	ph := NewPagesHandler(db, nav)
	fh := NewFrontendHandler(db, render.New(), nav)

	r := chi.NewRouter()
	r.Get("/api/pages", fh.ListPages)
	r.Get("/api/pages/{slug}", fh.GetPage)
	r.Get("/api/navigation", fh.Navigation)
	r.Route("/admin/pages", func(r chi.Router) {
		r.Get("/", ph.List)
		r.Post("/", ph.Create)
		r.Get("/slug-check", ph.SlugCheck)
		r.Get("/{id}", ph.Get)
		r.Put("/{id}", ph.Update)
		r.Delete("/{id}", ph.Delete)
		r.Post("/{id}/publish", ph.Publish)
		r.Post("/{id}/unpublish", ph.Unpublish)
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	// Simulate a verified session on administrative requests.
	if strings.HasPrefix(path, "/admin/") {
		ctx := context.WithValue(req.Context(), middleware.ContextKeySession, token.Session{
			UserID:   1,
			Username: "admin",
			Role:     model.RoleAdmin,
			Name:     "Admin",
		})
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Data
}

func TestPagePublishLifecycle(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "admin", "admin-password-1", model.RoleAdmin)
	router := testRouter(t, db)

	// Create a draft.
	rec := doJSON(t, router, http.MethodPost, "/admin/pages", PageRequest{
		Title: "Visa Requirements",
		Body:  "## Documents\nBring your passport.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d; body %s", rec.Code, rec.Body)
	}
	created := decodeData[model.Page](t, rec)
	if created.Slug != "visa-requirements" {
		t.Errorf("slug = %q, want derived from title", created.Slug)
	}
	if created.IsPublished || created.PublishedAt.Valid {
		t.Error("new page must start unpublished with no timestamp")
	}

	// Draft is invisible publicly.
	if rec := doJSON(t, router, http.MethodGet, "/api/pages/visa-requirements", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("draft fetch status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	// Publish.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/admin/pages/%d/publish", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d; body %s", rec.Code, rec.Body)
	}
	published := decodeData[model.Page](t, rec)
	if !published.IsPublished || !published.PublishedAt.Valid {
		t.Fatal("published page must carry a timestamp")
	}
	firstPublished := published.PublishedAt.Time

	// Now visible publicly, with rendered body.
	rec = doJSON(t, router, http.MethodGet, "/api/pages/visa-requirements", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("public fetch status = %d", rec.Code)
	}
	pub := decodeData[PublicPage](t, rec)
	if !strings.Contains(pub.BodyHTML, "<h2") {
		t.Errorf("body not rendered: %q", pub.BodyHTML)
	}

	// Publishing again keeps the original timestamp.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/admin/pages/%d/publish", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("republish status = %d", rec.Code)
	}
	republished := decodeData[model.Page](t, rec)
	if !republished.PublishedAt.Time.Equal(firstPublished) {
		t.Errorf("republish changed timestamp: %v vs %v", republished.PublishedAt.Time, firstPublished)
	}

	// Unpublish clears the timestamp and hides the page.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/admin/pages/%d/unpublish", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unpublish status = %d", rec.Code)
	}
	unpublished := decodeData[model.Page](t, rec)
	if unpublished.IsPublished || unpublished.PublishedAt.Valid {
		t.Error("unpublished page must have no timestamp")
	}
	if rec := doJSON(t, router, http.MethodGet, "/api/pages/visa-requirements", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unpublished fetch status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPageDuplicateSlugConflict(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "admin", "admin-password-1", model.RoleAdmin)
	router := testRouter(t, db)

	first := doJSON(t, router, http.MethodPost, "/admin/pages", PageRequest{Title: "Fees", Slug: "fees"})
	if first.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", first.Code)
	}

	second := doJSON(t, router, http.MethodPost, "/admin/pages", PageRequest{Title: "Other Fees", Slug: "fees"})
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate create status = %d, want %d", second.Code, http.StatusConflict)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(second.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "duplicate_key" {
		t.Errorf("error code = %q, want %q", resp.Error.Code, "duplicate_key")
	}

	// The winner is untouched.
	rec := doJSON(t, router, http.MethodGet, "/admin/pages/"+idOf(t, first), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("winner fetch status = %d", rec.Code)
	}
	winner := decodeData[model.Page](t, rec)
	if winner.Title != "Fees" {
		t.Errorf("winner title = %q", winner.Title)
	}
}

func idOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode id: %v", err)
	}
	return fmt.Sprintf("%d", resp.Data.ID)
}

func TestPageValidation(t *testing.T) {
	db := testDB(t)
	router := testRouter(t, db)

	tests := []struct {
		name string
		req  PageRequest
	}{
		{"missing title", PageRequest{Slug: "x"}},
		{"bad slug", PageRequest{Title: "X", Slug: "Bad Slug!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/admin/pages", tt.req)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
			}
		})
	}
}

func TestSlugCheck(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "admin", "admin-password-1", model.RoleAdmin)
	router := testRouter(t, db)

	doJSON(t, router, http.MethodPost, "/admin/pages", PageRequest{Title: "Fees", Slug: "fees"})

	rec := doJSON(t, router, http.MethodGet, "/admin/pages/slug-check?slug=fees", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	taken := decodeData[map[string]any](t, rec)
	if taken["available"] != false {
		t.Error("existing slug reported available")
	}

	rec = doJSON(t, router, http.MethodGet, "/admin/pages/slug-check?slug=unused", nil)
	free := decodeData[map[string]any](t, rec)
	if free["available"] != true {
		t.Error("unused slug reported unavailable")
	}
}

func TestNavigationReflectsMenuPages(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "admin", "admin-password-1", model.RoleAdmin)
	router := testRouter(t, db)

	rec := doJSON(t, router, http.MethodPost, "/admin/pages", PageRequest{
		Title:      "Services",
		Slug:       "services",
		Published:  true,
		ShowInMenu: true,
		MenuOrder:  1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/navigation", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("navigation status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"services"`) {
		t.Errorf("navigation missing menu page: %s", rec.Body)
	}
}
