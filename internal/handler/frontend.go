// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"govportal/internal/cache"
	"govportal/internal/model"
	"govportal/internal/render"
	"govportal/internal/store"
)

// FrontendHandler serves the public, read-only surface. Only published
// content is visible here; a draft is indistinguishable from a missing
// record.
type FrontendHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	nav      *cache.Navigation
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, nav *cache.Navigation) *FrontendHandler {
	return &FrontendHandler{
		queries:  store.New(db),
		renderer: renderer,
		nav:      nav,
	}
}

// PublicPage is the public projection of a page.
type PublicPage struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	BodyHTML    string    `json:"body_html,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// PublicArticle is the public projection of a news item or notice.
type PublicArticle struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

func (h *FrontendHandler) publicPage(p model.Page, withBody bool) PublicPage {
	out := PublicPage{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		PublishedAt: p.PublishedAt.Time,
	}
	if withBody {
		html, err := h.renderer.HTML(p.Body)
		if err != nil {
			slog.Error("failed to render page body", "error", err, "page_id", p.ID)
		} else {
			out.BodyHTML = html
		}
	}
	return out
}

func (h *FrontendHandler) publicArticle(id int64, title, body string, publishedAt sql.NullTime, withBody bool) PublicArticle {
	out := PublicArticle{
		ID:          id,
		Title:       title,
		PublishedAt: publishedAt.Time,
	}
	if withBody {
		html, err := h.renderer.HTML(body)
		if err != nil {
			slog.Error("failed to render article body", "error", err, "id", id)
		} else {
			out.BodyHTML = html
		}
	}
	return out
}

// ListPages handles GET /api/pages.
func (h *FrontendHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	pages, err := h.queries.ListPages(r.Context(), store.ListPagesParams{
		PublishedOnly: true,
		Limit:         int64(perPage),
		Offset:        int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list public pages", "error", err)
		WriteInternalError(w, "Failed to list pages")
		return
	}

	total, err := h.queries.CountPages(r.Context(), true)
	if err != nil {
		slog.Error("failed to count public pages", "error", err)
		WriteInternalError(w, "Failed to list pages")
		return
	}

	out := make([]PublicPage, 0, len(pages))
	for _, p := range pages {
		out = append(out, h.publicPage(p, false))
	}
	WriteSuccess(w, out, paginationMeta(total, page, perPage))
}

// GetPage handles GET /api/pages/{slug}.
func (h *FrontendHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := h.queries.GetPublishedPageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
			return
		}
		slog.Error("failed to get public page", "error", err, "slug", slug)
		WriteInternalError(w, "Failed to retrieve page")
		return
	}

	WriteSuccess(w, h.publicPage(p, true), nil)
}

// ListNews handles GET /api/news.
func (h *FrontendHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	items, err := h.queries.ListNews(r.Context(), store.ListNewsParams{
		PublishedOnly: true,
		Limit:         int64(perPage),
		Offset:        int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list public news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}

	total, err := h.queries.CountNews(r.Context(), true)
	if err != nil {
		slog.Error("failed to count public news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}

	out := make([]PublicArticle, 0, len(items))
	for _, n := range items {
		out = append(out, h.publicArticle(n.ID, n.Title, n.Body, n.PublishedAt, false))
	}
	WriteSuccess(w, out, paginationMeta(total, page, perPage))
}

// GetNews handles GET /api/news/{id}.
func (h *FrontendHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid news ID", nil)
		return
	}

	n, err := h.queries.GetPublishedNewsByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "News item not found")
			return
		}
		slog.Error("failed to get public news item", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve news item")
		return
	}

	WriteSuccess(w, h.publicArticle(n.ID, n.Title, n.Body, n.PublishedAt, true), nil)
}

// ListNotices handles GET /api/notices. Unpublished notices never appear
// here; the full list is an administrative view.
func (h *FrontendHandler) ListNotices(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	items, err := h.queries.ListNotices(r.Context(), store.ListNoticesParams{
		PublishedOnly: true,
		Limit:         int64(perPage),
		Offset:        int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list public notices", "error", err)
		WriteInternalError(w, "Failed to list notices")
		return
	}

	total, err := h.queries.CountNotices(r.Context(), true)
	if err != nil {
		slog.Error("failed to count public notices", "error", err)
		WriteInternalError(w, "Failed to list notices")
		return
	}

	out := make([]PublicArticle, 0, len(items))
	for _, n := range items {
		out = append(out, h.publicArticle(n.ID, n.Title, n.Body, n.PublishedAt, false))
	}
	WriteSuccess(w, out, paginationMeta(total, page, perPage))
}

// GetNotice handles GET /api/notices/{id}.
func (h *FrontendHandler) GetNotice(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid notice ID", nil)
		return
	}

	n, err := h.queries.GetPublishedNoticeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Notice not found")
			return
		}
		slog.Error("failed to get public notice", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve notice")
		return
	}

	WriteSuccess(w, h.publicArticle(n.ID, n.Title, n.Body, n.PublishedAt, true), nil)
}

// Navigation handles GET /api/navigation. The menu projection is served
// from cache when warm.
func (h *FrontendHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	items, err := h.nav.Get(r.Context())
	if err != nil {
		slog.Error("failed to load navigation", "error", err)
		WriteInternalError(w, "Failed to load navigation")
		return
	}
	WriteSuccess(w, items, nil)
}
