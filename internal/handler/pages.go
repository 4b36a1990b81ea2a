// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"govportal/internal/cache"
	"govportal/internal/middleware"
	"govportal/internal/model"
	"govportal/internal/publish"
	"govportal/internal/service"
	"govportal/internal/store"
	"govportal/internal/util"
)

// PagesHandler handles administrative page management.
type PagesHandler struct {
	queries      *store.Queries
	eventService *service.EventService
	nav          *cache.Navigation
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(db *sql.DB, nav *cache.Navigation) *PagesHandler {
	return &PagesHandler{
		queries:      store.New(db),
		eventService: service.NewEventService(db),
		nav:          nav,
	}
}

// PageRequest is the request body for creating or updating a page.
type PageRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Body       string `json:"body"`
	Published  bool   `json:"published"`
	ShowInMenu bool   `json:"show_in_menu"`
	MenuOrder  int64  `json:"menu_order"`
}

func (req *PageRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if req.Title == "" {
		fieldErrors["title"] = "required"
	}
	if req.Slug != "" && !util.IsValidSlug(req.Slug) {
		fieldErrors["slug"] = "must contain only lowercase letters, digits and hyphens"
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// resolveSlug returns the explicit slug or derives one from the title.
func (req *PageRequest) resolveSlug() string {
	if req.Slug != "" {
		return req.Slug
	}
	return util.Slugify(req.Title)
}

// List handles GET /admin/pages. Drafts are included.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	pages, err := h.queries.ListPages(r.Context(), store.ListPagesParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list pages", "error", err)
		WriteInternalError(w, "Failed to list pages")
		return
	}

	total, err := h.queries.CountPages(r.Context(), false)
	if err != nil {
		slog.Error("failed to count pages", "error", err)
		WriteInternalError(w, "Failed to list pages")
		return
	}

	WriteSuccess(w, pages, paginationMeta(total, page, perPage))
}

// Get handles GET /admin/pages/{id}.
func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid page ID", nil)
		return
	}

	p, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
			return
		}
		slog.Error("failed to get page", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve page")
		return
	}

	WriteSuccess(w, p, nil)
}

// Create handles POST /admin/pages. The slug's uniqueness is decided by
// the storage layer's constraint; a losing write surfaces as 409.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	state := publish.Transition(publish.Draft(), req.Published, time.Now())

	p, err := h.queries.CreatePage(r.Context(), store.CreatePageParams{
		Title:      req.Title,
		Slug:       req.resolveSlug(),
		Body:       req.Body,
		State:      state,
		ShowInMenu: req.ShowInMenu,
		MenuOrder:  req.MenuOrder,
		AuthorID:   middleware.GetUserID(r),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A page with this slug already exists")
			return
		}
		slog.Error("failed to create page", "error", err)
		WriteInternalError(w, "Failed to create page")
		return
	}

	h.nav.Invalidate(r.Context())

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"Page created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"page_id": p.ID, "slug": p.Slug})

	WriteCreated(w, p)
}

// Update handles PUT /admin/pages/{id}.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid page ID", nil)
		return
	}

	current, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
			return
		}
		slog.Error("failed to get page", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve page")
		return
	}

	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	state := publish.Transition(publish.State{
		Published:   current.IsPublished,
		PublishedAt: current.PublishedAt,
	}, req.Published, time.Now())

	p, err := h.queries.UpdatePage(r.Context(), store.UpdatePageParams{
		ID:         id,
		Title:      req.Title,
		Slug:       req.resolveSlug(),
		Body:       req.Body,
		State:      state,
		ShowInMenu: req.ShowInMenu,
		MenuOrder:  req.MenuOrder,
		AuthorID:   current.AuthorID,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A page with this slug already exists")
			return
		}
		slog.Error("failed to update page", "error", err, "id", id)
		WriteInternalError(w, "Failed to update page")
		return
	}

	h.nav.Invalidate(r.Context())

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"Page updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"page_id": p.ID, "slug": p.Slug})

	WriteSuccess(w, p, nil)
}

// Delete handles DELETE /admin/pages/{id}.
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid page ID", nil)
		return
	}

	if err := h.queries.DeletePage(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
			return
		}
		slog.Error("failed to delete page", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete page")
		return
	}

	h.nav.Invalidate(r.Context())

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"Page deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"page_id": id})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// Publish handles POST /admin/pages/{id}/publish.
func (h *PagesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

// Unpublish handles POST /admin/pages/{id}/unpublish.
func (h *PagesHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *PagesHandler) setPublished(w http.ResponseWriter, r *http.Request, want bool) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid page ID", nil)
		return
	}

	current, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page not found")
			return
		}
		slog.Error("failed to get page", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve page")
		return
	}

	state := publish.Transition(publish.State{
		Published:   current.IsPublished,
		PublishedAt: current.PublishedAt,
	}, want, time.Now())

	p, err := h.queries.UpdatePage(r.Context(), store.UpdatePageParams{
		ID:         current.ID,
		Title:      current.Title,
		Slug:       current.Slug,
		Body:       current.Body,
		State:      state,
		ShowInMenu: current.ShowInMenu,
		MenuOrder:  current.MenuOrder,
		AuthorID:   current.AuthorID,
	})
	if err != nil {
		slog.Error("failed to change page publication", "error", err, "id", id)
		WriteInternalError(w, "Failed to update page")
		return
	}

	h.nav.Invalidate(r.Context())

	action := "Page unpublished"
	if want {
		action = "Page published"
	}
	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		action, middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"page_id": p.ID, "slug": p.Slug})

	WriteSuccess(w, p, nil)
}

// SlugCheck handles GET /admin/pages/slug-check?slug=. This is advisory
// only: the answer can be stale by the time a write lands, and the unique
// index remains the deciding check.
func (h *PagesHandler) SlugCheck(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		WriteBadRequest(w, "Missing slug parameter", nil)
		return
	}

	exists, err := h.queries.PageSlugExists(r.Context(), slug)
	if err != nil {
		slog.Error("failed to check slug", "error", err)
		WriteInternalError(w, "Failed to check slug")
		return
	}

	WriteSuccess(w, map[string]any{"slug": slug, "available": !exists}, nil)
}
