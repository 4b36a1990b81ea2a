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

	"govportal/internal/middleware"
	"govportal/internal/model"
	"govportal/internal/publish"
	"govportal/internal/service"
	"govportal/internal/store"
)

// NewsHandler handles administrative news management.
type NewsHandler struct {
	queries      *store.Queries
	eventService *service.EventService
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(db *sql.DB) *NewsHandler {
	return &NewsHandler{
		queries:      store.New(db),
		eventService: service.NewEventService(db),
	}
}

// ArticleRequest is the request body for news items and notices.
type ArticleRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

func (req *ArticleRequest) validate() map[string]string {
	if req.Title == "" {
		return map[string]string{"title": "required"}
	}
	return nil
}

// List handles GET /admin/news. Drafts are included.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	items, err := h.queries.ListNews(r.Context(), store.ListNewsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}

	total, err := h.queries.CountNews(r.Context(), false)
	if err != nil {
		slog.Error("failed to count news", "error", err)
		WriteInternalError(w, "Failed to list news")
		return
	}

	WriteSuccess(w, items, paginationMeta(total, page, perPage))
}

// Get handles GET /admin/news/{id}.
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid news ID", nil)
		return
	}

	item, err := h.queries.GetNewsByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "News item not found")
			return
		}
		slog.Error("failed to get news item", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve news item")
		return
	}

	WriteSuccess(w, item, nil)
}

// Create handles POST /admin/news.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.queries.CreateNews(r.Context(), store.CreateNewsParams{
		Title:    req.Title,
		Body:     req.Body,
		State:    publish.Transition(publish.Draft(), req.Published, time.Now()),
		AuthorID: middleware.GetUserID(r),
	})
	if err != nil {
		slog.Error("failed to create news item", "error", err)
		WriteInternalError(w, "Failed to create news item")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"News item created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"news_id": item.ID})

	WriteCreated(w, item)
}

// Update handles PUT /admin/news/{id}.
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid news ID", nil)
		return
	}

	current, err := h.queries.GetNewsByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "News item not found")
			return
		}
		slog.Error("failed to get news item", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve news item")
		return
	}

	var req ArticleRequest
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

	item, err := h.queries.UpdateNews(r.Context(), store.UpdateNewsParams{
		ID:       id,
		Title:    req.Title,
		Body:     req.Body,
		State:    state,
		AuthorID: current.AuthorID,
	})
	if err != nil {
		slog.Error("failed to update news item", "error", err, "id", id)
		WriteInternalError(w, "Failed to update news item")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"News item updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"news_id": item.ID})

	WriteSuccess(w, item, nil)
}

// Delete handles DELETE /admin/news/{id}.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid news ID", nil)
		return
	}

	if err := h.queries.DeleteNews(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "News item not found")
			return
		}
		slog.Error("failed to delete news item", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete news item")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"News item deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"news_id": id})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
