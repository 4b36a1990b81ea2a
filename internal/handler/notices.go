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

// NoticesHandler handles administrative notice management. Listing all
// notices including drafts is an admin-only view wired up in the router.
type NoticesHandler struct {
	queries      *store.Queries
	eventService *service.EventService
}

// NewNoticesHandler creates a new NoticesHandler.
func NewNoticesHandler(db *sql.DB) *NoticesHandler {
	return &NoticesHandler{
		queries:      store.New(db),
		eventService: service.NewEventService(db),
	}
}

// List handles GET /admin/notices. Includes unpublished notices.
func (h *NoticesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	items, err := h.queries.ListNotices(r.Context(), store.ListNoticesParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		slog.Error("failed to list notices", "error", err)
		WriteInternalError(w, "Failed to list notices")
		return
	}

	total, err := h.queries.CountNotices(r.Context(), false)
	if err != nil {
		slog.Error("failed to count notices", "error", err)
		WriteInternalError(w, "Failed to list notices")
		return
	}

	WriteSuccess(w, items, paginationMeta(total, page, perPage))
}

// Get handles GET /admin/notices/{id}.
func (h *NoticesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid notice ID", nil)
		return
	}

	item, err := h.queries.GetNoticeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Notice not found")
			return
		}
		slog.Error("failed to get notice", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve notice")
		return
	}

	WriteSuccess(w, item, nil)
}

// Create handles POST /admin/notices.
func (h *NoticesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	item, err := h.queries.CreateNotice(r.Context(), store.CreateNoticeParams{
		Title:    req.Title,
		Body:     req.Body,
		State:    publish.Transition(publish.Draft(), req.Published, time.Now()),
		AuthorID: middleware.GetUserID(r),
	})
	if err != nil {
		slog.Error("failed to create notice", "error", err)
		WriteInternalError(w, "Failed to create notice")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"Notice created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"notice_id": item.ID})

	WriteCreated(w, item)
}

// Update handles PUT /admin/notices/{id}.
func (h *NoticesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid notice ID", nil)
		return
	}

	current, err := h.queries.GetNoticeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Notice not found")
			return
		}
		slog.Error("failed to get notice", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve notice")
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

	item, err := h.queries.UpdateNotice(r.Context(), store.UpdateNoticeParams{
		ID:       id,
		Title:    req.Title,
		Body:     req.Body,
		State:    state,
		AuthorID: current.AuthorID,
	})
	if err != nil {
		slog.Error("failed to update notice", "error", err, "id", id)
		WriteInternalError(w, "Failed to update notice")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"Notice updated", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"notice_id": item.ID})

	WriteSuccess(w, item, nil)
}

// Delete handles DELETE /admin/notices/{id}.
func (h *NoticesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid notice ID", nil)
		return
	}

	if err := h.queries.DeleteNotice(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Notice not found")
			return
		}
		slog.Error("failed to delete notice", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete notice")
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"Notice deleted", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"notice_id": id})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
