// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"govportal/internal/store"
)

// EventsHandler serves the audit log to administrators.
type EventsHandler struct {
	queries *store.Queries
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB) *EventsHandler {
	return &EventsHandler{queries: store.New(db)}
}

// List handles GET /admin/events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	events, err := h.queries.ListEvents(r.Context(), int64(perPage), int64((page-1)*perPage))
	if err != nil {
		slog.Error("failed to list events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}

	total, err := h.queries.CountEvents(r.Context())
	if err != nil {
		slog.Error("failed to count events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}

	WriteSuccess(w, events, paginationMeta(total, page, perPage))
}
