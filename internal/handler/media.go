// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"govportal/internal/middleware"
	"govportal/internal/model"
	"govportal/internal/service"
)

// MediaHandler handles file uploads for editors.
type MediaHandler struct {
	media        *service.MediaService
	eventService *service.EventService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(db *sql.DB, uploadsDir string) *MediaHandler {
	return &MediaHandler{
		media:        service.NewMediaService(uploadsDir),
		eventService: service.NewEventService(db),
	}
}

// Upload handles POST /admin/media. Expects a multipart form with a
// "file" field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "required"})
		return
	}
	defer file.Close()

	stored, err := h.media.Upload(file, header)
	if err != nil {
		slog.Warn("upload rejected", "error", err, "filename", header.Filename)
		WriteValidationError(w, map[string]string{"file": err.Error()})
		return
	}

	_ = h.eventService.LogContentEvent(r.Context(), model.EventLevelInfo,
		"File uploaded", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"uuid": stored.UUID, "filename": stored.Filename, "size": stored.Size})

	WriteCreated(w, stored)
}
