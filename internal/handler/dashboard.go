// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"govportal/internal/middleware"
	"govportal/internal/store"
)

// DashboardHandler serves the admin landing view.
type DashboardHandler struct {
	queries *store.Queries
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db *sql.DB) *DashboardHandler {
	return &DashboardHandler{queries: store.New(db)}
}

// DashboardStats summarizes content counts for the admin dashboard.
type DashboardStats struct {
	Pages        ContentCount `json:"pages"`
	News         ContentCount `json:"news"`
	Notices      ContentCount `json:"notices"`
	Procurements int64        `json:"procurements"`
	Contractors  int64        `json:"contractors"`
	CurrentUser  UserInfo     `json:"current_user"`
}

// ContentCount is a total/published pair for a content type.
type ContentCount struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

// Dashboard handles GET /admin/dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var stats DashboardStats
	var err error

	if stats.Pages.Total, err = h.queries.CountPages(ctx, false); err == nil {
		stats.Pages.Published, err = h.queries.CountPages(ctx, true)
	}
	if err == nil {
		stats.News.Total, err = h.queries.CountNews(ctx, false)
	}
	if err == nil {
		stats.News.Published, err = h.queries.CountNews(ctx, true)
	}
	if err == nil {
		stats.Notices.Total, err = h.queries.CountNotices(ctx, false)
	}
	if err == nil {
		stats.Notices.Published, err = h.queries.CountNotices(ctx, true)
	}
	if err == nil {
		stats.Procurements, err = h.queries.CountProcurements(ctx)
	}
	if err == nil {
		stats.Contractors, err = h.queries.CountContractors(ctx)
	}
	if err != nil {
		slog.Error("failed to build dashboard", "error", err)
		WriteInternalError(w, "Failed to load dashboard")
		return
	}

	if session := middleware.GetSession(r); session != nil {
		stats.CurrentUser = UserInfo{
			ID:       session.UserID,
			Username: session.Username,
			Role:     string(session.Role),
			Name:     session.Name,
		}
	}

	WriteSuccess(w, stats, nil)
}
