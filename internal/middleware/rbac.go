// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"govportal/internal/model"
	"govportal/internal/service"
)

// APIError represents a JSON error response.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// RequireRole creates middleware that requires an exact role match. The
// role claim is a closed set; an unrecognized value is rejected the same
// way as a mismatch. A failure here is a terminal 403, not a redirect,
// because the caller is already known to be authenticated.
func RequireRole(required model.Role) func(http.Handler) http.Handler {
	return RequireRoleWithEventLog(required, nil)
}

// RequireRoleWithEventLog is RequireRole with denials mirrored into the
// audit event log when eventService is provided.
func RequireRoleWithEventLog(required model.Role, eventService *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r)
			if session == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			role, known := model.ParseRole(string(session.Role))
			if !known || role != required {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", session.UserID,
					"user_role", session.Role,
					"required_role", required,
					"remote_addr", r.RemoteAddr,
				)

				if eventService != nil {
					userID := session.UserID
					metadata := map[string]any{
						"method":        r.Method,
						"status":        http.StatusForbidden,
						"path":          r.URL.Path,
						"user_role":     string(session.Role),
						"required_role": string(required),
					}
					_ = eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
						"Access denied: insufficient permissions", &userID, r.RemoteAddr, metadata)
				}

				WriteAPIError(w, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires the admin role.
// Shorthand for RequireRole(model.RoleAdmin).
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// RequireAdminWithEventLog creates middleware that requires the admin role
// with denials recorded in the event log.
func RequireAdminWithEventLog(eventService *service.EventService) func(http.Handler) http.Handler {
	return RequireRoleWithEventLog(model.RoleAdmin, eventService)
}
