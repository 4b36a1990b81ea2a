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

	"govportal/internal/auth"
	"govportal/internal/middleware"
	"govportal/internal/model"
	"govportal/internal/service"
	"govportal/internal/store"
	"govportal/internal/token"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	queries         *store.Queries
	verifier        *auth.Verifier
	issuer          *token.Issuer
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, issuer *token.Issuer, lp *middleware.LoginProtection) *AuthHandler {
	queries := store.New(db)
	return &AuthHandler{
		queries:         queries,
		verifier:        auth.NewVerifier(queries),
		issuer:          issuer,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
	}
}

// LoginRequest is the request body for POST /admin/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo is the public view of an authenticated user.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// Login handles POST /admin/login. Authentication failures are reported
// with a single generic message regardless of cause, so callers cannot
// probe which usernames exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{
			"username": "required",
			"password": "required",
		})
		return
	}

	ip := middleware.GetClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(req.Username); locked {
			slog.Warn("login attempt on locked account", "ip", ip)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login attempt on locked account", nil, ip,
				map[string]any{"retry_after_seconds": int(remaining.Seconds())})
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"Too many failed attempts. Try again later.", nil)
			return
		}
	}

	user, err := h.verifier.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			if h.loginProtection != nil {
				h.loginProtection.RecordFailedAttempt(req.Username)
			}
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Failed login attempt", nil, ip, nil)
			WriteUnauthorized(w, "Invalid username or password")
			return
		}
		slog.Error("credential verification failed", "error", err)
		WriteInternalError(w, "Authentication unavailable")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(req.Username)
	}

	// Upgrade the stored hash transparently when parameters have changed.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash); err != nil {
				slog.Error("failed to upgrade password hash", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, time.Now()); err != nil {
		slog.Error("failed to record last login", "error", err, "user_id", user.ID)
	}

	tok, err := h.issuer.Issue(user)
	if err != nil {
		slog.Error("failed to issue session token", "error", err)
		WriteInternalError(w, "Authentication unavailable")
		return
	}

	middleware.SetSessionCookie(w, r, tok, int(h.issuer.TTL().Seconds()))

	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User logged in", &user.ID, ip, map[string]any{"username": user.Username})

	WriteSuccess(w, LoginResponse{
		Token:     tok,
		ExpiresAt: time.Now().Add(h.issuer.TTL()),
		User: UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     string(user.Role),
			Name:     user.Name,
		},
	}, nil)
}

// LoginInfo handles GET /admin/login for callers without a session; an
// authenticated caller is redirected to the dashboard before reaching it.
func (h *AuthHandler) LoginInfo(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, map[string]string{"status": "authentication_required"}, nil)
}

// Logout handles POST /admin/logout. Tokens are stateless, so logout only
// clears the cookie; an already-issued token stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, r)

	if session := middleware.GetSession(r); session != nil {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
			"User logged out", &session.UserID, middleware.GetClientIP(r), nil)
	}

	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}
