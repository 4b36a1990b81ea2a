// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"govportal/internal/auth"
	"govportal/internal/middleware"
	"govportal/internal/model"
	"govportal/internal/service"
	"govportal/internal/store"
)

// UsersHandler handles user provisioning. All routes are admin-only;
// accounts are never deleted automatically.
type UsersHandler struct {
	queries      *store.Queries
	eventService *service.EventService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB) *UsersHandler {
	return &UsersHandler{
		queries:      store.New(db),
		eventService: service.NewEventService(db),
	}
}

// userInfo strips the password hash from a user for responses.
func userInfo(u model.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		Name:     u.Name,
	}
}

// List handles GET /admin/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		WriteInternalError(w, "Failed to list users")
		return
	}

	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, userInfo(u))
	}
	WriteSuccess(w, infos, nil)
}

// CreateUserRequest is the request body for provisioning a user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

const minPasswordLength = 8

// Create handles POST /admin/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := make(map[string]string)
	if req.Username == "" {
		fieldErrors["username"] = "required"
	}
	if len(req.Password) < minPasswordLength {
		fieldErrors["password"] = "must be at least 8 characters"
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		fieldErrors["role"] = "must be admin or user"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	u, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
		Name:         req.Name,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			WriteConflict(w, "A user with this username already exists")
			return
		}
		slog.Error("failed to create user", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"User created", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"created_user_id": u.ID, "role": string(u.Role)})

	WriteCreated(w, userInfo(u))
}

// UpdatePasswordRequest is the request body for a password change.
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// UpdatePassword handles PUT /admin/users/{id}/password.
func (h *UsersHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	if _, err := h.queries.GetUserByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		slog.Error("failed to get user", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve user")
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteValidationError(w, map[string]string{"password": "must be at least 8 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		WriteInternalError(w, "Failed to update password")
		return
	}

	if err := h.queries.UpdateUserPassword(r.Context(), id, hash); err != nil {
		slog.Error("failed to update password", "error", err, "id", id)
		WriteInternalError(w, "Failed to update password")
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"Password changed", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"target_user_id": id})

	WriteSuccess(w, map[string]string{"status": "password_updated"}, nil)
}

// UpdateRoleRequest is the request body for a role change.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole handles PUT /admin/users/{id}/role. An already-issued token
// keeps its old role claim until it expires.
func (h *UsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	if _, err := h.queries.GetUserByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "User not found")
			return
		}
		slog.Error("failed to get user", "error", err, "id", id)
		WriteInternalError(w, "Failed to retrieve user")
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		WriteValidationError(w, map[string]string{"role": "must be admin or user"})
		return
	}

	if err := h.queries.UpdateUserRole(r.Context(), id, role); err != nil {
		slog.Error("failed to update role", "error", err, "id", id)
		WriteInternalError(w, "Failed to update role")
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"Role changed", middleware.GetUserIDPtr(r), middleware.GetClientIP(r),
		map[string]any{"target_user_id": id, "new_role": string(role)})

	WriteSuccess(w, map[string]string{"status": "role_updated"}, nil)
}
