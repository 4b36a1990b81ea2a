// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"govportal/internal/model"
	"govportal/internal/token"
)

func requestWithSession(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	session := token.Session{
		UserID:   7,
		Username: "clerk",
		Role:     model.Role(role),
		Name:     "Records Clerk",
	}
	ctx := context.WithValue(req.Context(), ContextKeySession, session)
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		required   model.Role
		userRole   string
		wantStatus int
	}{
		{"admin can access admin route", model.RoleAdmin, "admin", http.StatusOK},
		{"user cannot access admin route", model.RoleAdmin, "user", http.StatusForbidden},
		{"unknown role cannot access admin route", model.RoleAdmin, "superuser", http.StatusForbidden},
		{"empty role cannot access admin route", model.RoleAdmin, "", http.StatusForbidden},
		{"user can access user route", model.RoleUser, "user", http.StatusOK},
		{"unknown role cannot access user route", model.RoleUser, "editor", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := RequireRole(tt.required)(handler)

			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, requestWithSession(tt.userRole))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusForbidden {
				var apiErr APIError
				if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if apiErr.Error.Code != "forbidden" {
					t.Errorf("error code = %q, want %q", apiErr.Error.Code, "forbidden")
				}
			}
		})
	}
}

func TestRequireRoleWithoutSession(t *testing.T) {
	mw := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}
