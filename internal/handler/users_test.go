// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"govportal/internal/auth"
	"govportal/internal/model"
	"govportal/internal/store"
)

func usersRouter(db *sql.DB) http.Handler {
	uh := NewUsersHandler(db)

	r := chi.NewRouter()
	r.Route("/admin/users", func(r chi.Router) {
		r.Get("/", uh.List)
		r.Post("/", uh.Create)
		r.Put("/{id}/password", uh.UpdatePassword)
		r.Put("/{id}/role", uh.UpdateRole)
	})
	return r
}

func TestCreateUserProvisioning(t *testing.T) {
	db := testDB(t)
	router := usersRouter(db)

	rec := doJSON(t, router, http.MethodPost, "/admin/users", CreateUserRequest{
		Username: "b.erdene",
		Password: "a-long-password",
		Role:     "user",
		Name:     "B. Erdene",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body)
	}

	created := decodeData[UserInfo](t, rec)
	if created.Username != "b.erdene" || created.Role != "user" {
		t.Errorf("created = %+v", created)
	}

	// Password is stored hashed and verifiable.
	u, err := store.New(db).GetUserByUsername(context.Background(), "b.erdene")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	ok, err := auth.CheckPassword("a-long-password", u.PasswordHash)
	if err != nil || !ok {
		t.Errorf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := testDB(t)
	router := usersRouter(db)

	req := CreateUserRequest{Username: "clerk", Password: "a-long-password", Role: "user"}
	if rec := doJSON(t, router, http.MethodPost, "/admin/users", req); rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodPost, "/admin/users", req); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	db := testDB(t)
	router := usersRouter(db)

	rec := doJSON(t, router, http.MethodPost, "/admin/users", CreateUserRequest{
		Username: "clerk",
		Password: "a-long-password",
		Role:     "superuser",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestUpdateRole(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "clerk", "a-long-password", model.RoleUser)
	router := usersRouter(db)

	rec := doJSON(t, router, http.MethodPut,
		"/admin/users/"+itoa(user.ID)+"/role", UpdateRoleRequest{Role: "admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body)
	}

	updated, err := store.New(db).GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if updated.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", updated.Role)
	}
}

func TestUpdatePasswordRejectsShort(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "clerk", "a-long-password", model.RoleUser)
	router := usersRouter(db)

	rec := doJSON(t, router, http.MethodPut,
		"/admin/users/"+itoa(user.ID)+"/password", UpdatePasswordRequest{Password: "short"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
