// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"govportal/internal/model"
	"govportal/internal/token"
)

func testIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	return token.NewIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
}

func testUser() model.User {
	return model.User{
		ID:       42,
		Username: "clerk",
		Role:     model.RoleUser,
		Name:     "Records Clerk",
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGateRedirectsWithoutToken(t *testing.T) {
	issuer := testIssuer(t)
	handler := Gate(issuer)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Location = %q, want %q", loc, LoginPath)
	}
}

func TestGateAllowsValidCookie(t *testing.T) {
	issuer := testIssuer(t)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var gotSession *token.Session
	handler := Gate(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = GetSession(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotSession == nil {
		t.Fatal("expected session in context")
	}
	if gotSession.UserID != 42 || gotSession.Username != "clerk" {
		t.Errorf("session = %+v", gotSession)
	}
}

func TestGateAllowsBearerHeader(t *testing.T) {
	issuer := testIssuer(t)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := Gate(issuer)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestGateCookieWinsOverHeader(t *testing.T) {
	issuer := testIssuer(t)

	good, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := Gate(issuer)(okHandler())

	// A garbage cookie must not be rescued by a valid Bearer header.
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-token"})
	req.Header.Set("Authorization", "Bearer "+good)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestGateRejectsTamperedToken(t *testing.T) {
	issuer := testIssuer(t)
	other := token.NewIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)

	tok, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := Gate(issuer)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	// The bad cookie is cleared so the browser does not resend it.
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}

func TestGateRejectsExpiredToken(t *testing.T) {
	expired := token.NewIssuer([]byte("0123456789abcdef0123456789abcdef"), -time.Minute)

	tok, err := expired.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := Gate(testIssuer(t))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestRedirectIfAuthenticated(t *testing.T) {
	issuer := testIssuer(t)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := RedirectIfAuthenticated(issuer, "/admin/dashboard")(okHandler())

	t.Run("authenticated caller is redirected away", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/admin/dashboard" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("anonymous caller reaches login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestGetSessionWithoutGate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if s := GetSession(req); s != nil {
		t.Errorf("GetSession = %+v, want nil", s)
	}
	if id := GetUserID(req); id != 0 {
		t.Errorf("GetUserID = %d, want 0", id)
	}
	if p := GetUserIDPtr(req); p != nil {
		t.Errorf("GetUserIDPtr = %v, want nil", p)
	}
}
