// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAccountLockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	username := "clerk"

	if locked, _ := lp.IsAccountLocked(username); locked {
		t.Fatal("fresh account should not be locked")
	}

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(username); locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}

	locked, dur := lp.RecordFailedAttempt(username)
	if !locked {
		t.Fatal("expected lockout on third failed attempt")
	}
	if dur != time.Minute {
		t.Errorf("lock duration = %v, want %v", dur, time.Minute)
	}

	if locked, _ := lp.IsAccountLocked(username); !locked {
		t.Error("account should report locked")
	}
}

func TestLockoutExponentialBackoff(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 1,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Hour,
	})

	_, first := lp.RecordFailedAttempt("clerk")
	_, second := lp.RecordFailedAttempt("clerk")

	if second != 2*first {
		t.Errorf("second lockout = %v, want %v", second, 2*first)
	}
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig())

	lp.RecordFailedAttempt("clerk")
	lp.RecordFailedAttempt("clerk")

	if got := lp.GetRemainingAttempts("clerk"); got != 3 {
		t.Fatalf("remaining = %d, want 3", got)
	}

	lp.RecordSuccessfulLogin("clerk")

	if got := lp.GetRemainingAttempts("clerk"); got != 5 {
		t.Errorf("remaining after success = %d, want 5", got)
	}
}

func TestLoginRateLimitMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       0.001, // effectively one request
		IPBurst:           1,
		MaxFailedAttempts: 5,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", code, http.StatusOK)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want %d", code, http.StatusTooManyRequests)
	}

	// GET requests are never rate limited
	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		realIP   string
		fwdFor   string
		remote   string
		expected string
	}{
		{"X-Real-IP wins", "198.51.100.1", "198.51.100.2", "10.0.0.1:80", "198.51.100.1"},
		{"X-Forwarded-For fallback", "", "198.51.100.2", "10.0.0.1:80", "198.51.100.2"},
		{"RemoteAddr last resort", "", "", "10.0.0.1:80", "10.0.0.1:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.fwdFor != "" {
				req.Header.Set("X-Forwarded-For", tt.fwdFor)
			}
			req.RemoteAddr = tt.remote

			if got := GetClientIP(req); got != tt.expected {
				t.Errorf("GetClientIP = %q, want %q", got, tt.expected)
			}
		})
	}
}
