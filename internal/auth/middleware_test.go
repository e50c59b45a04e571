// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/models"
)

func whoami(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("handler reached without claims")
			return
		}
		_, _ = w.Write([]byte(claims.UserID))
	})
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, token, err := svc.Register(ctx, RegisterInput{Name: "Cat", Email: "cat@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, revokedToken, _ := svc.Login(ctx, "cat@example.com", "password123")
	revokedClaims, _ := svc.jwt.ValidateToken(revokedToken.AccessToken)
	_ = svc.Logout(ctx, revokedClaims)

	mw := NewMiddleware(svc.jwt, svc.sessions, AuthModeJWT, nil)
	handler := mw.Authenticate(whoami(t))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token.AccessToken) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token.AccessToken}) }, http.StatusOK},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }, http.StatusUnauthorized},
		{"revoked", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+revokedToken.AccessToken) }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestAuthenticateNoneMode(t *testing.T) {
	mw := NewMiddleware(nil, nil, AuthModeNone, nil)
	rec := httptest.NewRecorder()
	mw.Authenticate(whoami(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != DevClaims.UserID {
		t.Errorf("none mode = %d %q, want 200 %q", rec.Code, rec.Body.String(), DevClaims.UserID)
	}
}

func TestAuthenticateUserRateLimit(t *testing.T) {
	svc, _ := newTestService(t)
	_, token, _ := svc.Register(context.Background(), RegisterInput{Name: "Dan", Email: "dan@example.com", Password: "password123"})
	mw := NewMiddleware(svc.jwt, svc.sessions, AuthModeJWT, NewUserRateLimiter(2, time.Hour))
	handler := mw.Authenticate(whoami(t))

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}
}

func TestRequireRole(t *testing.T) {
	mw := NewMiddleware(nil, nil, AuthModeJWT, nil)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := mw.RequireRole(models.RoleStylist, models.RoleAdmin)(ok)

	tests := []struct {
		name   string
		claims *Claims
		status int
	}{
		{"no claims", nil, http.StatusUnauthorized},
		{"customer", &Claims{UserID: "u", Role: models.RoleCustomer}, http.StatusForbidden},
		{"stylist", &Claims{UserID: "u", Role: models.RoleStylist}, http.StatusOK},
		{"admin", &Claims{UserID: "u", Role: models.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(ContextWithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestUserRateLimiterCleanup(t *testing.T) {
	rl := NewUserRateLimiter(5, time.Millisecond)
	rl.Allow("a")
	rl.Allow("b")
	time.Sleep(5 * time.Millisecond)
	if n := rl.Cleanup(); n != 2 {
		t.Errorf("Cleanup() = %d, want 2", n)
	}
}
