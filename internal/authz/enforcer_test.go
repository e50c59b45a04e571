// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package authz

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/auth"
	"github.com/tomtom215/salonbook/internal/models"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEmbeddedPolicy(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		role   string
		path   string
		method string
		want   bool
	}{
		{models.RoleCustomer, "/api/v1/salons", "GET", true},
		{models.RoleCustomer, "/api/v1/salons", "POST", false},
		{models.RoleCustomer, "/api/v1/salons/s1/slots", "GET", true},
		{models.RoleCustomer, "/api/v1/appointments", "POST", true},
		{models.RoleCustomer, "/api/v1/appointments/a1", "DELETE", true},
		{models.RoleCustomer, "/api/v1/queue/s1/join", "POST", true},
		{models.RoleCustomer, "/api/v1/queue/s1/leave", "DELETE", true},
		{models.RoleCustomer, "/api/v1/queue/s1/next", "POST", false},
		{models.RoleCustomer, "/api/v1/queue/s1/entries/e1", "DELETE", false},
		{models.RoleCustomer, "/api/v1/salons/s1/appointments", "GET", false},
		{models.RoleStylist, "/api/v1/queue/s1/next", "POST", true},
		{models.RoleStylist, "/api/v1/queue/s1/entries/e1", "DELETE", true},
		{models.RoleStylist, "/api/v1/queue/s1/join", "POST", true},
		{models.RoleStylist, "/api/v1/salons/s1/services", "POST", true},
		{models.RoleStylist, "/api/v1/salons/s1", "DELETE", false},
		{models.RoleStylist, "/api/v1/products", "POST", false},
		{models.RoleAdmin, "/api/v1/salons/s1", "DELETE", true},
		{models.RoleAdmin, "/api/v1/products", "POST", true},
		{models.RoleAdmin, "/api/v1/queue/s1/next", "POST", true},
		{"intruder", "/api/v1/salons", "GET", false},
	}

	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.path, tt.method)
		if err != nil {
			t.Fatalf("Enforce(%s %s %s) error = %v", tt.role, tt.method, tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%s %s %s) = %v, want %v", tt.role, tt.method, tt.path, got, tt.want)
		}
	}
}

func TestImplicitRoles(t *testing.T) {
	e := newTestEnforcer(t)
	roles, err := e.ImplicitRoles(models.RoleAdmin)
	if err != nil {
		t.Fatalf("ImplicitRoles() error = %v", err)
	}
	seen := map[string]bool{}
	for _, r := range roles {
		seen[r] = true
	}
	for _, want := range []string{models.RoleAdmin, models.RoleStylist, models.RoleCustomer} {
		if !seen[want] {
			t.Errorf("ImplicitRoles(admin) = %v, missing %s", roles, want)
		}
	}
}

func TestPolicyFromFile(t *testing.T) {
	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(policy, []byte("p, customer, /api/v1/salons, GET\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := NewEnforcer(&EnforcerConfig{PolicyPath: policy})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if ok, _ := e.Enforce(models.RoleCustomer, "/api/v1/salons", "GET"); !ok {
		t.Error("file policy not applied")
	}
	if ok, _ := e.Enforce(models.RoleAdmin, "/api/v1/salons", "GET"); ok {
		t.Error("embedded policy leaked into file policy")
	}
}

func TestLoadPolicyRejectsMalformedLine(t *testing.T) {
	e := newTestEnforcer(t)
	if err := loadPolicy(e.enforcer, "p, customer\n"); err == nil {
		t.Error("loadPolicy(short line) = nil error, want error")
	}
}

func TestDecisionCache(t *testing.T) {
	c := newDecisionCache(time.Hour)
	defer c.stop()

	if _, ok := c.get("r", "/x", "GET"); ok {
		t.Error("get() on empty cache hit")
	}
	c.set("r", "/x", "GET", true)
	if allowed, ok := c.get("r", "/x", "GET"); !ok || !allowed {
		t.Errorf("get() = %v, %v, want true, true", allowed, ok)
	}
	c.sweep(time.Now().Add(2 * time.Hour))
	if c.len() != 0 {
		t.Errorf("len() after sweep = %d, want 0", c.len())
	}
	c.stop()
}

func TestAuthorizeMiddleware(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t))
	handler := mw.Authorize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		role   string
		method string
		path   string
		status int
	}{
		{"anonymous", "", http.MethodGet, "/api/v1/salons", http.StatusUnauthorized},
		{"customer reads salons", models.RoleCustomer, http.MethodGet, "/api/v1/salons", http.StatusNoContent},
		{"customer serves queue", models.RoleCustomer, http.MethodPost, "/api/v1/queue/s1/next", http.StatusForbidden},
		{"stylist serves queue", models.RoleStylist, http.MethodPost, "/api/v1/queue/s1/next", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req = req.WithContext(auth.ContextWithClaims(req.Context(), &auth.Claims{UserID: "u", Role: tt.role}))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
