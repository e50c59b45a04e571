// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonbook/internal/auth"
	"github.com/tomtom215/salonbook/internal/logging"
)

// Middleware enforces the policy on every request. It must run after
// auth.Middleware.Authenticate.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize checks the caller's role against the request path and method.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		allowed, err := m.enforcer.Enforce(claims.Role, r.URL.Path, r.Method)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization failed")
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Debug().
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("Request denied by policy")
			writeError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // response already committed
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
