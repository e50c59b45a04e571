// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/metrics"
	"github.com/tomtom215/salonbook/internal/models"
)

type contextKey string

// ClaimsContextKey holds *Claims on authenticated requests.
const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the HttpOnly cookie carrying the access token.
const TokenCookieName = "token"

// Auth modes.
const (
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"
)

// DevClaims is the subject used for every request in "none" mode.
var DevClaims = Claims{UserID: "dev-admin", Email: "dev@localhost", Role: models.RoleAdmin}

// Middleware authenticates requests and rate limits them per user.
type Middleware struct {
	jwtManager *JWTManager
	sessions   SessionStore
	authMode   string
	limiter    *UserRateLimiter
}

// NewMiddleware creates the authentication middleware. limiter may be nil.
func NewMiddleware(jwtManager *JWTManager, sessions SessionStore, authMode string, limiter *UserRateLimiter) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		sessions:   sessions,
		authMode:   authMode,
		limiter:    limiter,
	}
}

// ClaimsFromContext returns the authenticated subject, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// ContextWithClaims stores claims on ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// Authenticate rejects requests without a valid token and live session.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == AuthModeNone {
			dev := DevClaims
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), &dev)))
			return
		}

		token := extractToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		if _, err := m.sessions.Get(r.Context(), claims.SessionID()); err != nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "session expired or revoked")
			return
		}

		if m.limiter != nil && !m.limiter.Allow(claims.UserID) {
			metrics.RecordRateLimitHit("user")
			writeAuthError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireRole allows only the listed roles. It must run after Authenticate.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
		})
	}
}

// extractToken reads the Bearer header, falling back to the cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// writeAuthError writes the same envelope as the API package.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="salonbook"`)
	}
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
