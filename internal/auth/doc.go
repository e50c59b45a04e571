// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

/*
Package auth provides registration, login, sessions and authentication
middleware.

Key Components:

  - JWTManager: HS256 token generation and validation. The token ID (jti)
    is the session ID.
  - SessionStore: BadgerDB-backed session records with TTL. Logout deletes
    the session, which revokes every token carrying its ID.
  - Service: Register, Login, Logout, Me and admin bootstrap on top of a
    store.Users implementation. Passwords are bcrypt hashed at cost 12.
  - Middleware: reads a Bearer token or the HttpOnly "token" cookie, checks
    the session, stores Claims in the request context and applies a
    per-user token bucket (golang.org/x/time/rate).

Authentication Modes:

  - jwt (default): every protected route requires a valid token.
  - none: development only; requests run as a fixed admin subject.

Usage Example:

	sessions, err := auth.OpenBadgerSessionStore(cfg.Security.SessionStorePath)
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	svc := auth.NewService(st, jwtManager, sessions)
	mw := auth.NewMiddleware(jwtManager, sessions, cfg.Security.AuthMode, limiter)

	r.With(mw.Authenticate).Get("/api/v1/auth/me", handler.Me)
*/
package auth
