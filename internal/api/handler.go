// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/salonbook/internal/auth"
	"github.com/tomtom215/salonbook/internal/beautyfacts"
	"github.com/tomtom215/salonbook/internal/booking"
	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/queue"
	"github.com/tomtom215/salonbook/internal/store"
	ws "github.com/tomtom215/salonbook/internal/websocket"
)

// Version is reported by the health endpoint.
var Version = "dev"

// EventBusStatus reports the state of the event bus for health checks.
type EventBusStatus interface {
	// Mode is "nats" or "in-process".
	Mode() string
	Healthy(ctx context.Context) bool
	CircuitState() string
}

// Deps are the collaborators of Handler. Products and Events may be nil.
type Deps struct {
	Store    store.Store
	Auth     *auth.Service
	Bookings *booking.Service
	Queue    *queue.Service
	Products *beautyfacts.Client
	Hub      *ws.Hub
	Events   EventBusStatus
	Config   *config.Config
}

// Handler serves every API endpoint.
type Handler struct {
	store     store.Store
	auth      *auth.Service
	bookings  *booking.Service
	queue     *queue.Service
	products  *beautyfacts.Client
	hub       *ws.Hub
	events    EventBusStatus
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		store:     d.Store,
		auth:      d.Auth,
		bookings:  d.Bookings,
		queue:     d.Queue,
		products:  d.Products,
		hub:       d.Hub,
		events:    d.Events,
		config:    d.Config,
		startTime: time.Now(),
	}
}

// claims returns the authenticated caller or writes 401.
func (h *Handler) claims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	c, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return nil, false
	}
	return c, true
}

func (h *Handler) pageBounds() (int, int) {
	def, maxSize := 20, 100
	if h.config != nil {
		if h.config.API.DefaultPageSize > 0 {
			def = h.config.API.DefaultPageSize
		}
		if h.config.API.MaxPageSize > 0 {
			maxSize = h.config.API.MaxPageSize
		}
	}
	return def, maxSize
}

func (h *Handler) tokenCookie(r *http.Request, value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}
