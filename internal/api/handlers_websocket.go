// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/salonbook/internal/logging"
	ws "github.com/tomtom215/salonbook/internal/websocket"
)

// WebSocket upgrades the connection and subscribes it to pushes. The
// optional salon_id query parameter limits delivery to one salon.
//
// @Summary Live updates
// @Description Pushes queue_updated, appointment_booked and appointment_cancelled messages.
// @Tags Realtime
// @Param salon_id query string false "Only receive updates for this salon"
// @Success 101
// @Security BearerAuth
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable")
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn, strings.TrimSpace(r.URL.Query().Get("salon_id")))
	client.Start()
}

// checkWebSocketOrigin accepts native clients, which send no Origin, and
// browsers whose origin is in the CORS allow list.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	var allowed []string
	if h.config != nil {
		allowed = h.config.Security.CORSOrigins
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}

	logging.Ctx(r.Context()).Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket origin rejected")
	return false
}
