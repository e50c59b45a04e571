// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreConnected bool    `json:"store_connected"`
	StoreDriver    string  `json:"store_driver,omitempty"`
	EventBus       string  `json:"event_bus"`
	EventBusOK     bool    `json:"event_bus_healthy"`
	PublishCircuit string  `json:"publish_circuit"`
	LookupCircuit  string  `json:"lookup_circuit,omitempty"`
	WSClients      int     `json:"websocket_clients"`
	Uptime         float64 `json:"uptime_seconds"`
}

// Health reports store, event bus and breaker status.
//
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:         "healthy",
		Version:        Version,
		StoreConnected: h.store != nil && h.store.Ping(r.Context()) == nil,
		EventBus:       "disabled",
		PublishCircuit: "disabled",
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	if h.config != nil {
		status.StoreDriver = h.config.Database.Driver
	}
	if h.events != nil {
		status.EventBus = h.events.Mode()
		status.EventBusOK = h.events.Healthy(r.Context())
		status.PublishCircuit = h.events.CircuitState()
	}
	if h.products != nil && h.products.Enabled() {
		status.LookupCircuit = h.products.BreakerState()
	}
	if h.hub != nil {
		status.WSClients = h.hub.GetClientCount()
	}

	if !status.StoreConnected || (h.events != nil && !status.EventBusOK) {
		status.Status = "degraded"
	}

	NewResponseWriter(w, r).Success(status)
}

// HealthLive always succeeds while the process serves HTTP.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 503 until the store answers.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeOK := h.store != nil && h.store.Ping(r.Context()) == nil
	data := map[string]interface{}{
		"store_connected": storeOK,
		"ready_to_serve":  storeOK,
	}

	rw := NewResponseWriter(w, r)
	if !storeOK {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "store unavailable", data)
		return
	}
	rw.Success(data)
}
