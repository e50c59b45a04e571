// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/salonbook/internal/models"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"tier"}, // auth, login, write, api, health, user
	)

	// Booking Metrics
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Appointment booking attempts by outcome",
		},
		[]string{"result"}, // booked, slot_taken, invalid, error
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_cancellations_total",
			Help: "Total number of cancelled appointments",
		},
	)

	// Queue Metrics
	QueueOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_operations_total",
			Help: "Walk-in queue operations by outcome",
		},
		[]string{"operation", "result"}, // join, leave, remove, serve
	)

	QueueLength = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "queue_length",
			Help: "Current walk-in queue length per salon",
		},
		[]string{"salon_id"},
	)

	QueueResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_daily_resets_total",
			Help: "Total number of daily queue resets",
		},
	)

	// WebSocket Metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WebSocketMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages delivered to clients",
		},
		[]string{"type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events published to the event bus",
		},
		[]string{"type", "result"},
	)

	EventsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_relayed_total",
			Help: "Domain events relayed from the event bus to WebSocket clients",
		},
		[]string{"type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Product Lookup Metrics
	ProductLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_lookup_requests_total",
			Help: "Open Beauty Facts lookups by outcome",
		},
		[]string{"result"}, // found, not_found, error, rejected
	)

	ProductLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "product_lookup_duration_seconds",
			Help:    "Open Beauty Facts upstream latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Auth Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Login and registration attempts by outcome",
		},
		[]string{"operation", "result"},
	)

	// Authorization Metrics
	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization decisions by role and outcome",
		},
		[]string{"role", "decision"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a 429 from the given limiter tier.
func RecordRateLimitHit(tier string) {
	APIRateLimitHits.WithLabelValues(tier).Inc()
}

// RecordBooking classifies a Book outcome.
func RecordBooking(err error) {
	BookingsTotal.WithLabelValues(bookingResult(err)).Inc()
}

func bookingResult(err error) string {
	switch {
	case err == nil:
		return "booked"
	case errors.Is(err, models.ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, models.ErrInvalidSlot), errors.Is(err, models.ErrPastDate),
		errors.Is(err, models.ErrInvalidDate), errors.Is(err, models.ErrNotFound):
		return "invalid"
	default:
		return "error"
	}
}

// RecordCancellation counts a successful cancel.
func RecordCancellation() {
	CancellationsTotal.Inc()
}

// RecordQueueOperation classifies a queue operation outcome.
func RecordQueueOperation(operation string, err error) {
	QueueOperations.WithLabelValues(operation, queueResult(err)).Inc()
}

func queueResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrAlreadyQueued):
		return "already_queued"
	case errors.Is(err, models.ErrNotQueued):
		return "not_queued"
	case errors.Is(err, models.ErrQueueEmpty):
		return "empty"
	default:
		return "error"
	}
}

// SetQueueLength publishes a salon's current queue length.
func SetQueueLength(salonID string, n int) {
	QueueLength.WithLabelValues(salonID).Set(float64(n))
}

// RecordQueueReset counts a daily reset and zeroes every per-salon gauge.
func RecordQueueReset() {
	QueueResets.Inc()
	QueueLength.Reset()
}

// RecordEventPublish counts a publish attempt.
func RecordEventPublish(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(eventType, result).Inc()
}

// RecordEventRelayed counts an event forwarded to the WebSocket hub.
func RecordEventRelayed(eventType string) {
	EventsRelayed.WithLabelValues(eventType).Inc()
}

// RecordCircuitBreakerTransition records a state change. States are the
// gobreaker names: "closed", "half-open", "open".
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(circuitStateValue(to))
}

func circuitStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordProductLookup records an upstream lookup.
func RecordProductLookup(result string, duration time.Duration) {
	ProductLookups.WithLabelValues(result).Inc()
	if duration > 0 {
		ProductLookupDuration.Observe(duration.Seconds())
	}
}

// RecordCacheAccess records a hit or miss for a named cache.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordAuthAttempt records a login or registration outcome.
func RecordAuthAttempt(operation string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AuthAttempts.WithLabelValues(operation, result).Inc()
}

// RecordAuthzDecision records an allow or deny for role. Cached decisions
// also count against the "authz" cache.
func RecordAuthzDecision(role string, allowed, cached bool) {
	decision := "allow"
	if !allowed {
		decision = "deny"
	}
	AuthzDecisions.WithLabelValues(role, decision).Inc()
	RecordCacheAccess("authz", cached)
}
