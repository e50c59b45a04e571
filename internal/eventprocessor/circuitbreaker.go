// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package eventprocessor

import (
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/metrics"
)

// NewCircuitBreaker creates a circuit breaker that trips after
// FailureThreshold consecutive failures. State changes are logged and
// exported as circuit_breaker_* metrics.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	}

	return gobreaker.NewCircuitBreaker[any](settings)
}

// CircuitBreakerState returns the breaker state as a string for health output.
func CircuitBreakerState(cb *gobreaker.CircuitBreaker[any]) string {
	if cb == nil {
		return "disabled"
	}
	return cb.State().String()
}
