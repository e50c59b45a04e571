// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry through promauto at
// package init. Record* helpers keep label sets consistent across callers.
//
// Families:
//   - api_*: request counts, latency, in-flight requests, rate-limit rejections
//   - booking_*: reservation outcomes and cancellations
//   - queue_*: queue operations, per-salon length, daily resets
//   - websocket_*: connected clients and pushed messages
//   - events_*: domain events published and relayed
//   - circuit_breaker_*: breaker state for the event publisher and lookup client
//   - product_lookup_* and cache_*: Open Beauty Facts lookups and the response cache
package metrics
