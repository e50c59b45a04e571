// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package middleware provides HTTP middleware shared by the API router.
//
// All middleware here use the func(http.HandlerFunc) http.HandlerFunc shape;
// the router adapts them to chi with a one-line wrapper.
//
//   - RequestID: X-Request-ID propagation plus request and correlation IDs
//     in the logging context
//   - PrometheusMetrics: request counts, latency and in-flight gauge, labelled
//     by chi route pattern so path IDs do not explode label cardinality
//   - AccessLog: one zerolog line per request
//   - Compression: pooled gzip for clients that accept it, skipping
//     WebSocket upgrades
//
// The response writer wrappers implement http.Hijacker and http.Flusher so
// WebSocket upgrades pass through them.
package middleware
