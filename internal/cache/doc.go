// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package cache provides a bounded, expiring LRU cache.
//
// LRU[V] keeps at most capacity entries; the least recently used entry is
// evicted when a new key would exceed it. Entries expire lazily on Get and
// in bulk through CleanupExpired. Hits and misses are counted locally and
// reported to Prometheus under the cache's name.
//
// It backs the Open Beauty Facts lookup client, where both found products
// and "not found" answers are cached to keep repeated scans off the network.
package cache
