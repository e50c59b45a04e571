// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package queue implements per-salon walk-in queues.
//
// Entries are ordered by join time, ties broken by a store-assigned sequence
// number. A participant's position is their 1-based rank and their estimated
// wait is WaitPerPosition times (rank - 1). A user holds at most one entry
// per salon. Every change publishes a queue.* event carrying the snapshot
// taken right after the change, which the event relay pushes to WebSocket
// clients.
//
// ResetService empties every queue once a day at the configured local time.
package queue
