// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package database is the DuckDB implementation of store.Store.
//
// # Files
//
//   - database.go: connection lifecycle (open, pool, checkpoint, close)
//   - database_connection.go: pool tuning and DuckDB error classification
//   - database_schema.go: table, sequence and index creation
//   - crud_users.go, crud_salons.go, crud_catalog.go: account and catalog CRUD
//   - crud_appointments.go: slot reservation and cancellation
//   - crud_queue.go: walk-in queue persistence
//
// # Slot reservation
//
// DuckDB has no partial unique indexes, so active slots live in their own
// table, slot_reservations, keyed by "salon|date|time". ReserveSlot inserts
// the reservation and the appointment in one transaction; the primary key on
// slot_key makes the second concurrent booking fail with a constraint error,
// which is reported as models.ErrSlotTaken. Cancelling deletes the reservation
// row in the same transaction that flips the appointment status.
//
// # Queue
//
// queue_entries carries UNIQUE (salon_id, user_id) for the one-entry-per-user
// rule and draws seq from the queue_seq sequence so (joined_at, seq) is a
// total order. PopQueueHead is a single DELETE ... RETURNING statement.
//
// # Transaction conflicts
//
// DuckDB uses optimistic concurrency. Writes that lose a write-write race fail
// with a transaction conflict and are retried with a short exponential backoff
// (see withRetry).
package database
