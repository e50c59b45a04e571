// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package models defines the domain types shared by the store, service and
// API layers: users and roles, salons and their catalogs, appointments in the
// fixed daily slot calendar, walk-in queue entries, and the sentinel errors
// those layers use to signal conflicts.
package models
