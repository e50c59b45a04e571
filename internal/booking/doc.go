// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package booking implements appointment reservation against a fixed daily
// slot calendar.
//
// The calendar runs from booking.open to booking.close in steps of
// booking.slot_minutes, in the booking timezone. A slot is identified by
// (salon, date, time); the store guarantees that at most one booked
// appointment holds a slot, so Book never checks availability first and
// concurrent requests for the same slot produce exactly one winner. Losers
// get models.ErrSlotTaken.
package booking
