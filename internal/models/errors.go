// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package models

import "errors"

// Sentinel errors returned by stores and services. Callers match them with
// errors.Is; the API layer maps each to an HTTP status.
var (
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken means another active appointment already holds the slot.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrInvalidSlot means the time is not on the salon's daily calendar.
	ErrInvalidSlot = errors.New("time is not a bookable slot")

	// ErrInvalidDate means the date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrPastDate means the slot has already started.
	ErrPastDate = errors.New("cannot book a slot in the past")

	ErrAlreadyCancelled = errors.New("appointment already cancelled")

	// ErrAlreadyQueued means the user already holds an entry in this salon's queue.
	ErrAlreadyQueued = errors.New("already in queue")

	ErrNotQueued  = errors.New("not in queue")
	ErrQueueEmpty = errors.New("queue is empty")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
)
