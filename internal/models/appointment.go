// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package models

import "time"

// Appointment statuses. Only StatusBooked holds a slot.
const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// DateLayout is the wire and storage format of appointment dates.
const DateLayout = "2006-01-02"

// Appointment is a reservation of one slot in a salon's daily calendar.
type Appointment struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SalonID     string     `json:"salon_id"`
	ServiceID   string     `json:"service_id,omitempty"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Time        string     `json:"time"` // HH:MM, a calendar slot
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Active reports whether the appointment still holds its slot.
func (a *Appointment) Active() bool {
	return a.Status == StatusBooked
}

// SlotKey identifies a (salon, date, time) slot. At most one active
// appointment may carry a given key.
func (a *Appointment) SlotKey() string {
	return SlotKey(a.SalonID, a.Date, a.Time)
}

// SlotKey builds the reservation key for a slot.
func SlotKey(salonID, date, slot string) string {
	return salonID + "|" + date + "|" + slot
}

// SlotStatus is one entry of a day's availability listing.
type SlotStatus struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DayAvailability is the full calendar for one salon on one date.
type DayAvailability struct {
	SalonID string       `json:"salon_id"`
	Date    string       `json:"date"`
	Slots   []SlotStatus `json:"slots"`
}
