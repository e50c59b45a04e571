// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/salonbook/internal/models"
)

// SchemaVersion is the current event schema version.
const SchemaVersion = 1

// Topic is the Watermill topic (and NATS subject) for all domain events.
const Topic = "salon.events"

// Event types.
const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
	EventQueueJoined          = "queue.joined"
	EventQueueLeft            = "queue.left"
	EventQueueServed          = "queue.served"
	EventQueueRemoved         = "queue.removed"
	EventQueueReset           = "queue.reset"
)

var knownEventTypes = map[string]bool{
	EventAppointmentBooked:    true,
	EventAppointmentCancelled: true,
	EventQueueJoined:          true,
	EventQueueLeft:            true,
	EventQueueServed:          true,
	EventQueueRemoved:         true,
	EventQueueReset:           true,
}

// DomainEvent announces a committed change to appointments or a queue.
// Queue events carry the queue snapshot taken right after the change.
type DomainEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	SalonID       string    `json:"salon_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`

	Appointment *models.Appointment   `json:"appointment,omitempty"`
	Entry       *models.QueueEntry    `json:"entry,omitempty"`
	Queue       *models.QueueSnapshot `json:"queue,omitempty"`
}

// NewDomainEvent creates an event with a fresh ID and the current UTC time.
func NewDomainEvent(eventType, salonID string) *DomainEvent {
	return &DomainEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Type:          eventType,
		SalonID:       salonID,
		Timestamp:     time.Now().UTC(),
	}
}

// NewAppointmentEvent builds an appointment.* event.
func NewAppointmentEvent(eventType string, appt *models.Appointment) *DomainEvent {
	e := NewDomainEvent(eventType, appt.SalonID)
	e.UserID = appt.UserID
	e.Appointment = appt
	return e
}

// NewQueueEvent builds a queue.* event. entry may be nil for resets.
func NewQueueEvent(eventType, salonID string, entry *models.QueueEntry, snapshot *models.QueueSnapshot) *DomainEvent {
	e := NewDomainEvent(eventType, salonID)
	if entry != nil {
		e.UserID = entry.UserID
		e.Entry = entry
	}
	e.Queue = snapshot
	return e
}

// IsQueueEvent reports whether the event changes a salon queue.
func (e *DomainEvent) IsQueueEvent() bool {
	switch e.Type {
	case EventQueueJoined, EventQueueLeft, EventQueueServed, EventQueueRemoved, EventQueueReset:
		return true
	}
	return false
}

// Validate checks the fields every consumer relies on.
func (e *DomainEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if !knownEventTypes[e.Type] {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.SalonID == "" && e.Type != EventQueueReset {
		return fmt.Errorf("salon_id is required for %s", e.Type)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}
