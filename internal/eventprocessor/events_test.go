// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package eventprocessor

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/models"
)

func TestDomainEventValidate(t *testing.T) {
	valid := func() *DomainEvent { return NewDomainEvent(EventQueueJoined, "salon-1") }

	tests := []struct {
		name    string
		mutate  func(e *DomainEvent)
		wantErr string
	}{
		{"valid", func(e *DomainEvent) {}, ""},
		{"missing id", func(e *DomainEvent) { e.EventID = "" }, "event_id"},
		{"unknown type", func(e *DomainEvent) { e.Type = "queue.teleported" }, "unknown event type"},
		{"missing salon", func(e *DomainEvent) { e.SalonID = "" }, "salon_id"},
		{"reset without salon", func(e *DomainEvent) { e.Type = EventQueueReset; e.SalonID = "" }, ""},
		{"zero timestamp", func(e *DomainEvent) { e.Timestamp = time.Time{} }, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)
			err := e.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestIsQueueEvent(t *testing.T) {
	tests := []struct {
		eventType string
		want      bool
	}{
		{EventQueueJoined, true},
		{EventQueueLeft, true},
		{EventQueueServed, true},
		{EventQueueRemoved, true},
		{EventQueueReset, true},
		{EventAppointmentBooked, false},
		{EventAppointmentCancelled, false},
	}
	for _, tt := range tests {
		e := NewDomainEvent(tt.eventType, "s")
		if got := e.IsQueueEvent(); got != tt.want {
			t.Errorf("IsQueueEvent(%s) = %v, want %v", tt.eventType, got, tt.want)
		}
	}
}

func TestNewAppointmentEvent(t *testing.T) {
	appt := &models.Appointment{ID: "a1", UserID: "u1", SalonID: "s1", Date: "2026-03-02", Time: "10:00"}
	e := NewAppointmentEvent(EventAppointmentBooked, appt)
	if e.SalonID != "s1" || e.UserID != "u1" {
		t.Errorf("event = %+v, want salon s1 user u1", e)
	}
	if e.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", e.SchemaVersion, SchemaVersion)
	}
}

func TestSerializeEvent(t *testing.T) {
	snapshot := &models.QueueSnapshot{SalonID: "s1", Length: 1, Entries: []models.QueuePosition{
		{Entry: models.QueueEntry{ID: "q1", SalonID: "s1", UserID: "u1", Seq: 7}, Position: 1, QueueLength: 1},
	}}
	e := NewQueueEvent(EventQueueJoined, "s1", &snapshot.Entries[0].Entry, snapshot)

	data, err := SerializeEvent(e)
	if err != nil {
		t.Fatalf("SerializeEvent() error = %v", err)
	}
	got, err := DeserializeEvent(data)
	if err != nil {
		t.Fatalf("DeserializeEvent() error = %v", err)
	}
	if got.Queue == nil || got.Queue.Length != 1 || got.Queue.Entries[0].Entry.Seq != 7 {
		t.Errorf("decoded queue = %+v, want one entry with seq 7", got.Queue)
	}
	if got.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", got.UserID)
	}
}

func TestSerializeEventRejectsInvalid(t *testing.T) {
	if _, err := SerializeEvent(&DomainEvent{Type: EventQueueJoined}); err == nil {
		t.Error("SerializeEvent(invalid) = nil error, want error")
	}
	if _, err := DeserializeEvent([]byte("{not json")); err == nil {
		t.Error("DeserializeEvent(garbage) = nil error, want error")
	}
}
