// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package eventprocessor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/websocket"
)

type broadcast struct {
	messageType string
	salonID     string
	data        interface{}
}

type fakeHub struct {
	mu   sync.Mutex
	sent []broadcast
	ch   chan broadcast
}

func newFakeHub() *fakeHub {
	return &fakeHub{ch: make(chan broadcast, 16)}
}

func (h *fakeHub) BroadcastJSON(messageType, salonID string, data interface{}) {
	b := broadcast{messageType, salonID, data}
	h.mu.Lock()
	h.sent = append(h.sent, b)
	h.mu.Unlock()
	h.ch <- b
}

func TestWebSocketHandlerMapsEvents(t *testing.T) {
	appt := &models.Appointment{ID: "a1", UserID: "u1", SalonID: "s1", Date: "2026-03-02", Time: "10:00"}
	snapshot := &models.QueueSnapshot{SalonID: "s1"}

	tests := []struct {
		name     string
		event    *DomainEvent
		wantType string
	}{
		{"booked", NewAppointmentEvent(EventAppointmentBooked, appt), websocket.MessageTypeAppointmentBooked},
		{"cancelled", NewAppointmentEvent(EventAppointmentCancelled, appt), websocket.MessageTypeAppointmentCancelled},
		{"joined", NewQueueEvent(EventQueueJoined, "s1", nil, snapshot), websocket.MessageTypeQueueUpdated},
		{"served", NewQueueEvent(EventQueueServed, "s1", nil, snapshot), websocket.MessageTypeQueueUpdated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := newFakeHub()
			h, err := NewWebSocketHandler(hub)
			if err != nil {
				t.Fatalf("NewWebSocketHandler() error = %v", err)
			}
			if err := h.Handle(context.Background(), tt.event); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if len(hub.sent) != 1 {
				t.Fatalf("broadcasts = %d, want 1", len(hub.sent))
			}
			if hub.sent[0].messageType != tt.wantType {
				t.Errorf("message type = %q, want %q", hub.sent[0].messageType, tt.wantType)
			}
			if hub.sent[0].salonID != "s1" {
				t.Errorf("salon = %q, want s1", hub.sent[0].salonID)
			}
		})
	}
}

func TestWebSocketHandlerResetReachesAllClients(t *testing.T) {
	hub := newFakeHub()
	h, err := NewWebSocketHandler(hub)
	if err != nil {
		t.Fatalf("NewWebSocketHandler() error = %v", err)
	}
	empty := &models.QueueSnapshot{Entries: []models.QueuePosition{}}
	if err := h.Handle(context.Background(), NewQueueEvent(EventQueueReset, "", nil, empty)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(hub.sent) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(hub.sent))
	}
	if hub.sent[0].messageType != websocket.MessageTypeQueueUpdated || hub.sent[0].salonID != "" {
		t.Errorf("broadcast = %q to %q, want %q to every client",
			hub.sent[0].messageType, hub.sent[0].salonID, websocket.MessageTypeQueueUpdated)
	}
}

func TestQueuePushOmitsUsers(t *testing.T) {
	hub := newFakeHub()
	h, err := NewWebSocketHandler(hub)
	if err != nil {
		t.Fatalf("NewWebSocketHandler() error = %v", err)
	}
	snapshot := &models.QueueSnapshot{SalonID: "s1", Length: 1, Entries: []models.QueuePosition{
		{Entry: models.QueueEntry{ID: "e1", SalonID: "s1", UserID: "u1", Name: "Ann"}, Position: 1},
	}}
	if err := h.Handle(context.Background(), NewQueueEvent(EventQueueJoined, "s1", &snapshot.Entries[0].Entry, snapshot)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	pushed, ok := hub.sent[0].data.(*models.QueueSnapshot)
	if !ok {
		t.Fatalf("pushed data = %T, want *models.QueueSnapshot", hub.sent[0].data)
	}
	if got := pushed.Entries[0].Entry.UserID; got != "" {
		t.Errorf("pushed user_id = %q, want empty", got)
	}
	if got := pushed.Entries[0].Entry.ID; got != "e1" {
		t.Errorf("pushed entry id = %q, want e1", got)
	}
}

func TestSlotPayloadOmitsUser(t *testing.T) {
	appt := &models.Appointment{ID: "a1", UserID: "u1", SalonID: "s1", Date: "2026-03-02", Time: "10:00"}
	p := slotPayload(NewAppointmentEvent(EventAppointmentBooked, appt))
	if _, ok := p["user_id"]; ok {
		t.Error("slot payload exposes user_id")
	}
	if p["time"] != "10:00" {
		t.Errorf("time = %q, want 10:00", p["time"])
	}
}

func TestNewWebSocketHandlerRequiresHub(t *testing.T) {
	if _, err := NewWebSocketHandler(nil); err == nil {
		t.Error("NewWebSocketHandler(nil) = nil error, want error")
	}
}

func TestRelayOverInProcessBus(t *testing.T) {
	logger := watermill.NopLogger{}
	bus := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, logger)
	pub := NewPublisherFrom(bus, logger)
	sub := NewSubscriberFrom(bus, logger)
	defer pub.Close()

	hub := newFakeHub()
	handler, _ := NewWebSocketHandler(hub)
	relay := NewRelay(sub, handler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Serve(ctx) }()

	snapshot := &models.QueueSnapshot{SalonID: "s1", Length: 1}
	if err := pub.PublishEvent(ctx, NewQueueEvent(EventQueueJoined, "s1", nil, snapshot)); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	select {
	case b := <-hub.ch:
		if b.messageType != websocket.MessageTypeQueueUpdated {
			t.Errorf("message type = %q, want %q", b.messageType, websocket.MessageTypeQueueUpdated)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not forward the event")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
	if relay.String() != "event-relay" {
		t.Errorf("String() = %q", relay.String())
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                               { return nil }

func TestPublisherCircuitBreakerOpens(t *testing.T) {
	pub := NewPublisherFrom(failingPublisher{}, nil)
	cfg := DefaultCircuitBreakerConfig("test-publisher")
	cfg.FailureThreshold = 2
	pub.SetCircuitBreaker(NewCircuitBreaker(cfg))

	event := NewDomainEvent(EventQueueLeft, "s1")
	for i := 0; i < 2; i++ {
		if err := pub.PublishEvent(context.Background(), event); err == nil {
			t.Fatalf("publish %d = nil error, want broker error", i)
		}
	}
	if got := pub.CircuitState(); got != "open" {
		t.Errorf("CircuitState() = %q, want open", got)
	}
	err := pub.PublishEvent(context.Background(), event)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("publish with open breaker = %v, want ErrOpenState", err)
	}
}

func TestPublisherClosed(t *testing.T) {
	pub, _ := NewInProcessBus(nil)
	if err := pub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	err := pub.PublishEvent(context.Background(), NewDomainEvent(EventQueueLeft, "s1"))
	if !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("PublishEvent after Close = %v, want ErrPublisherClosed", err)
	}
}
