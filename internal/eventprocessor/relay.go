// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/metrics"
	"github.com/tomtom215/salonbook/internal/websocket"
)

// WebSocketBroadcaster is the part of websocket.Hub the relay needs.
type WebSocketBroadcaster interface {
	BroadcastJSON(messageType, salonID string, data interface{})
}

// WebSocketHandler turns domain events into hub messages.
type WebSocketHandler struct {
	hub WebSocketBroadcaster

	messagesReceived  atomic.Int64
	messagesBroadcast atomic.Int64
}

// NewWebSocketHandler creates a handler broadcasting to hub.
func NewWebSocketHandler(hub WebSocketBroadcaster) (*WebSocketHandler, error) {
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	return &WebSocketHandler{hub: hub}, nil
}

// Handle broadcasts one event. It never fails: a dropped push must not cause
// redelivery, clients resync from the REST API.
func (h *WebSocketHandler) Handle(_ context.Context, event *DomainEvent) error {
	h.messagesReceived.Add(1)

	switch {
	case event.IsQueueEvent():
		if event.Queue == nil {
			return nil
		}
		// Pushes reach customers, so user IDs stay private.
		h.hub.BroadcastJSON(websocket.MessageTypeQueueUpdated, event.SalonID, event.Queue.Redacted(""))
	case event.Type == EventAppointmentBooked:
		h.hub.BroadcastJSON(websocket.MessageTypeAppointmentBooked, event.SalonID, slotPayload(event))
	case event.Type == EventAppointmentCancelled:
		h.hub.BroadcastJSON(websocket.MessageTypeAppointmentCancelled, event.SalonID, slotPayload(event))
	default:
		return nil
	}

	h.messagesBroadcast.Add(1)
	metrics.RecordEventRelayed(event.Type)
	return nil
}

// slotPayload exposes which slot changed without leaking who booked it.
func slotPayload(event *DomainEvent) map[string]string {
	if event.Appointment == nil {
		return map[string]string{}
	}
	return map[string]string{
		"salon_id": event.Appointment.SalonID,
		"date":     event.Appointment.Date,
		"time":     event.Appointment.Time,
	}
}

// Stats returns handler counters.
func (h *WebSocketHandler) Stats() WebSocketHandlerStats {
	return WebSocketHandlerStats{
		MessagesReceived:  h.messagesReceived.Load(),
		MessagesBroadcast: h.messagesBroadcast.Load(),
	}
}

// WebSocketHandlerStats holds runtime statistics.
type WebSocketHandlerStats struct {
	MessagesReceived  int64
	MessagesBroadcast int64
}

// Relay consumes Topic and forwards events to the WebSocket hub.
// It implements suture.Service.
type Relay struct {
	subscriber *Subscriber
	handler    *WebSocketHandler
}

// NewRelay wires a subscriber to a handler.
func NewRelay(sub *Subscriber, handler *WebSocketHandler) *Relay {
	return &Relay{subscriber: sub, handler: handler}
}

// Serve consumes events until ctx is cancelled.
func (r *Relay) Serve(ctx context.Context) error {
	logging.Info().Str("topic", Topic).Msg("Event relay started")
	err := r.subscriber.Consume(ctx, Topic, r.handler.Handle)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// String implements fmt.Stringer for suture logging.
func (r *Relay) String() string {
	return "event-relay"
}
