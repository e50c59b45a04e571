// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package eventprocessor carries salon domain events between the booking and
// queue services and the WebSocket hub using Watermill.
//
// Two transports are supported:
//   - NATS JetStream (embedded or external) via watermill-nats, for
//     deployments running several API instances
//   - an in-process Go channel via watermill's gochannel, when NATS is disabled
//
// Every event is published to the single topic "salon.events". The relay
// consumes that topic on every instance, without a queue group, so each
// instance pushes every change to its own WebSocket clients:
//
//	booking.Service ─┐
//	                 ├─► Publisher ─► salon.events ─► Subscriber ─► Relay ─► websocket.Hub
//	queue.Service ───┘
//
// Publishing goes through a gobreaker circuit breaker. A failed publish is
// logged by the caller and never fails the booking or queue operation that
// produced the event; state lives in the store, events only announce it.
package eventprocessor
