// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

/*
Package websocket pushes queue and appointment changes to connected clients.

Clients connect to /api/v1/ws and may pass ?salon_id= to receive only that
salon's messages. Without it they receive every message. This replaces the
position polling loop of the mobile client; polling GET /queue/{id}/position
still works for clients that do not upgrade.

Key Components:

  - Hub: owns the client set and fans messages out
  - Client: one connection with a read pump (pings) and a write pump
  - Message: {type, salon_id, data} envelope

Message Types:

  - queue_updated: a salon's queue changed; data is the full QueueSnapshot
  - appointment_booked: data is the Appointment
  - appointment_cancelled: data is the Appointment
  - ping / pong: client keepalive

Messages usually reach the hub through the event bus relay in
internal/eventprocessor, so every API instance attached to the same NATS
stream pushes the same updates.

Thread Safety:

The hub's client map is guarded by a mutex; Broadcast* methods are
non-blocking and drop messages when the broadcast buffer is full.
*/
package websocket
