// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

/*
Package services adapts Salonbook components to suture.Service.

  - HTTPServerService runs an *http.Server and shuts it down gracefully
    when the supervisor stops.
  - WebSocketHubService runs the WebSocket hub's event loop.
  - LifecycleService wraps a Start/Shutdown component, such as the event
    bus connections, so it is started with the tree and closed on exit.
  - IntervalService runs a periodic housekeeping job, such as pruning
    rate limiter buckets.

Components that already implement Serve(ctx) error, such as the event
relay and the queue reset scheduler, are added to the tree directly.
*/
package services
