// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

/*
Package main is the entry point for the Salonbook server.

Salonbook lets customers browse salons, book fixed appointment slots and
join a salon's walk-in queue from a mobile app. Staff serve the queue and
manage salons, services and products. Booking and queue changes are
published as domain events and relayed to WebSocket clients.

# Application Architecture

Long-running components run under a suture v4 supervisor tree:

	root ("salonbook")
	├── data-layer
	│   ├── queue reset (QUEUE_DAILY_RESET)
	│   ├── user rate limiter cleanup
	│   └── product lookup cache prune
	├── messaging-layer
	│   ├── WebSocket hub
	│   ├── event bus (NATS JetStream or in-process)
	│   └── event relay (bus -> hub)
	└── api-layer
	    └── HTTP server (chi)

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Store: DuckDB, MongoDB or in-memory (STORE_DRIVER)
 4. Sessions: BadgerDB, and JWT signing
 5. Authorization: Casbin RBAC policy
 6. Event bus: NATS JetStream when NATS_ENABLED, otherwise in-process
 7. Booking and queue services, WebSocket hub, product lookup client
 8. Supervisor tree with the HTTP server

# Configuration

Priority: environment variables > config file > defaults.

	HTTP_PORT=8080
	STORE_DRIVER=duckdb          # duckdb, mongo or memory
	DUCKDB_PATH=/data/salonbook.duckdb
	MONGO_URI=mongodb://127.0.0.1:27017

	AUTH_MODE=jwt                # jwt or none
	JWT_SECRET=<32+ chars>
	ADMIN_EMAIL=owner@example.com
	ADMIN_PASSWORD=<password>

	BOOKING_OPEN=09:00
	BOOKING_CLOSE=18:00
	BOOKING_SLOT_MINUTES=30
	BOOKING_TIMEZONE=Europe/London

	QUEUE_WAIT_PER_POSITION=10m
	QUEUE_DAILY_RESET=true
	QUEUE_RESET_AT=00:00

	NATS_ENABLED=false
	NATS_EMBEDDED=true

	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10s, the hub closes client connections, the event bus closes its NATS
connections, and the store and session database are closed last. Services
that miss the shutdown timeout are logged.
*/
package main
