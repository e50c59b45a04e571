// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

/*
Package supervisor runs Salonbook's long-lived services under a suture v4
supervisor tree.

Services are grouped into three layers so a crash in one does not restart
the others:

	root ("salonbook")
	├── data ("data-layer")
	│   └── queue reset scheduler (if QUEUE_DAILY_RESET)
	├── messaging ("messaging-layer")
	│   ├── WebSocket hub
	│   ├── event relay (bus -> hub)
	│   └── event bus lifecycle (NATS or in-process)
	└── api ("api-layer")
	    └── HTTP server

Every service implements suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Returning an error restarts the service with backoff; returning after the
context is cancelled ends it. Supervisor events are logged through the
zerolog-backed slog handler from internal/logging via sutureslog.

# Usage

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.Add(supervisor.LayerMessaging, services.NewWebSocketHubService(hub))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

Wrappers for components whose lifecycle does not already match
suture.Service live in the services subpackage.
*/
package supervisor
