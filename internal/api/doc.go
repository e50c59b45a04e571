// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

/*
Package api implements the HTTP surface of salonbook.

Routing uses chi. Every response body is the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "CONFLICT", "message": "...", "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "pagination": {...}}
	}

Route groups:

	/api/v1/health        public, permissive rate limit
	/api/v1/auth          register and login public; strict per-IP limits
	/api/v1/...           authenticated (JWT bearer or "token" cookie), then
	                      authorized by the Casbin policy in internal/authz
	/metrics              Prometheus
	/swagger/*            OpenAPI UI

Domain errors from internal/models map to status codes in one place
(writeServiceError): invalid input 400, credentials 401, ownership 403,
missing 404, conflicts 409.
*/
package api
