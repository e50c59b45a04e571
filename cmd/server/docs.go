// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// @title Salonbook API
// @version 1.0
// @description Salon appointment booking and walk-in queue service.
// @description
// @description ## Authentication
// @description
// @description Register or log in via /auth to obtain a JWT. Send it as a Bearer
// @description token or rely on the HttpOnly cookie set by the login endpoint.
// @description
// @description ## Errors
// @description
// @description Every response uses the same envelope:
// @description ```json
// @description {"success": false, "error": {"code": "CONFLICT", "message": "slot already booked"}}
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/salonbook/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token or HttpOnly cookie. Obtain via /api/v1/auth/login.
//
// @tag.name Auth
// @tag.description Registration, login and session management
//
// @tag.name Salons
// @tag.description Salon directory and service menus
//
// @tag.name Appointments
// @tag.description Slot availability and bookings
//
// @tag.name Queue
// @tag.description Walk-in queue
//
// @tag.name Products
// @tag.description Product catalog and barcode lookup
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
