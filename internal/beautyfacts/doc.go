// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

/*
Package beautyfacts looks up cosmetic products by barcode on Open Beauty Facts.

Client Features:
  - HTTP client with configurable timeout
  - Circuit breaker (sony/gobreaker) around upstream calls; a barcode the
    upstream does not know is a successful answer, not a failure
  - LRU cache of found products and of negative answers
  - Prometheus lookup counters by result (hit, found, not_found, error, rejected)

Request shape:

	GET {base_url}/api/v2/product/{barcode}.json

A response with "status": 0 means the barcode is unknown.
*/
package beautyfacts
