// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package validation validates request structs with go-playground/validator.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Field names in messages come from
// the json tag so clients see the names they sent.
//
// Custom tags:
//
//	isodate   YYYY-MM-DD calendar date
//	hhmm      24-hour HH:MM clock time
//	role      one of customer, stylist, admin
//
// Example:
//
//	type BookRequest struct {
//	    SalonID string `json:"salon_id" validate:"required"`
//	    Date    string `json:"date" validate:"required,isodate"`
//	    Time    string `json:"time" validate:"required,hhmm"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	}
package validation
