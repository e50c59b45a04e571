// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonbook/internal/validation"
)

const maxRequestBodySize = 1 << 20

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// SalonRequest is the body of POST and PUT /salons.
type SalonRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Address     string  `json:"address" validate:"required,max=255"`
	City        string  `json:"city" validate:"required,max=80"`
	Phone       string  `json:"phone" validate:"omitempty,max=32"`
	Description string  `json:"description" validate:"max=2000"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
}

// ServiceRequest is the body of POST /salons/{id}/services.
type ServiceRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=480"`
	PriceCents      int64  `json:"price_cents" validate:"gte=0"`
}

// ProductRequest is the body of POST /products.
type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Brand       string `json:"brand" validate:"max=120"`
	Category    string `json:"category" validate:"required,max=60"`
	Description string `json:"description" validate:"max=2000"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Barcode     string `json:"barcode" validate:"omitempty,numeric,min=8,max=14"`
}

// BookRequest is the body of POST /appointments.
type BookRequest struct {
	SalonID   string `json:"salon_id" validate:"required,max=64"`
	Date      string `json:"date" validate:"required,isodate"`
	Time      string `json:"time" validate:"required,hhmm"`
	ServiceID string `json:"service_id" validate:"max=64"`
	Notes     string `json:"notes" validate:"max=500"`
}

// JoinQueueRequest is the optional body of POST /queue/{salonId}/join.
type JoinQueueRequest struct {
	Name string `json:"name" validate:"max=100"`
}

var errEmptyBody = errors.New("request body is required")

// decodeJSON reads a size-limited JSON body into dst. An empty body is
// accepted when optional is true.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		if optional {
			return nil
		}
		return errEmptyBody
	default:
		return fmt.Errorf("invalid JSON body: %w", err)
	}
}

// bindJSON decodes and validates a request body, writing the 400 response
// itself. It reports whether the handler should continue.
func bindJSON(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) bool {
	rw := NewResponseWriter(w, r)
	if err := decodeJSON(w, r, dst, optional); err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		rw.ValidationError(verr)
		return false
	}
	return true
}

// pagination reads limit and offset, clamping them to the configured bounds.
func pagination(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = parseIntParam(r.URL.Query().Get("limit"), defaultLimit)
	offset = parseIntParam(r.URL.Query().Get("offset"), 0)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseIntParam(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
