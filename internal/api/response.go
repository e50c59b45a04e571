// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salonbook/internal/beautyfacts"
	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/validation"
)

// APIResponse is the envelope of every response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIMeta carries tracing and pagination information.
type APIMeta struct {
	RequestID  string          `json:"request_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	DurationMs int64           `json:"duration_ms,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta describes one page of a list.
type PaginationMeta struct {
	Total   int  `json:"total"`
	Count   int  `json:"count"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// Error codes.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ResponseWriter writes envelopes for one request.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter wraps w for request r.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		Timestamp:  time.Now(),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
	}
}

// Success writes 200 with data.
func (rw *ResponseWriter) Success(data interface{}) {
	writeJSON(rw.w, http.StatusOK, &APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Created writes 201 with data.
func (rw *ResponseWriter) Created(data interface{}) {
	writeJSON(rw.w, http.StatusCreated, &APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// SuccessWithPagination writes 200 with a page of data.
func (rw *ResponseWriter) SuccessWithPagination(data interface{}, p *PaginationMeta) {
	meta := rw.meta()
	meta.Pagination = p
	writeJSON(rw.w, http.StatusOK, &APIResponse{Success: true, Data: data, Meta: meta})
}

// NoContent writes 204.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

// Error writes an error envelope.
func (rw *ResponseWriter) Error(status int, code, message string, details interface{}) {
	requestID := logging.RequestIDFromContext(rw.r.Context())
	writeJSON(rw.w, status, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: rw.meta(),
	})
}

// ValidationError writes 400 for a failed struct validation.
func (rw *ResponseWriter) ValidationError(verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.Error(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// ServiceError maps a domain error to a status code and writes it. Errors
// that match no domain sentinel are logged and reported as 500.
func (rw *ResponseWriter) ServiceError(err error) {
	status, code := classifyError(err)
	if status == http.StatusInternalServerError {
		logging.Ctx(rw.r.Context()).Error().
			Str("path", sanitizeLogValue(rw.r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
		rw.Error(status, code, "internal server error", nil)
		return
	}
	rw.Error(status, code, publicMessage(err), nil)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrInvalidSlot),
		errors.Is(err, models.ErrPastDate),
		errors.Is(err, beautyfacts.ErrInvalidBarcode):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrNotQueued),
		errors.Is(err, models.ErrQueueEmpty):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, models.ErrSlotTaken),
		errors.Is(err, models.ErrAlreadyQueued),
		errors.Is(err, models.ErrAlreadyCancelled),
		errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, beautyfacts.ErrUnavailable),
		errors.Is(err, beautyfacts.ErrDisabled):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// publicMessage returns the message of the outermost sentinel so wrapped
// internals (SQL, IDs) are not echoed to clients.
func publicMessage(err error) string {
	for _, sentinel := range []error{
		models.ErrInvalidDate, models.ErrInvalidSlot, models.ErrPastDate,
		models.ErrInvalidCredentials, models.ErrForbidden,
		models.ErrNotFound, models.ErrNotQueued, models.ErrQueueEmpty,
		models.ErrSlotTaken, models.ErrAlreadyQueued, models.ErrAlreadyCancelled,
		models.ErrEmailTaken, beautyfacts.ErrInvalidBarcode,
		beautyfacts.ErrUnavailable, beautyfacts.ErrDisabled,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// respondError writes an error envelope without a ResponseWriter, for
// middleware.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	NewResponseWriter(w, r).Error(status, code, message, nil)
}

func writeJSON(w http.ResponseWriter, status int, response *APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// sanitizeLogValue escapes control characters to prevent log injection.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
