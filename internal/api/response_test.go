// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/salonbook/internal/beautyfacts"
	"github.com/tomtom215/salonbook/internal/models"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"slot taken", fmt.Errorf("reserve: %w", models.ErrSlotTaken), http.StatusConflict, ErrCodeConflict},
		{"already queued", models.ErrAlreadyQueued, http.StatusConflict, ErrCodeConflict},
		{"already cancelled", models.ErrAlreadyCancelled, http.StatusConflict, ErrCodeConflict},
		{"email taken", models.ErrEmailTaken, http.StatusConflict, ErrCodeConflict},
		{"invalid slot", models.ErrInvalidSlot, http.StatusBadRequest, ErrCodeBadRequest},
		{"invalid date", models.ErrInvalidDate, http.StatusBadRequest, ErrCodeBadRequest},
		{"past date", models.ErrPastDate, http.StatusBadRequest, ErrCodeBadRequest},
		{"bad barcode", beautyfacts.ErrInvalidBarcode, http.StatusBadRequest, ErrCodeBadRequest},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{"not found", fmt.Errorf("salon x: %w", models.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"not queued", models.ErrNotQueued, http.StatusNotFound, ErrCodeNotFound},
		{"queue empty", models.ErrQueueEmpty, http.StatusNotFound, ErrCodeNotFound},
		{"lookup down", beautyfacts.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"lookup disabled", beautyfacts.ErrDisabled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classifyError(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("classifyError() = %d %s, want %d %s", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	NewResponseWriter(rec, req).ServiceError(errors.New("pq: relation appointments does not exist"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if body := rec.Body.String(); strings.Contains(body, "relation") {
		t.Errorf("body = %s, leaks internal error", body)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=500", 100, 0},
		{"?limit=-1&offset=-3", 20, 0},
		{"?limit=abc", 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/salons"+tt.query, nil)
			limit, offset := pagination(r, 20, 100)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("pagination() = %d, %d, want %d, %d", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got, want := sanitizeLogValue("ok\nforged"), "ok\\x0aforged"; got != want {
		t.Errorf("sanitizeLogValue() = %q, want %q", got, want)
	}
}
