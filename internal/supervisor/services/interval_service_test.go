// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalServiceRunsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	svc := NewIntervalService("session-cleanup", 5*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if calls.Load() < 2 {
		t.Errorf("calls = %d, want at least 2", calls.Load())
	}
}

func TestIntervalServiceDefaults(t *testing.T) {
	svc := NewIntervalService("cache-prune", 0, func(context.Context) {})
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", svc.interval)
	}
	if svc.String() != "cache-prune" {
		t.Errorf("String() = %q, want cache-prune", svc.String())
	}
}
