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

	"github.com/thejerf/suture/v4"
)

type fakeLifecycle struct {
	startErr    error
	shutdownErr error
	starts      atomic.Int32
	shutdowns   atomic.Int32
}

func (f *fakeLifecycle) Start(context.Context) error {
	f.starts.Add(1)
	return f.startErr
}

func (f *fakeLifecycle) Shutdown(ctx context.Context) error {
	f.shutdowns.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("shutdown context has no deadline")
	}
	return f.shutdownErr
}

var _ suture.Service = (*LifecycleService)(nil)

func TestLifecycleServiceServe(t *testing.T) {
	component := &fakeLifecycle{}
	svc := NewLifecycleService("event-bus", component, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if component.starts.Load() != 1 || component.shutdowns.Load() != 1 {
		t.Errorf("starts, shutdowns = %d, %d, want 1, 1", component.starts.Load(), component.shutdowns.Load())
	}
	if svc.String() != "event-bus" {
		t.Errorf("String() = %q, want event-bus", svc.String())
	}
}

func TestLifecycleServiceStartError(t *testing.T) {
	startErr := errors.New("stream unavailable")
	component := &fakeLifecycle{startErr: startErr}

	err := NewLifecycleService("event-bus", component, 0).Serve(context.Background())
	if !errors.Is(err, startErr) {
		t.Errorf("Serve() error = %v, want %v", err, startErr)
	}
	if got := component.shutdowns.Load(); got != 0 {
		t.Errorf("shutdowns = %d, want 0", got)
	}
}

func TestLifecycleServiceShutdownError(t *testing.T) {
	shutdownErr := errors.New("close timed out")
	component := &fakeLifecycle{shutdownErr: shutdownErr}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewLifecycleService("event-bus", component, time.Second).Serve(ctx); !errors.Is(err, shutdownErr) {
		t.Errorf("Serve() error = %v, want %v", err, shutdownErr)
	}
}
