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

type fakeHub struct {
	err  error
	runs atomic.Int32
}

func (f *fakeHub) RunWithContext(ctx context.Context) error {
	f.runs.Add(1)
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

var _ suture.Service = (*WebSocketHubService)(nil)

func TestWebSocketHubServiceServe(t *testing.T) {
	hubErr := errors.New("hub failed")
	tests := []struct {
		name string
		hub  *fakeHub
		want error
	}{
		{"cancelled", &fakeHub{}, context.DeadlineExceeded},
		{"hub error", &fakeHub{err: hubErr}, hubErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			if err := NewWebSocketHubService(tt.hub).Serve(ctx); !errors.Is(err, tt.want) {
				t.Errorf("Serve() error = %v, want %v", err, tt.want)
			}
			if got := tt.hub.runs.Load(); got != 1 {
				t.Errorf("runs = %d, want 1", got)
			}
		})
	}
}

func TestWebSocketHubServiceString(t *testing.T) {
	if got := NewWebSocketHubService(&fakeHub{}).String(); got != "websocket-hub" {
		t.Errorf("String() = %q, want websocket-hub", got)
	}
}
