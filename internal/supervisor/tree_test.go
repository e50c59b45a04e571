// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// countingService runs until cancelled, failing its first failures starts.
type countingService struct {
	name     string
	failures int32
	starts   atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	if n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestTree(t *testing.T, cfg TreeConfig) *Tree {
	t.Helper()
	tree, err := NewTree(quietLogger(), cfg)
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}
	return tree
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}

func TestNewTreeDefaults(t *testing.T) {
	tree := newTestTree(t, TreeConfig{})
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
	}
	if tree.Root() == nil {
		t.Error("Root() = nil")
	}
}

func TestNewTreeRejectsNegative(t *testing.T) {
	if _, err := NewTree(quietLogger(), TreeConfig{FailureBackoff: -time.Second}); err == nil {
		t.Error("NewTree() error = nil, want error for negative backoff")
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerData, "data-layer"},
		{LayerMessaging, "messaging-layer"},
		{LayerAPI, "api-layer"},
		{Layer(9), "layer(9)"},
	}
	for _, tt := range tests {
		if got := tt.layer.String(); got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", int(tt.layer), got, tt.want)
		}
	}
}

func TestTreeStartsEveryLayer(t *testing.T) {
	tree := newTestTree(t, TreeConfig{ShutdownTimeout: time.Second})
	svcs := map[Layer]*countingService{
		LayerData:      {name: "queue-reset"},
		LayerMessaging: {name: "websocket-hub"},
		LayerAPI:       {name: "http-server"},
	}
	for layer, svc := range svcs {
		if _, err := tree.Add(layer, svc); err != nil {
			t.Fatalf("Add(%v) error = %v", layer, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	for layer, svc := range svcs {
		svc := svc
		waitFor(t, func() bool { return svc.starts.Load() >= 1 })
		if got := tree.Services()[layer.String()]; len(got) != 1 || got[0] != svc.name {
			t.Errorf("Services()[%v] = %v, want [%s]", layer, got, svc.name)
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("ServeBackground() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestTreeRestartsFailingService(t *testing.T) {
	tree := newTestTree(t, TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	failing := &countingService{name: "event-relay", failures: 2}
	stable := &countingService{name: "http-server"}
	if _, err := tree.Add(LayerMessaging, failing); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := tree.Add(LayerAPI, stable); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	waitFor(t, func() bool { return failing.starts.Load() >= 3 })
	if got := stable.starts.Load(); got != 1 {
		t.Errorf("stable starts = %d, want 1", got)
	}
}

func TestTreeAddUnknownLayer(t *testing.T) {
	tree := newTestTree(t, TreeConfig{})
	if _, err := tree.Add(Layer(42), &countingService{name: "x"}); err == nil {
		t.Error("Add() error = nil, want error for unknown layer")
	}
}

func TestTreeRemove(t *testing.T) {
	tree := newTestTree(t, TreeConfig{ShutdownTimeout: time.Second})
	svc := &countingService{name: "queue-reset"}
	token, err := tree.Add(LayerData, svc)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)
	waitFor(t, func() bool { return svc.starts.Load() >= 1 })

	if err := tree.Remove(LayerData, token); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := tree.Services()[LayerData.String()]; len(got) != 0 {
		t.Errorf("Services() after Remove = %v, want empty", got)
	}
}
