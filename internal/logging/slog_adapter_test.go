// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Warn("service restarted", "service", "queue-reset", "attempt", 3)

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"service":"queue-reset"`, `"attempt":3`, `"message":"service restarted"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandlerGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf))).
		With("tree", "root").
		WithGroup("svc")

	logger.Info("started", "name", "http", "err", errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, `"svc.tree":"root"`) && !strings.Contains(out, `"tree":"root"`) {
		t.Errorf("missing pre-set attribute: %s", out)
	}
	if !strings.Contains(out, `"svc.name":"http"`) {
		t.Errorf("missing grouped attribute: %s", out)
	}
	if !strings.Contains(out, `"svc.err":"boom"`) {
		t.Errorf("missing error attribute: %s", out)
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	h := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn-level logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled for a warn-level logger")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
