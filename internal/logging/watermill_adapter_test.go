// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
)

var _ watermill.LoggerAdapter = (*WatermillAdapter)(nil)

func TestWatermillAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewWatermillAdapterWithLogger(NewTestLogger(&buf))

	adapter.With(watermill.LogFields{"topic": "queue.joined"}).
		Error("publish failed", errors.New("nats down"), watermill.LogFields{"attempt": 2})

	out := buf.String()
	for _, want := range []string{`"topic":"queue.joined"`, `"attempt":2`, `"error":"nats down"`, `"message":"publish failed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}
