// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package metrics

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/salonbook/internal/models"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/salons", "200"))
	RecordAPIRequest("GET", "/api/v1/salons", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/salons", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 2 {
		t.Errorf("active delta after two starts = %v, want 2", got)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active after finishing = %v, want %v", got, before)
	}
}

func TestBookingResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "booked"},
		{models.ErrSlotTaken, "slot_taken"},
		{fmt.Errorf("book: %w", models.ErrSlotTaken), "slot_taken"},
		{models.ErrInvalidSlot, "invalid"},
		{models.ErrPastDate, "invalid"},
		{models.ErrInvalidDate, "invalid"},
		{errors.New("disk full"), "error"},
	}
	for _, tt := range tests {
		if got := bookingResult(tt.err); got != tt.want {
			t.Errorf("bookingResult(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestQueueResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{models.ErrAlreadyQueued, "already_queued"},
		{models.ErrNotQueued, "not_queued"},
		{models.ErrQueueEmpty, "empty"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := queueResult(tt.err); got != tt.want {
			t.Errorf("queueResult(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestQueueLengthReset(t *testing.T) {
	SetQueueLength("salon-a", 3)
	if got := testutil.ToFloat64(QueueLength.WithLabelValues("salon-a")); got != 3 {
		t.Errorf("queue_length = %v, want 3", got)
	}
	RecordQueueReset()
	if got := testutil.CollectAndCount(QueueLength); got != 0 {
		t.Errorf("queue_length series after reset = %d, want 0", got)
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	tests := []struct {
		to   string
		want float64
	}{
		{"open", 2},
		{"half-open", 1},
		{"closed", 0},
	}
	for _, tt := range tests {
		RecordCircuitBreakerTransition("test-breaker", "closed", tt.to)
		if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-breaker")); got != tt.want {
			t.Errorf("state after -> %s = %v, want %v", tt.to, got, tt.want)
		}
	}
}

func TestRecordCacheAccess(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("test"))
	RecordCacheAccess("test", true)
	RecordCacheAccess("test", false)
	RecordCacheAccess("test", false)
	if got := testutil.ToFloat64(CacheHits.WithLabelValues("test")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("test")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			RecordBooking(nil)
			RecordQueueOperation("join", nil)
			RecordEventPublish("queue.joined", nil)
			RecordAuthAttempt("login", i%2 == 0)
			RecordProductLookup("found", time.Millisecond)
		}(i)
	}
	wg.Wait()
}
