// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package services

import (
	"context"
	"time"
)

// IntervalService calls fn every interval until the supervisor stops it.
// fn runs on the service goroutine, so a slow call delays the next tick.
type IntervalService struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context)
}

// NewIntervalService creates a periodic job. A non-positive interval
// defaults to one minute.
func NewIntervalService(name string, interval time.Duration, fn func(ctx context.Context)) *IntervalService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &IntervalService{name: name, interval: interval, fn: fn}
}

// Serve implements suture.Service.
func (s *IntervalService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.fn(ctx)
		}
	}
}

func (s *IntervalService) String() string {
	return s.name
}
