// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/logging"
)

// ResetService clears every queue once a day. It implements suture.Service.
type ResetService struct {
	queue   *Service
	resetAt int // minutes after midnight
	loc     *time.Location
	now     func() time.Time
	after   func(time.Duration) <-chan time.Time
}

// NewResetService schedules resets at resetAt ("HH:MM") in loc.
func NewResetService(q *Service, resetAt string, loc *time.Location) (*ResetService, error) {
	minutes, err := config.ParseClock(resetAt)
	if err != nil {
		return nil, fmt.Errorf("queue reset_at: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &ResetService{
		queue:   q,
		resetAt: minutes,
		loc:     loc,
		now:     time.Now,
		after:   time.After,
	}, nil
}

// NextReset returns the first reset instant strictly after now.
func (r *ResetService) NextReset(now time.Time) time.Time {
	local := now.In(r.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), r.resetAt/60, r.resetAt%60, 0, 0, r.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, r.resetAt/60, r.resetAt%60, 0, 0, r.loc)
	}
	return next
}

// Serve sleeps until each reset instant and clears the queues. A failed
// reset is logged and retried at the next scheduled time.
func (r *ResetService) Serve(ctx context.Context) error {
	for {
		now := r.now()
		next := r.NextReset(now)
		logging.Debug().Time("next_reset", next).Msg("Queue reset scheduled")

		select {
		case <-ctx.Done():
			return nil
		case <-r.after(next.Sub(now)):
		}

		n, err := r.queue.Reset(ctx)
		if err != nil {
			logging.Error().Err(err).Msg("Daily queue reset failed")
			continue
		}
		logging.Info().Int("removed", n).Msg("Daily queue reset complete")
	}
}

// String implements fmt.Stringer for suture logging.
func (r *ResetService) String() string {
	return "queue-reset"
}
