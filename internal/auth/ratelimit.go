// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UserRateLimiter is a token bucket per authenticated user. Buckets idle
// for longer than the window are dropped by Cleanup.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	limit    rate.Limit
	burst    int
	window   time.Duration
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUserRateLimiter allows reqsPerWindow requests per window per user,
// with a burst of the full window.
func NewUserRateLimiter(reqsPerWindow int, window time.Duration) *UserRateLimiter {
	if reqsPerWindow <= 0 {
		reqsPerWindow = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &UserRateLimiter{
		limiters: make(map[string]*userLimiter),
		limit:    rate.Limit(float64(reqsPerWindow) / window.Seconds()),
		burst:    reqsPerWindow,
		window:   window,
	}
}

// Allow reports whether userID may make another request now.
func (rl *UserRateLimiter) Allow(userID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	ul, ok := rl.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[userID] = ul
	}
	ul.lastSeen = time.Now()
	return ul.limiter.Allow()
}

// Cleanup drops buckets idle for longer than the window.
func (rl *UserRateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	removed := 0
	for id, ul := range rl.limiters {
		if ul.lastSeen.Before(cutoff) {
			delete(rl.limiters, id)
			removed++
		}
	}
	return removed
}
