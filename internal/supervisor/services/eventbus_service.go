// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package services

import (
	"context"
	"fmt"
	"time"
)

// Lifecycle is a component with explicit start and shutdown steps.
type Lifecycle interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// LifecycleService starts a Lifecycle with the tree and shuts it down
// when the tree stops. A failed Start is returned so suture retries it.
type LifecycleService struct {
	component       Lifecycle
	name            string
	shutdownTimeout time.Duration
}

// NewLifecycleService wraps component under name. A non-positive
// shutdownTimeout defaults to 10s.
func NewLifecycleService(name string, component Lifecycle, shutdownTimeout time.Duration) *LifecycleService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &LifecycleService{
		component:       component,
		name:            name,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service.
func (s *LifecycleService) Serve(ctx context.Context) error {
	if err := s.component.Start(ctx); err != nil {
		return fmt.Errorf("%s start: %w", s.name, err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.component.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown: %w", s.name, err)
	}
	return ctx.Err()
}

func (s *LifecycleService) String() string {
	return s.name
}
