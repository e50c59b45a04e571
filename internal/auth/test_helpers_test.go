// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package auth

import (
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, SessionTimeout: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func newTestSessions(t *testing.T) *BadgerSessionStore {
	t.Helper()
	s, err := OpenBadgerSessionStore("")
	if err != nil {
		t.Fatalf("OpenBadgerSessionStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	return NewService(st, newTestJWTManager(t), newTestSessions(t)), st
}
