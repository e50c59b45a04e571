// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package store_test

import (
	"context"
	"testing"

	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
	"github.com/tomtom215/salonbook/internal/store/storetest"
)

func TestMemoryConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s := store.NewMemory()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemoryPingAfterClose(t *testing.T) {
	s := store.NewMemory()
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	_ = s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping() after Close = nil, want error")
	}
}

func TestMemoryDeleteSalonDropsQueueAndServices(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	salon := &models.Salon{ID: "s1", Name: "Alpha"}
	if err := s.CreateSalon(ctx, salon); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateService(ctx, &models.Service{ID: "svc", SalonID: "s1", Name: "Cut"}); err != nil {
		t.Fatal(err)
	}
	if err := s.EnqueueEntry(ctx, &models.QueueEntry{ID: "e1", SalonID: "s1", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSalon(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if list, _ := s.ListQueue(ctx, "s1"); len(list) != 0 {
		t.Errorf("ListQueue() after DeleteSalon len = %d, want 0", len(list))
	}
	if list, _ := s.ListServices(ctx, "s1"); len(list) != 0 {
		t.Errorf("ListServices() after DeleteSalon len = %d, want 0", len(list))
	}
}

func TestMemoryCreateServiceUnknownSalon(t *testing.T) {
	s := store.NewMemory()
	err := s.CreateService(context.Background(), &models.Service{ID: "svc", SalonID: "missing"})
	if err != models.ErrNotFound {
		t.Errorf("CreateService(unknown salon) error = %v, want ErrNotFound", err)
	}
}
