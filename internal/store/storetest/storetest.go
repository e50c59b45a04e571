// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package storetest is a backend-agnostic conformance suite for store.Store.
// Each backend's tests call Run with a factory that yields an empty store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
)

// Factory returns an empty store. Cleanup is registered by the factory.
type Factory func(t *testing.T) store.Store

// base is truncated to milliseconds so every backend round-trips it exactly.
var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// Run executes the full suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Salons", func(t *testing.T) { testSalons(t, newStore(t)) })
	t.Run("DeleteSalonCancelsAppointments", func(t *testing.T) { testDeleteSalonCancelsAppointments(t, newStore(t)) })
	t.Run("Catalog", func(t *testing.T) { testCatalog(t, newStore(t)) })
	t.Run("ReserveSlot", func(t *testing.T) { testReserveSlot(t, newStore(t)) })
	t.Run("ReserveSlotConcurrent", func(t *testing.T) { testReserveSlotConcurrent(t, newStore(t)) })
	t.Run("Queue", func(t *testing.T) { testQueue(t, newStore(t)) })
	t.Run("EnqueueConcurrent", func(t *testing.T) { testEnqueueConcurrent(t, newStore(t)) })
}

func newID() string { return uuid.NewString() }

func mustSalon(t *testing.T, s store.Store, name, city string) *models.Salon {
	t.Helper()
	salon := &models.Salon{ID: newID(), Name: name, City: city, Address: "1 Main St", CreatedAt: base, UpdatedAt: base}
	if err := s.CreateSalon(context.Background(), salon); err != nil {
		t.Fatalf("CreateSalon(%s) error = %v", name, err)
	}
	return salon
}

func appointment(salonID, userID, date, slot string) *models.Appointment {
	return &models.Appointment{
		ID:        newID(),
		UserID:    userID,
		SalonID:   salonID,
		Date:      date,
		Time:      slot,
		Status:    models.StatusBooked,
		CreatedAt: base,
	}
}

func entry(salonID, userID string, joined time.Time) *models.QueueEntry {
	return &models.QueueEntry{ID: newID(), SalonID: salonID, UserID: userID, Name: userID, JoinedAt: joined}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := &models.User{ID: newID(), Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", Role: models.RoleCustomer, CreatedAt: base}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	dup := &models.User{ID: newID(), Name: "Other", Email: "ADA@example.com", PasswordHash: "x", Role: models.RoleCustomer, CreatedAt: base}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, models.ErrEmailTaken) {
		t.Errorf("CreateUser(duplicate email) error = %v, want ErrEmailTaken", err)
	}

	got, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Email != u.Email || got.PasswordHash != "hash" || got.Role != models.RoleCustomer {
		t.Errorf("GetUserByID() = %+v", got)
	}

	got, err = s.GetUserByEmail(ctx, "Ada@Example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("GetUserByEmail().ID = %q, want %q", got.ID, u.ID)
	}

	if _, err := s.GetUserByID(ctx, newID()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetUserByID(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetUserByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}

func testSalons(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustSalon(t, s, "Alpha Cuts", "Lisbon")
	mustSalon(t, s, "Beta Hair", "Porto")
	mustSalon(t, s, "Gamma Studio", "Lisbon")

	all, total, err := s.ListSalons(ctx, models.SalonFilter{})
	if err != nil {
		t.Fatalf("ListSalons() error = %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("ListSalons() = %d items, total %d, want 3/3", len(all), total)
	}
	if all[0].Name != "Alpha Cuts" || all[2].Name != "Gamma Studio" {
		t.Errorf("ListSalons() order = %s, %s, %s", all[0].Name, all[1].Name, all[2].Name)
	}

	lisbon, total, err := s.ListSalons(ctx, models.SalonFilter{Query: "lisbon"})
	if err != nil {
		t.Fatalf("ListSalons(lisbon) error = %v", err)
	}
	if total != 2 || len(lisbon) != 2 {
		t.Errorf("ListSalons(lisbon) = %d items, total %d, want 2/2", len(lisbon), total)
	}

	page, total, err := s.ListSalons(ctx, models.SalonFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListSalons(page) error = %v", err)
	}
	if total != 3 || len(page) != 1 || page[0].Name != "Beta Hair" {
		t.Errorf("ListSalons(limit 1, offset 1) = %+v, total %d", page, total)
	}

	a.Name = "Alpha Cuts & Color"
	a.Rating = 4.5
	a.UpdatedAt = base.Add(time.Hour)
	if err := s.UpdateSalon(ctx, a); err != nil {
		t.Fatalf("UpdateSalon() error = %v", err)
	}
	got, err := s.GetSalon(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetSalon() error = %v", err)
	}
	if got.Name != a.Name || got.Rating != 4.5 {
		t.Errorf("GetSalon() after update = %+v", got)
	}

	missing := &models.Salon{ID: newID(), Name: "Ghost"}
	if err := s.UpdateSalon(ctx, missing); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateSalon(unknown) error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteSalon(ctx, a.ID); err != nil {
		t.Fatalf("DeleteSalon() error = %v", err)
	}
	if _, err := s.GetSalon(ctx, a.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetSalon(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteSalon(ctx, a.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeleteSalon(twice) error = %v, want ErrNotFound", err)
	}
}

func testDeleteSalonCancelsAppointments(t *testing.T, s store.Store) {
	ctx := context.Background()
	salon := mustSalon(t, s, "Closing Soon", "Porto")
	appt := appointment(salon.ID, "u1", "2026-03-03", "10:00")
	if err := s.ReserveSlot(ctx, appt); err != nil {
		t.Fatalf("ReserveSlot() error = %v", err)
	}

	if err := s.DeleteSalon(ctx, salon.ID); err != nil {
		t.Fatalf("DeleteSalon() error = %v", err)
	}

	got, err := s.GetAppointment(ctx, appt.ID)
	if err != nil {
		t.Fatalf("GetAppointment() error = %v", err)
	}
	if got.Status != models.StatusCancelled || got.CancelledAt == nil {
		t.Errorf("appointment after salon delete = %s (cancelled_at %v), want cancelled", got.Status, got.CancelledAt)
	}
	booked, err := s.BookedTimes(ctx, salon.ID, "2026-03-03")
	if err != nil {
		t.Fatalf("BookedTimes() error = %v", err)
	}
	if len(booked) != 0 {
		t.Errorf("BookedTimes() after salon delete = %v, want none", booked)
	}
}

func testCatalog(t *testing.T, s store.Store) {
	ctx := context.Background()
	salon := mustSalon(t, s, "Alpha Cuts", "Lisbon")

	for _, name := range []string{"Haircut", "Color", "Blowout"} {
		svc := &models.Service{ID: newID(), SalonID: salon.ID, Name: name, DurationMinutes: 30, PriceCents: 2500, CreatedAt: base}
		if err := s.CreateService(ctx, svc); err != nil {
			t.Fatalf("CreateService(%s) error = %v", name, err)
		}
	}
	services, err := s.ListServices(ctx, salon.ID)
	if err != nil {
		t.Fatalf("ListServices() error = %v", err)
	}
	if len(services) != 3 || services[0].Name != "Blowout" {
		t.Errorf("ListServices() = %+v", services)
	}
	got, err := s.GetService(ctx, services[1].ID)
	if err != nil {
		t.Fatalf("GetService() error = %v", err)
	}
	if got.PriceCents != 2500 || got.SalonID != salon.ID {
		t.Errorf("GetService() = %+v", got)
	}
	if _, err := s.GetService(ctx, newID()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetService(unknown) error = %v, want ErrNotFound", err)
	}

	products := []models.Product{
		{ID: newID(), Name: "Argan Oil", Category: "hair", PriceCents: 1999, CreatedAt: base},
		{ID: newID(), Name: "Clay Mask", Category: "skin", PriceCents: 1299, Barcode: "3600523614462", CreatedAt: base},
	}
	for i := range products {
		if err := s.CreateProduct(ctx, &products[i]); err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}
	}
	all, err := s.ListProducts(ctx, "")
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListProducts() len = %d, want 2", len(all))
	}
	skin, err := s.ListProducts(ctx, "skin")
	if err != nil {
		t.Fatalf("ListProducts(skin) error = %v", err)
	}
	if len(skin) != 1 || skin[0].Barcode != "3600523614462" {
		t.Errorf("ListProducts(skin) = %+v", skin)
	}
	if _, err := s.GetProduct(ctx, products[0].ID); err != nil {
		t.Errorf("GetProduct() error = %v", err)
	}
	if _, err := s.GetProduct(ctx, newID()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetProduct(unknown) error = %v, want ErrNotFound", err)
	}
}

func testReserveSlot(t *testing.T, s store.Store) {
	ctx := context.Background()
	salon := newID()
	const date = "2026-03-02"

	first := appointment(salon, "u1", date, "10:00")
	if err := s.ReserveSlot(ctx, first); err != nil {
		t.Fatalf("ReserveSlot() error = %v", err)
	}
	if err := s.ReserveSlot(ctx, appointment(salon, "u2", date, "10:00")); !errors.Is(err, models.ErrSlotTaken) {
		t.Fatalf("ReserveSlot(same slot) error = %v, want ErrSlotTaken", err)
	}
	if err := s.ReserveSlot(ctx, appointment(salon, "u2", date, "10:30")); err != nil {
		t.Fatalf("ReserveSlot(next slot) error = %v", err)
	}
	if err := s.ReserveSlot(ctx, appointment(salon, "u2", "2026-03-03", "10:00")); err != nil {
		t.Fatalf("ReserveSlot(other date) error = %v", err)
	}
	if err := s.ReserveSlot(ctx, appointment(newID(), "u2", date, "10:00")); err != nil {
		t.Fatalf("ReserveSlot(other salon) error = %v", err)
	}

	booked, err := s.BookedTimes(ctx, salon, date)
	if err != nil {
		t.Fatalf("BookedTimes() error = %v", err)
	}
	if fmt.Sprint(booked) != "[10:00 10:30]" {
		t.Errorf("BookedTimes() = %v, want [10:00 10:30]", booked)
	}

	cancelledAt := base.Add(time.Hour)
	cancelled, err := s.CancelAppointment(ctx, first.ID, cancelledAt)
	if err != nil {
		t.Fatalf("CancelAppointment() error = %v", err)
	}
	if cancelled.Status != models.StatusCancelled || cancelled.CancelledAt == nil || !cancelled.CancelledAt.Equal(cancelledAt) {
		t.Errorf("CancelAppointment() = %+v", cancelled)
	}
	if _, err := s.CancelAppointment(ctx, first.ID, cancelledAt); !errors.Is(err, models.ErrAlreadyCancelled) {
		t.Errorf("CancelAppointment(twice) error = %v, want ErrAlreadyCancelled", err)
	}
	if _, err := s.CancelAppointment(ctx, newID(), cancelledAt); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("CancelAppointment(unknown) error = %v, want ErrNotFound", err)
	}

	// The freed slot is bookable again.
	again := appointment(salon, "u3", date, "10:00")
	if err := s.ReserveSlot(ctx, again); err != nil {
		t.Fatalf("ReserveSlot(after cancel) error = %v", err)
	}

	got, err := s.GetAppointment(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetAppointment() error = %v", err)
	}
	if got.Status != models.StatusCancelled {
		t.Errorf("GetAppointment().Status = %q, want cancelled", got.Status)
	}

	day, err := s.ListAppointmentsBySalonDate(ctx, salon, date)
	if err != nil {
		t.Fatalf("ListAppointmentsBySalonDate() error = %v", err)
	}
	if len(day) != 3 {
		t.Errorf("ListAppointmentsBySalonDate() len = %d, want 3 (including cancelled)", len(day))
	}

	mine, err := s.ListAppointmentsByUser(ctx, "u2")
	if err != nil {
		t.Fatalf("ListAppointmentsByUser() error = %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("ListAppointmentsByUser() len = %d, want 3", len(mine))
	}
	if mine[0].Date != date || mine[len(mine)-1].Date != "2026-03-03" {
		t.Errorf("ListAppointmentsByUser() not ordered by date: %+v", mine)
	}
}

func testReserveSlotConcurrent(t *testing.T, s store.Store) {
	ctx := context.Background()
	salon := newID()
	const attempts = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     int
		taken   int
		unknown []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.ReserveSlot(ctx, appointment(salon, fmt.Sprintf("user-%d", i), "2026-03-02", "11:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, models.ErrSlotTaken):
				taken++
			default:
				unknown = append(unknown, err)
			}
		}(i)
	}
	wg.Wait()

	if len(unknown) > 0 {
		t.Fatalf("unexpected errors: %v", unknown)
	}
	if won != 1 || taken != attempts-1 {
		t.Errorf("won = %d, taken = %d, want 1 and %d", won, taken, attempts-1)
	}
}

func testQueue(t *testing.T, s store.Store) {
	ctx := context.Background()
	salon := newID()

	// Same timestamp for a and b: sequence breaks the tie.
	a := entry(salon, "a", base)
	b := entry(salon, "b", base)
	c := entry(salon, "c", base.Add(time.Minute))
	for _, e := range []*models.QueueEntry{a, b, c} {
		if err := s.EnqueueEntry(ctx, e); err != nil {
			t.Fatalf("EnqueueEntry(%s) error = %v", e.UserID, err)
		}
	}
	if !(a.Seq < b.Seq && b.Seq < c.Seq) {
		t.Errorf("Seq not increasing: a=%d b=%d c=%d", a.Seq, b.Seq, c.Seq)
	}

	if err := s.EnqueueEntry(ctx, entry(salon, "a", base.Add(time.Hour))); !errors.Is(err, models.ErrAlreadyQueued) {
		t.Errorf("EnqueueEntry(duplicate user) error = %v, want ErrAlreadyQueued", err)
	}
	other := newID()
	if err := s.EnqueueEntry(ctx, entry(other, "a", base)); err != nil {
		t.Errorf("EnqueueEntry(same user, other salon) error = %v", err)
	}

	assertOrder(t, s, salon, "a", "b", "c")

	removed, err := s.DeleteQueueEntryByUser(ctx, salon, "b")
	if err != nil {
		t.Fatalf("DeleteQueueEntryByUser() error = %v", err)
	}
	if removed.ID != b.ID {
		t.Errorf("DeleteQueueEntryByUser() removed %q, want %q", removed.ID, b.ID)
	}
	if _, err := s.DeleteQueueEntryByUser(ctx, salon, "b"); !errors.Is(err, models.ErrNotQueued) {
		t.Errorf("DeleteQueueEntryByUser(twice) error = %v, want ErrNotQueued", err)
	}
	assertOrder(t, s, salon, "a", "c")

	// A user who left may rejoin at the back.
	if err := s.EnqueueEntry(ctx, entry(salon, "b", base.Add(2*time.Minute))); err != nil {
		t.Fatalf("EnqueueEntry(rejoin) error = %v", err)
	}
	assertOrder(t, s, salon, "a", "c", "b")

	if _, err := s.DeleteQueueEntry(ctx, salon, c.ID); err != nil {
		t.Fatalf("DeleteQueueEntry() error = %v", err)
	}
	if _, err := s.DeleteQueueEntry(ctx, salon, c.ID); !errors.Is(err, models.ErrNotQueued) {
		t.Errorf("DeleteQueueEntry(twice) error = %v, want ErrNotQueued", err)
	}
	if _, err := s.DeleteQueueEntry(ctx, other, c.ID); !errors.Is(err, models.ErrNotQueued) {
		t.Errorf("DeleteQueueEntry(wrong salon) error = %v, want ErrNotQueued", err)
	}

	head, err := s.PopQueueHead(ctx, salon)
	if err != nil {
		t.Fatalf("PopQueueHead() error = %v", err)
	}
	if head.UserID != "a" {
		t.Errorf("PopQueueHead().UserID = %q, want a", head.UserID)
	}
	assertOrder(t, s, salon, "b")

	n, err := s.ClearQueues(ctx)
	if err != nil {
		t.Fatalf("ClearQueues() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ClearQueues() = %d, want 2", n)
	}
	if _, err := s.PopQueueHead(ctx, salon); !errors.Is(err, models.ErrQueueEmpty) {
		t.Errorf("PopQueueHead(empty) error = %v, want ErrQueueEmpty", err)
	}
	assertOrder(t, s, other)
}

func testEnqueueConcurrent(t *testing.T, s store.Store) {
	ctx := context.Background()
	salon := newID()
	const attempts = 12

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
		dup    int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.EnqueueEntry(ctx, entry(salon, "same-user", base))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, models.ErrAlreadyQueued):
				dup++
			default:
				t.Errorf("EnqueueEntry() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if joined != 1 || dup != attempts-1 {
		t.Errorf("joined = %d, duplicates = %d, want 1 and %d", joined, dup, attempts-1)
	}
	assertOrder(t, s, salon, "same-user")
}

func assertOrder(t *testing.T, s store.Store, salonID string, users ...string) {
	t.Helper()
	entries, err := s.ListQueue(context.Background(), salonID)
	if err != nil {
		t.Fatalf("ListQueue() error = %v", err)
	}
	got := make([]string, len(entries))
	for i := range entries {
		got[i] = entries[i].UserID
	}
	if fmt.Sprint(got) != fmt.Sprint(users) {
		t.Errorf("queue order = %v, want %v", got, users)
	}
}
