// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
	"github.com/tomtom215/salonbook/internal/store/storetest"
)

// testDBSemaphore serializes DuckDB instances across tests; concurrent CGO
// databases under CI pressure have been seen to hang.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB opens an in-memory database held for the whole test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := New(&config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestDuckDBConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return setupTestDB(t)
	})
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := db.initialize(); err != nil {
		t.Fatalf("second initialize() error = %v", err)
	}
}

func TestQueueSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salonbook.duckdb")
	ctx := context.Background()
	joined := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	func() {
		testDBSemaphore <- struct{}{}
		defer func() { <-testDBSemaphore }()

		db, err := New(&config.DatabaseConfig{Path: path, Threads: 1})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		defer db.Close()

		for i, user := range []string{"u1", "u2"} {
			e := &models.QueueEntry{ID: user + "-entry", SalonID: "s1", UserID: user, Name: user, JoinedAt: joined.Add(time.Duration(i) * time.Minute)}
			if err := db.EnqueueEntry(ctx, e); err != nil {
				t.Fatalf("EnqueueEntry(%s) error = %v", user, err)
			}
		}
	}()

	db := openTestDB(t, path)
	entries, err := db.ListQueue(ctx, "s1")
	if err != nil {
		t.Fatalf("ListQueue() error = %v", err)
	}
	if len(entries) != 2 || entries[0].UserID != "u1" || !entries[0].JoinedAt.Equal(joined) {
		t.Errorf("ListQueue() after reopen = %+v", entries)
	}

	// The sequence continues rather than restarting at 1.
	e := &models.QueueEntry{ID: "u3-entry", SalonID: "s1", UserID: "u3", JoinedAt: joined.Add(time.Hour)}
	if err := db.EnqueueEntry(ctx, e); err != nil {
		t.Fatalf("EnqueueEntry(u3) error = %v", err)
	}
	if e.Seq <= entries[1].Seq {
		t.Errorf("Seq after reopen = %d, want > %d", e.Seq, entries[1].Seq)
	}
}

func TestListSalonsQueryIsLiteral(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, s := range []models.Salon{
		{ID: "a", Name: "100% Hair", City: "Lisbon", CreatedAt: now, UpdatedAt: now},
		{ID: "b", Name: "Hair Studio", City: "Lisbon", CreatedAt: now, UpdatedAt: now},
	} {
		s := s
		if err := db.CreateSalon(ctx, &s); err != nil {
			t.Fatalf("CreateSalon() error = %v", err)
		}
	}

	got, total, err := db.ListSalons(ctx, models.SalonFilter{Query: "100%"})
	if err != nil {
		t.Fatalf("ListSalons() error = %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != "a" {
		t.Errorf("ListSalons(100%%) = %+v, total %d", got, total)
	}
}

func TestCreateServiceUnknownSalon(t *testing.T) {
	db := setupTestDB(t)
	err := db.CreateService(context.Background(), &models.Service{ID: "svc", SalonID: "missing", Name: "Cut", CreatedAt: time.Now()})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("CreateService(unknown salon) error = %v, want ErrNotFound", err)
	}
}
