// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package store defines the persistence contract shared by the DuckDB,
// MongoDB and in-memory backends.
//
// Two operations carry the booking kernel's guarantees and must be atomic
// in every backend:
//
//   - ReserveSlot inserts an appointment only if no active appointment holds
//     the same (salon, date, time); otherwise it returns models.ErrSlotTaken.
//   - EnqueueEntry inserts a queue entry only if the user holds no entry in
//     that salon's queue; otherwise it returns models.ErrAlreadyQueued.
package store

import (
	"context"
	"time"

	"github.com/tomtom215/salonbook/internal/models"
)

// Users persists accounts.
type Users interface {
	// CreateUser returns models.ErrEmailTaken for a duplicate email.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Salons persists salons.
type Salons interface {
	CreateSalon(ctx context.Context, s *models.Salon) error
	UpdateSalon(ctx context.Context, s *models.Salon) error
	DeleteSalon(ctx context.Context, id string) error
	GetSalon(ctx context.Context, id string) (*models.Salon, error)
	// ListSalons returns one page and the total number of matches.
	ListSalons(ctx context.Context, f models.SalonFilter) ([]models.Salon, int, error)
}

// Catalog persists salon service menus and the product catalog.
type Catalog interface {
	CreateService(ctx context.Context, s *models.Service) error
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context, salonID string) ([]models.Service, error)

	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// ListProducts filters by category when category is non-empty.
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
}

// Appointments persists the slot calendar.
type Appointments interface {
	// ReserveSlot atomically books a.SlotKey() or returns models.ErrSlotTaken.
	ReserveSlot(ctx context.Context, a *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	// CancelAppointment frees the slot. Cancelling twice returns
	// models.ErrAlreadyCancelled.
	CancelAppointment(ctx context.Context, id string, at time.Time) (*models.Appointment, error)
	ListAppointmentsByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListAppointmentsBySalonDate(ctx context.Context, salonID, date string) ([]models.Appointment, error)
	// BookedTimes returns the slot times held by active appointments.
	BookedTimes(ctx context.Context, salonID, date string) ([]string, error)
}

// Queue persists walk-in queue entries.
type Queue interface {
	// EnqueueEntry assigns e.Seq and inserts e, or returns models.ErrAlreadyQueued.
	EnqueueEntry(ctx context.Context, e *models.QueueEntry) error
	// ListQueue returns a salon's entries ordered by (JoinedAt, Seq).
	ListQueue(ctx context.Context, salonID string) ([]models.QueueEntry, error)
	// DeleteQueueEntryByUser returns models.ErrNotQueued when nothing matches.
	DeleteQueueEntryByUser(ctx context.Context, salonID, userID string) (*models.QueueEntry, error)
	// DeleteQueueEntry returns models.ErrNotQueued when nothing matches.
	DeleteQueueEntry(ctx context.Context, salonID, entryID string) (*models.QueueEntry, error)
	// PopQueueHead removes and returns rank 1, or models.ErrQueueEmpty.
	PopQueueHead(ctx context.Context, salonID string) (*models.QueueEntry, error)
	// ClearQueues empties every salon's queue and returns the number removed.
	ClearQueues(ctx context.Context) (int, error)
}

// Store is the full persistence contract.
type Store interface {
	Users
	Salons
	Catalog
	Appointments
	Queue

	Ping(ctx context.Context) error
	Close() error
}
