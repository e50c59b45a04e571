// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/salonbook/internal/eventprocessor"
	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/metrics"
	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
)

// DefaultWaitPerPosition is the estimated service time per queued customer.
const DefaultWaitPerPosition = 10 * time.Minute

// Store is the persistence the queue service needs.
type Store interface {
	store.Queue
	GetSalon(ctx context.Context, id string) (*models.Salon, error)
}

// Service manages walk-in queues.
type Service struct {
	store           Store
	waitPerPosition time.Duration
	events          eventprocessor.EventPublisher
	now             func() time.Time
}

// NewService creates a queue service. A non-positive wait uses
// DefaultWaitPerPosition; events may be nil.
func NewService(st Store, waitPerPosition time.Duration, events eventprocessor.EventPublisher) *Service {
	if waitPerPosition <= 0 {
		waitPerPosition = DefaultWaitPerPosition
	}
	return &Service{
		store:           st,
		waitPerPosition: waitPerPosition,
		events:          events,
		now:             time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Join appends the user to a salon's queue and returns their position.
func (s *Service) Join(ctx context.Context, salonID, userID, name string) (*models.QueuePosition, error) {
	if _, err := s.store.GetSalon(ctx, salonID); err != nil {
		metrics.RecordQueueOperation("join", err)
		return nil, fmt.Errorf("salon %s: %w", salonID, err)
	}

	entry := &models.QueueEntry{
		ID:       uuid.New().String(),
		SalonID:  salonID,
		UserID:   userID,
		Name:     name,
		JoinedAt: s.now().UTC(),
	}
	err := s.store.EnqueueEntry(ctx, entry)
	metrics.RecordQueueOperation("join", err)
	if err != nil {
		return nil, err
	}

	snapshot := s.changed(ctx, eventprocessor.EventQueueJoined, salonID, entry)
	if snapshot != nil {
		for i := range snapshot.Entries {
			if snapshot.Entries[i].Entry.ID == entry.ID {
				pos := snapshot.Entries[i]
				return &pos, nil
			}
		}
	}
	return s.Position(ctx, salonID, userID)
}

// Leave removes the user's own entry.
func (s *Service) Leave(ctx context.Context, salonID, userID string) error {
	entry, err := s.store.DeleteQueueEntryByUser(ctx, salonID, userID)
	metrics.RecordQueueOperation("leave", err)
	if err != nil {
		return err
	}
	s.changed(ctx, eventprocessor.EventQueueLeft, salonID, entry)
	return nil
}

// Remove deletes an entry by ID. Staff only; authorization is enforced by
// the caller.
func (s *Service) Remove(ctx context.Context, salonID, entryID string) error {
	entry, err := s.store.DeleteQueueEntry(ctx, salonID, entryID)
	metrics.RecordQueueOperation("remove", err)
	if err != nil {
		return err
	}
	s.changed(ctx, eventprocessor.EventQueueRemoved, salonID, entry)
	return nil
}

// ServeNext pops rank 1. It returns models.ErrQueueEmpty for an empty queue.
func (s *Service) ServeNext(ctx context.Context, salonID string) (*models.QueueEntry, error) {
	entry, err := s.store.PopQueueHead(ctx, salonID)
	metrics.RecordQueueOperation("serve", err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("salon_id", salonID).
		Str("entry_id", entry.ID).
		Str("user_id", entry.UserID).
		Dur("waited", s.now().Sub(entry.JoinedAt)).
		Msg("Walk-in served")
	s.changed(ctx, eventprocessor.EventQueueServed, salonID, entry)
	return entry, nil
}

// Position returns the user's rank, or models.ErrNotQueued.
func (s *Service) Position(ctx context.Context, salonID, userID string) (*models.QueuePosition, error) {
	positions, err := s.List(ctx, salonID)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		if positions[i].Entry.UserID == userID {
			return &positions[i], nil
		}
	}
	return nil, models.ErrNotQueued
}

// List returns a salon's queue ordered by rank.
func (s *Service) List(ctx context.Context, salonID string) ([]models.QueuePosition, error) {
	entries, err := s.store.ListQueue(ctx, salonID)
	if err != nil {
		return nil, fmt.Errorf("list queue %s: %w", salonID, err)
	}
	return Rank(entries, s.waitPerPosition), nil
}

// Snapshot returns the whole queue for a salon.
func (s *Service) Snapshot(ctx context.Context, salonID string) (*models.QueueSnapshot, error) {
	positions, err := s.List(ctx, salonID)
	if err != nil {
		return nil, err
	}
	return &models.QueueSnapshot{SalonID: salonID, Length: len(positions), Entries: positions}, nil
}

// Reset empties every salon's queue and returns the number of entries removed.
func (s *Service) Reset(ctx context.Context) (int, error) {
	n, err := s.store.ClearQueues(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear queues: %w", err)
	}
	metrics.RecordQueueReset()
	// An empty salon ID fans the cleared snapshot out to every client.
	empty := &models.QueueSnapshot{Entries: []models.QueuePosition{}}
	s.publish(ctx, eventprocessor.NewQueueEvent(eventprocessor.EventQueueReset, "", nil, empty))
	return n, nil
}

// Rank assigns positions and estimated waits to entries already ordered by
// (JoinedAt, Seq). Waits are rounded to the nearest minute.
func Rank(entries []models.QueueEntry, waitPerPosition time.Duration) []models.QueuePosition {
	out := make([]models.QueuePosition, len(entries))
	for i := range entries {
		wait := (waitPerPosition * time.Duration(i)).Round(time.Minute)
		out[i] = models.QueuePosition{
			Entry:                entries[i],
			Position:             i + 1,
			EstimatedWaitMinutes: int(wait / time.Minute),
			QueueLength:          len(entries),
		}
	}
	return out
}

// changed refreshes metrics and publishes an event after a mutation. The
// snapshot is returned so Join can report the new position without a
// second read.
func (s *Service) changed(ctx context.Context, eventType, salonID string, entry *models.QueueEntry) *models.QueueSnapshot {
	snapshot, err := s.Snapshot(ctx, salonID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("salon_id", salonID).Msg("Failed to read queue after change")
		return nil
	}
	metrics.SetQueueLength(salonID, snapshot.Length)
	s.publish(ctx, eventprocessor.NewQueueEvent(eventType, salonID, entry, snapshot))
	return snapshot
}

func (s *Service) publish(ctx context.Context, event *eventprocessor.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_type", event.Type).Msg("Failed to publish event")
	}
}
