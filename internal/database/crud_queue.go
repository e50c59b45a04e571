// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/salonbook/internal/models"
)

const queueColumns = `id, salon_id, user_id, name, joined_at, seq`

// EnqueueEntry draws e.Seq from queue_seq. UNIQUE (salon_id, user_id)
// enforces one entry per user per salon.
func (db *DB) EnqueueEntry(ctx context.Context, e *models.QueueEntry) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var seq int64
	err := db.withRetry(ctx, "enqueue", func() error {
		return db.conn.QueryRowContext(ctx, `
			INSERT INTO queue_entries (`+queueColumns+`)
			VALUES (?, ?, ?, ?, ?, nextval('queue_seq'))
			RETURNING seq`,
			e.ID, e.SalonID, e.UserID, e.Name, e.JoinedAt).Scan(&seq)
	})
	switch {
	case err == nil:
		e.Seq = seq
		return nil
	case isUniqueConstraintError(err), isTransactionConflict(err):
		return models.ErrAlreadyQueued
	default:
		return fmt.Errorf("enqueue: %w", err)
	}
}

func (db *DB) ListQueue(ctx context.Context, salonID string) ([]models.QueueEntry, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+queueColumns+` FROM queue_entries WHERE salon_id = ? ORDER BY joined_at, seq`, salonID)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	defer closeRows(rows)

	entries := []models.QueueEntry{}
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (db *DB) DeleteQueueEntryByUser(ctx context.Context, salonID, userID string) (*models.QueueEntry, error) {
	return db.deleteQueueEntry(ctx, `
		DELETE FROM queue_entries WHERE salon_id = ? AND user_id = ?
		RETURNING `+queueColumns, salonID, userID)
}

func (db *DB) DeleteQueueEntry(ctx context.Context, salonID, entryID string) (*models.QueueEntry, error) {
	return db.deleteQueueEntry(ctx, `
		DELETE FROM queue_entries WHERE salon_id = ? AND id = ?
		RETURNING `+queueColumns, salonID, entryID)
}

// PopQueueHead deletes rank 1 in a single statement.
func (db *DB) PopQueueHead(ctx context.Context, salonID string) (*models.QueueEntry, error) {
	e, err := db.deleteQueueEntry(ctx, `
		DELETE FROM queue_entries
		WHERE id = (
			SELECT id FROM queue_entries
			WHERE salon_id = ?
			ORDER BY joined_at, seq
			LIMIT 1
		)
		RETURNING `+queueColumns, salonID)
	if errors.Is(err, models.ErrNotQueued) {
		return nil, models.ErrQueueEmpty
	}
	return e, err
}

func (db *DB) ClearQueues(ctx context.Context) (int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	err := db.withRetry(ctx, "clear queues", func() error {
		res, err := db.conn.ExecContext(ctx, `DELETE FROM queue_entries`)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear queues: %w", err)
	}
	return int(n), nil
}

// deleteQueueEntry runs a DELETE ... RETURNING that removes at most one row.
// Losing a conflict to a concurrent delete of the same row reads as "gone".
func (db *DB) deleteQueueEntry(ctx context.Context, query string, args ...any) (*models.QueueEntry, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var e *models.QueueEntry
	err := db.withRetry(ctx, "dequeue", func() error {
		var err error
		e, err = scanQueueEntry(db.conn.QueryRowContext(ctx, query, args...))
		return err
	})
	switch {
	case err == nil:
		return e, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, models.ErrNotQueued
	default:
		return nil, fmt.Errorf("dequeue: %w", err)
	}
}

func scanQueueEntry(row scanner) (*models.QueueEntry, error) {
	var e models.QueueEntry
	if err := row.Scan(&e.ID, &e.SalonID, &e.UserID, &e.Name, &e.JoinedAt, &e.Seq); err != nil {
		return nil, err
	}
	return &e, nil
}
