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
	"time"

	"github.com/tomtom215/salonbook/internal/models"
)

const appointmentColumns = `id, user_id, salon_id, service_id, slot_date, slot_time, status, notes, created_at, cancelled_at`

// ReserveSlot inserts the slot reservation and the appointment in one
// transaction. A duplicate slot_key means the slot is taken.
func (db *DB) ReserveSlot(ctx context.Context, a *models.Appointment) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	err := db.withRetry(ctx, "reserve slot", func() error {
		return db.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO slot_reservations (slot_key, salon_id, slot_date, slot_time, appointment_id)
				VALUES (?, ?, ?, ?, ?)`,
				a.SlotKey(), a.SalonID, a.Date, a.Time, a.ID); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO appointments (`+appointmentColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID, a.UserID, a.SalonID, a.ServiceID, a.Date, a.Time, a.Status, a.Notes, a.CreatedAt, a.CancelledAt)
			return err
		})
	})
	switch {
	case err == nil:
		return nil
	case isUniqueConstraintError(err):
		return models.ErrSlotTaken
	case isTransactionConflict(err):
		// Every retry lost the race to another booking of the same key.
		return models.ErrSlotTaken
	default:
		return fmt.Errorf("reserve slot: %w", err)
	}
}

func (db *DB) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	a, err := scanAppointment(db.conn.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query appointment: %w", err)
	}
	return a, nil
}

// CancelAppointment flips the status and releases the reservation together.
func (db *DB) CancelAppointment(ctx context.Context, id string, at time.Time) (*models.Appointment, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var out *models.Appointment
	err := db.withRetry(ctx, "cancel appointment", func() error {
		return db.inTx(ctx, func(tx *sql.Tx) error {
			a, err := scanAppointment(tx.QueryRowContext(ctx,
				`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id))
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrNotFound
			}
			if err != nil {
				return err
			}
			if !a.Active() {
				return models.ErrAlreadyCancelled
			}

			if _, err := tx.ExecContext(ctx,
				`UPDATE appointments SET status = ?, cancelled_at = ? WHERE id = ?`,
				models.StatusCancelled, at, id); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM slot_reservations WHERE appointment_id = ?`, id); err != nil {
				return err
			}

			a.Status = models.StatusCancelled
			a.CancelledAt = &at
			out = a
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrAlreadyCancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return out, nil
}

func (db *DB) ListAppointmentsByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return db.listAppointments(ctx, `WHERE user_id = ?`, userID)
}

func (db *DB) ListAppointmentsBySalonDate(ctx context.Context, salonID, date string) ([]models.Appointment, error) {
	return db.listAppointments(ctx, `WHERE salon_id = ? AND slot_date = ?`, salonID, date)
}

// BookedTimes reads the reservation table, which only holds active slots.
func (db *DB) BookedTimes(ctx context.Context, salonID, date string) ([]string, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT slot_time FROM slot_reservations
		WHERE salon_id = ? AND slot_date = ?
		ORDER BY slot_time`, salonID, date)
	if err != nil {
		return nil, fmt.Errorf("booked times: %w", err)
	}
	defer closeRows(rows)

	times := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan booked time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (db *DB) listAppointments(ctx context.Context, where string, args ...any) ([]models.Appointment, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments `+where+` ORDER BY slot_date, slot_time, created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer closeRows(rows)

	list := []models.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func scanAppointment(row scanner) (*models.Appointment, error) {
	var (
		a           models.Appointment
		cancelledAt sql.NullTime
	)
	err := row.Scan(&a.ID, &a.UserID, &a.SalonID, &a.ServiceID, &a.Date, &a.Time,
		&a.Status, &a.Notes, &a.CreatedAt, &cancelledAt)
	if err != nil {
		return nil, err
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		a.CancelledAt = &t
	}
	return &a, nil
}
