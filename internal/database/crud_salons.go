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
	"strings"
	"time"

	"github.com/tomtom215/salonbook/internal/models"
)

const salonColumns = `id, name, address, city, phone, description, image_url, rating, created_at, updated_at`

func (db *DB) CreateSalon(ctx context.Context, s *models.Salon) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO salons (`+salonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Address, s.City, s.Phone, s.Description, s.ImageURL, s.Rating, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert salon: %w", err)
	}
	return nil
}

func (db *DB) UpdateSalon(ctx context.Context, s *models.Salon) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		UPDATE salons
		SET name = ?, address = ?, city = ?, phone = ?, description = ?, image_url = ?, rating = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Address, s.City, s.Phone, s.Description, s.ImageURL, s.Rating, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update salon: %w", err)
	}
	return requireAffected(res)
}

// DeleteSalon removes the salon with its service menu and queue. Its
// appointments are kept as history, and booked ones are cancelled.
func (db *DB) DeleteSalon(ctx context.Context, id string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return db.withRetry(ctx, "delete salon", func() error {
		return db.inTx(ctx, func(tx *sql.Tx) error {
			res, err := tx.ExecContext(ctx, `DELETE FROM salons WHERE id = ?`, id)
			if err != nil {
				return fmt.Errorf("delete salon: %w", err)
			}
			if err := requireAffected(res); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM services WHERE salon_id = ?`, id); err != nil {
				return fmt.Errorf("delete salon services: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM queue_entries WHERE salon_id = ?`, id); err != nil {
				return fmt.Errorf("delete salon queue: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE appointments SET status = ?, cancelled_at = ? WHERE salon_id = ? AND status = ?`,
				models.StatusCancelled, time.Now().UTC(), id, models.StatusBooked); err != nil {
				return fmt.Errorf("cancel salon appointments: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM slot_reservations WHERE salon_id = ?`, id); err != nil {
				return fmt.Errorf("release salon slots: %w", err)
			}
			return nil
		})
	})
}

func (db *DB) GetSalon(ctx context.Context, id string) (*models.Salon, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+salonColumns+` FROM salons WHERE id = ?`, id)
	s, err := scanSalon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query salon: %w", err)
	}
	return s, nil
}

// ListSalons matches f.Query against name and city, case-insensitively.
func (db *DB) ListSalons(ctx context.Context, f models.SalonFilter) ([]models.Salon, int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	where := ""
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		where = ` WHERE name ILIKE ? ESCAPE '\' OR city ILIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM salons`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count salons: %w", err)
	}

	query := `SELECT `+salonColumns+` FROM salons`+where+` ORDER BY name, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	if f.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, f.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list salons: %w", err)
	}
	defer closeRows(rows)

	salons := []models.Salon{}
	for rows.Next() {
		s, err := scanSalon(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan salon: %w", err)
		}
		salons = append(salons, *s)
	}
	return salons, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSalon(row scanner) (*models.Salon, error) {
	var s models.Salon
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone, &s.Description,
		&s.ImageURL, &s.Rating, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// requireAffected maps a zero-row UPDATE or DELETE to models.ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
