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

const (
	serviceColumns = `id, salon_id, name, duration_minutes, price_cents, created_at`
	productColumns = `id, name, brand, category, description, price_cents, image_url, barcode, created_at`
)

// CreateService returns models.ErrNotFound when the salon does not exist.
func (db *DB) CreateService(ctx context.Context, s *models.Service) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		SELECT ?::VARCHAR, id, ?::VARCHAR, ?::INTEGER, ?::BIGINT, ?::TIMESTAMP FROM salons WHERE id = ?`,
		s.ID, s.Name, s.DurationMinutes, s.PriceCents, s.CreatedAt, s.SalonID)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return requireAffected(res)
}

func (db *DB) GetService(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var s models.Service
	err := db.conn.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id).
		Scan(&s.ID, &s.SalonID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query service: %w", err)
	}
	return &s, nil
}

func (db *DB) ListServices(ctx context.Context, salonID string) ([]models.Service, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE salon_id = ? ORDER BY name, id`, salonID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer closeRows(rows)

	services := []models.Service{}
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.SalonID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (db *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Brand, p.Category, p.Description, p.PriceCents, p.ImageURL, p.Barcode, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (db *DB) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	p, err := scanProduct(db.conn.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (db *DB) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `SELECT `+productColumns+` FROM products`
	var args []any
	if category != "" {
		query += ` WHERE lower(category) = lower(?)`
		args = append(args, category)
	}
	query += ` ORDER BY name, id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer closeRows(rows)

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Description,
		&p.PriceCents, &p.ImageURL, &p.Barcode, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
