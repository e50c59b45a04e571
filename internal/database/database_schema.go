// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates tables and sequences.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			email VARCHAR NOT NULL,
			email_key VARCHAR NOT NULL UNIQUE,
			phone VARCHAR,
			password_hash VARCHAR NOT NULL,
			role VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS salons (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			address VARCHAR,
			city VARCHAR,
			phone VARCHAR,
			description VARCHAR,
			image_url VARCHAR,
			rating DOUBLE DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id VARCHAR PRIMARY KEY,
			salon_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			duration_minutes INTEGER NOT NULL,
			price_cents BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			brand VARCHAR,
			category VARCHAR,
			description VARCHAR,
			price_cents BIGINT NOT NULL,
			image_url VARCHAR,
			barcode VARCHAR,
			created_at TIMESTAMP NOT NULL
		)`,

		// Appointments keep their full history, cancelled ones included.
		`CREATE TABLE IF NOT EXISTS appointments (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			salon_id VARCHAR NOT NULL,
			service_id VARCHAR,
			slot_date VARCHAR NOT NULL,
			slot_time VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			notes VARCHAR,
			created_at TIMESTAMP NOT NULL,
			cancelled_at TIMESTAMP
		)`,

		// One row per active appointment. The primary key is the lock.
		`CREATE TABLE IF NOT EXISTS slot_reservations (
			slot_key VARCHAR PRIMARY KEY,
			salon_id VARCHAR NOT NULL,
			slot_date VARCHAR NOT NULL,
			slot_time VARCHAR NOT NULL,
			appointment_id VARCHAR NOT NULL
		)`,

		`CREATE SEQUENCE IF NOT EXISTS queue_seq START 1`,

		`CREATE TABLE IF NOT EXISTS queue_entries (
			id VARCHAR PRIMARY KEY,
			salon_id VARCHAR NOT NULL,
			user_id VARCHAR NOT NULL,
			name VARCHAR,
			joined_at TIMESTAMP NOT NULL,
			seq BIGINT NOT NULL,
			UNIQUE (salon_id, user_id)
		)`,
	}
}

// createIndexes creates secondary indexes for the read paths.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

func getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_services_salon ON services(salon_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_user ON appointments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_salon_date ON appointments(salon_id, slot_date)`,
		`CREATE INDEX IF NOT EXISTS idx_slot_reservations_day ON slot_reservations(salon_id, slot_date)`,
	}
}
