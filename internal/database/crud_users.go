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

	"github.com/tomtom215/salonbook/internal/models"
)

const userColumns = `id, name, email, phone, password_hash, role, created_at`

// CreateUser inserts an account. Email uniqueness is case-insensitive.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, name, email, email_key, phone, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, strings.ToLower(u.Email), u.Phone, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID returns models.ErrNotFound for an unknown id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByEmail returns models.ErrNotFound for an unknown email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE email_key = ?`, strings.ToLower(email))
}

func (db *DB) queryUser(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var u models.User
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
