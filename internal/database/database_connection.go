// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/tomtom215/salonbook/internal/logging"
)

// configureConnectionPool sets connection pool parameters.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// isTransactionConflict reports a lost optimistic-concurrency race.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on") ||
		strings.Contains(errStr, "write-write conflict")
}

// isUniqueConstraintError reports a PRIMARY KEY or UNIQUE violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "primary key constraint")
}

// withRetry runs fn, retrying on transaction conflicts with 1ms, 2ms, 4ms...
// backoff. Any other error is returned as is.
func (db *DB) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < db.maxRetries; attempt++ {
		err := fn()
		if err == nil || !isTransactionConflict(err) {
			return err
		}
		lastErr = err

		backoff := time.Millisecond * time.Duration(1<<uint(attempt))
		logging.Debug().Str("op", op).Int("attempt", attempt+1).Dur("backoff", backoff).Msg("DuckDB transaction conflict, retrying")
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%s: max retries exceeded: %w", op, lastErr)
}

// inTx runs fn inside a transaction and commits it, rolling back on error.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// closeQuietly closes a resource in an error path where Close errors are
// not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeRows closes a result set and logs a failure.
func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close rows")
	}
}
