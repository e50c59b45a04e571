// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/database"
	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/store"
	"github.com/tomtom215/salonbook/internal/store/mongostore"
)

// openStore opens the store selected by cfg.Driver.
func openStore(ctx context.Context, cfg *config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverDuckDB:
		db, err := database.New(cfg)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("path", cfg.Path).Msg("DuckDB store opened")
		return db, nil

	case config.DriverMongo:
		st, err := mongostore.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("database", cfg.MongoDatabase).Msg("MongoDB store connected")
		return st, nil

	case config.DriverMemory:
		logging.Warn().Msg("Using in-memory store; all data is lost on restart")
		return store.NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
