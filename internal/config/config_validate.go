// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and consistent
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateBooking(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("page sizes invalid: default=%d max=%d", c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when STORE_DRIVER=duckdb")
		}
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=mongo")
		}
		if c.Database.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE is required when STORE_DRIVER=mongo")
		}
	case DriverMemory:
		if c.IsProduction() {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of duckdb, mongo, memory; got %q", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "jwt":
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters")
		}
	case "none":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed in production")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be jwt or none; got %q", c.Security.AuthMode)
	}

	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if (c.Security.AdminEmail == "") != (c.Security.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.Security.AdminPassword != "" && len(c.Security.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	if !c.Security.RateLimitDisabled && (c.Security.RateLimitReqs < 1 || c.Security.RateLimitWindow <= 0) {
		return fmt.Errorf("rate limit requires positive RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW")
	}
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}

func (c *Config) validateBooking() error {
	open, err := ParseClock(c.Booking.Open)
	if err != nil {
		return fmt.Errorf("BOOKING_OPEN: %w", err)
	}
	closing, err := ParseClock(c.Booking.Close)
	if err != nil {
		return fmt.Errorf("BOOKING_CLOSE: %w", err)
	}
	if closing <= open {
		return fmt.Errorf("BOOKING_CLOSE (%s) must be after BOOKING_OPEN (%s)", c.Booking.Close, c.Booking.Open)
	}
	if c.Booking.SlotMinutes < 5 || c.Booking.SlotMinutes > closing-open {
		return fmt.Errorf("BOOKING_SLOT_MINUTES must be between 5 and the opening span, got %d", c.Booking.SlotMinutes)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("BOOKING_TIMEZONE: %w", err)
	}
	return nil
}

func (c *Config) validateQueue() error {
	if c.Queue.WaitPerPosition < time.Minute {
		return fmt.Errorf("QUEUE_WAIT_PER_POSITION must be at least 1m, got %s", c.Queue.WaitPerPosition)
	}
	if c.Queue.DailyReset {
		if _, err := ParseClock(c.Queue.ResetAt); err != nil {
			return fmt.Errorf("QUEUE_RESET_AT: %w", err)
		}
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if !c.NATS.EmbeddedServer && c.NATS.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true and NATS_EMBEDDED=false")
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required for the embedded server")
	}
	if c.NATS.StreamName == "" || strings.ContainsAny(c.NATS.StreamName, " .*>") {
		return fmt.Errorf("NATS_STREAM_NAME %q is not a valid stream name", c.NATS.StreamName)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console; got %q", c.Logging.Format)
	}
	return nil
}
