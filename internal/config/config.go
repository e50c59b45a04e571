// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package config loads Salonbook configuration from built-in defaults, an
// optional YAML file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	API         APIConfig         `koanf:"api"`
	Security    SecurityConfig    `koanf:"security"`
	Booking     BookingConfig     `koanf:"booking"`
	Queue       QueueConfig       `koanf:"queue"`
	NATS        NATSConfig        `koanf:"nats"`
	BeautyFacts BeautyFactsConfig `koanf:"beautyfacts"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// Store drivers accepted by DatabaseConfig.Driver.
const (
	DriverDuckDB = "duckdb"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// DatabaseConfig selects and configures the persistent store.
type DatabaseConfig struct {
	Driver    string `koanf:"driver"`
	Path      string `koanf:"path"`       // DuckDB file, ":memory:" for ephemeral
	MaxMemory string `koanf:"max_memory"` // DuckDB memory cap
	Threads   int    `koanf:"threads"`    // 0 = runtime.NumCPU()

	MongoURI      string        `koanf:"mongo_uri"`
	MongoDatabase string        `koanf:"mongo_database"`
	MongoTimeout  time.Duration `koanf:"mongo_timeout"`
}

// APIConfig holds pagination limits
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication, authorization and HTTP hardening settings
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"` // jwt or none
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	SessionStorePath  string        `koanf:"session_store_path"` // badger dir, "" = in-memory
	AdminEmail        string        `koanf:"admin_email"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	CasbinModelPath   string        `koanf:"casbin_model_path"`
	CasbinPolicyPath  string        `koanf:"casbin_policy_path"`
}

// BookingConfig describes the fixed daily slot calendar.
type BookingConfig struct {
	Open        string `koanf:"open"`  // HH:MM, first slot
	Close       string `koanf:"close"` // HH:MM, exclusive end of the last slot
	SlotMinutes int    `koanf:"slot_minutes"`
	Timezone    string `koanf:"timezone"` // IANA name; "Local" uses the host zone
}

// QueueConfig holds walk-in queue settings.
type QueueConfig struct {
	WaitPerPosition time.Duration `koanf:"wait_per_position"`
	DailyReset      bool          `koanf:"daily_reset"`
	ResetAt         string        `koanf:"reset_at"` // HH:MM in the booking timezone
}

// NATSConfig holds event bus settings. When disabled, events are routed
// through an in-process channel.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	StoreDir       string        `koanf:"store_dir"`
	StreamName     string        `koanf:"stream_name"`
	DurableName    string        `koanf:"durable_name"`
	QueueGroup     string        `koanf:"queue_group"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
}

// BeautyFactsConfig configures the Open Beauty Facts product lookup client.
type BeautyFactsConfig struct {
	Enabled  bool          `koanf:"enabled"`
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file
// (CONFIG_PATH or config.yaml) and environment variables.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Location resolves the booking timezone.
func (b *BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" || strings.EqualFold(b.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", b.Timezone, err)
	}
	return loc, nil
}

// SlotDuration returns the slot length as a time.Duration.
func (b *BookingConfig) SlotDuration() time.Duration {
	return time.Duration(b.SlotMinutes) * time.Minute
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// IsProduction reports whether the service runs with production checks.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
