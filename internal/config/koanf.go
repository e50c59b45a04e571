// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/salonbook/config.yaml",
	"/etc/salonbook/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Driver:        DriverDuckDB,
			Path:          "/data/salonbook.duckdb",
			MaxMemory:     "512MB",
			Threads:       0,
			MongoURI:      "mongodb://127.0.0.1:27017",
			MongoDatabase: "salonbook",
			MongoTimeout:  10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			AuthMode:          "jwt",
			SessionTimeout:    24 * time.Hour,
			SessionStorePath:  "/data/sessions",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Booking: BookingConfig{
			Open:        "09:00",
			Close:       "18:00",
			SlotMinutes: 30,
			Timezone:    "Local",
		},
		Queue: QueueConfig{
			WaitPerPosition: 10 * time.Minute,
			DailyReset:      true,
			ResetAt:         "00:00",
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
			StreamName:     "SALON_EVENTS",
			DurableName:    "salonbook-relay",
			QueueGroup:     "",
			MaxReconnects:  -1,
			ReconnectWait:  2 * time.Second,
		},
		BeautyFacts: BeautyFactsConfig{
			Enabled:  true,
			BaseURL:  "https://world.openbeautyfacts.org",
			Timeout:  10 * time.Second,
			CacheTTL: time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf layers defaults, the optional YAML file and environment
// variables (highest priority), then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as plain strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"store_driver":      "database.driver",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"mongo_uri":         "database.mongo_uri",
	"mongo_database":    "database.mongo_database",
	"mongo_timeout":     "database.mongo_timeout",

	"default_page_size": "api.default_page_size",
	"max_page_size":     "api.max_page_size",

	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"session_store_path":  "security.session_store_path",
	"admin_email":         "security.admin_email",
	"admin_password":      "security.admin_password",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"casbin_model_path":   "security.casbin_model_path",
	"casbin_policy_path":  "security.casbin_policy_path",

	"booking_open":         "booking.open",
	"booking_close":        "booking.close",
	"booking_slot_minutes": "booking.slot_minutes",
	"booking_timezone":     "booking.timezone",

	"queue_wait_per_position": "queue.wait_per_position",
	"queue_daily_reset":       "queue.daily_reset",
	"queue_reset_at":          "queue.reset_at",

	"nats_enabled":        "nats.enabled",
	"nats_url":            "nats.url",
	"nats_embedded":       "nats.embedded_server",
	"nats_store_dir":      "nats.store_dir",
	"nats_stream_name":    "nats.stream_name",
	"nats_durable_name":   "nats.durable_name",
	"nats_queue_group":    "nats.queue_group",
	"nats_max_reconnects": "nats.max_reconnects",
	"nats_reconnect_wait": "nats.reconnect_wait",

	"beautyfacts_enabled":   "beautyfacts.enabled",
	"beautyfacts_url":       "beautyfacts.base_url",
	"beautyfacts_timeout":   "beautyfacts.timeout",
	"beautyfacts_cache_ttl": "beautyfacts.cache_ttl",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path,
// returning "" to skip unrelated variables.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
