// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package eventprocessor

import (
	"time"

	"github.com/tomtom215/salonbook/internal/config"
)

// PublisherConfig holds NATS publisher settings.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // Nats-Msg-Id deduplication
}

// SubscriberConfig holds NATS subscriber settings.
type SubscriberConfig struct {
	URL        string
	StreamName string

	// DurableName and QueueGroup are only set for work-sharing consumers.
	// The WebSocket relay leaves both empty so every instance sees every event.
	DurableName string
	QueueGroup  string

	SubscribersCount int
	MaxReconnects    int
	ReconnectWait    time.Duration
	AckWaitTimeout   time.Duration
	CloseTimeout     time.Duration
	MaxDeliver       int
	MaxAckPending    int
}

// ServerConfig holds embedded NATS server settings.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// StreamConfig holds JetStream stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// CircuitBreakerConfig holds gobreaker settings for the publisher.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultPublisherConfig returns publisher settings for the given URL.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024,
		EnableTrackMsgID: true,
	}
}

// DefaultSubscriberConfig returns fan-out subscriber settings bound to stream.
func DefaultSubscriberConfig(url, stream string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		StreamName:       stream,
		SubscribersCount: 1,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     10 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    256,
	}
}

// DefaultServerConfig returns embedded server settings on the standard port.
func DefaultServerConfig(storeDir string) ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          storeDir,
		JetStreamMaxMem:   64 * 1024 * 1024,
		JetStreamMaxStore: 1024 * 1024 * 1024,
	}
}

// DefaultStreamConfig returns the SALON_EVENTS stream layout.
// Events are notifications, so a day of retention is plenty.
func DefaultStreamConfig(name string) StreamConfig {
	return StreamConfig{
		Name:            name,
		Subjects:        []string{Topic},
		MaxAge:          24 * time.Hour,
		MaxBytes:        256 * 1024 * 1024,
		MaxMsgs:         -1,
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// DefaultCircuitBreakerConfig returns breaker settings for the named component.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// PublisherConfigFrom maps application config to publisher settings.
func PublisherConfigFrom(cfg *config.NATSConfig, url string) PublisherConfig {
	pc := DefaultPublisherConfig(url)
	pc.MaxReconnects = cfg.MaxReconnects
	if cfg.ReconnectWait > 0 {
		pc.ReconnectWait = cfg.ReconnectWait
	}
	return pc
}

// SubscriberConfigFrom maps application config to subscriber settings.
// A durable name is only used together with a queue group.
func SubscriberConfigFrom(cfg *config.NATSConfig, url string) SubscriberConfig {
	sc := DefaultSubscriberConfig(url, cfg.StreamName)
	sc.MaxReconnects = cfg.MaxReconnects
	if cfg.ReconnectWait > 0 {
		sc.ReconnectWait = cfg.ReconnectWait
	}
	if cfg.QueueGroup != "" {
		sc.QueueGroup = cfg.QueueGroup
		sc.DurableName = cfg.DurableName
	}
	return sc
}
