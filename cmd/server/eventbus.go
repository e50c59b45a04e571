// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/eventprocessor"
	"github.com/tomtom215/salonbook/internal/logging"
)

const (
	busModeNATS      = "nats"
	busModeInProcess = "in-process"
)

// eventBus owns the publisher and subscriber for domain events and the
// NATS resources behind them. It implements api.EventBusStatus and
// services.Lifecycle.
type eventBus struct {
	mode       string
	publisher  *eventprocessor.Publisher
	subscriber *eventprocessor.Subscriber

	server  *eventprocessor.EmbeddedServer
	conn    *natsgo.Conn
	streams *eventprocessor.StreamInitializer
}

// initEventBus connects to NATS JetStream when enabled, starting an
// embedded server if configured, and otherwise falls back to an
// in-process channel bus.
func initEventBus(ctx context.Context, cfg *config.NATSConfig) (*eventBus, error) {
	logger := logging.NewWatermillAdapter()

	if !cfg.Enabled {
		pub, sub := eventprocessor.NewInProcessBus(logger)
		logging.Info().Msg("NATS disabled, using in-process event bus")
		return &eventBus{mode: busModeInProcess, publisher: pub, subscriber: sub}, nil
	}

	bus := &eventBus{mode: busModeNATS}
	fail := func(err error) (*eventBus, error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = bus.Shutdown(shutdownCtx)
		return nil, err
	}

	url := cfg.URL
	if cfg.EmbeddedServer {
		serverCfg := eventprocessor.DefaultServerConfig(cfg.StoreDir)
		server, err := eventprocessor.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return fail(err)
		}
		bus.server = server
		url = server.ClientURL()
		logging.Info().Str("url", url).Str("store_dir", cfg.StoreDir).Msg("Embedded NATS server started")
	} else {
		logging.Info().Str("url", url).Msg("Using external NATS server")
	}

	nc, err := natsgo.Connect(url,
		natsgo.Name("salonbook-admin"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return fail(fmt.Errorf("connect to NATS: %w", err))
	}
	bus.conn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		return fail(fmt.Errorf("create JetStream context: %w", err))
	}
	streamCfg := eventprocessor.DefaultStreamConfig(cfg.StreamName)
	streams, err := eventprocessor.NewStreamInitializer(js, &streamCfg)
	if err != nil {
		return fail(err)
	}
	bus.streams = streams

	// Publishers do not auto-provision, so the stream must exist first.
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := streams.EnsureStream(initCtx); err != nil {
		return fail(fmt.Errorf("ensure stream %s: %w", cfg.StreamName, err))
	}

	pub, err := eventprocessor.NewPublisher(eventprocessor.PublisherConfigFrom(cfg, url), logger)
	if err != nil {
		return fail(err)
	}
	pub.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig("event-publisher")))
	bus.publisher = pub

	subCfg := eventprocessor.SubscriberConfigFrom(cfg, url)
	sub, err := eventprocessor.NewSubscriber(&subCfg, logger)
	if err != nil {
		return fail(err)
	}
	bus.subscriber = sub

	logging.Info().
		Str("stream", cfg.StreamName).
		Str("queue_group", cfg.QueueGroup).
		Msg("NATS JetStream event bus ready")
	return bus, nil
}

// Mode is "nats" or "in-process".
func (b *eventBus) Mode() string {
	return b.mode
}

// Healthy reports whether events can currently be delivered.
func (b *eventBus) Healthy(ctx context.Context) bool {
	if b.mode != busModeNATS {
		return true
	}
	if b.conn == nil || !b.conn.IsConnected() {
		return false
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return b.streams.IsHealthy(checkCtx)
}

// CircuitState returns the publish circuit breaker state.
func (b *eventBus) CircuitState() string {
	if b.publisher == nil {
		return "disabled"
	}
	return b.publisher.CircuitState()
}

// Start re-checks the stream. It runs on every supervisor (re)start, so a
// stream deleted on an external server is recreated.
func (b *eventBus) Start(ctx context.Context) error {
	if b.streams == nil {
		return nil
	}
	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := b.streams.EnsureStream(startCtx); err != nil {
		return err
	}
	return nil
}

// Shutdown closes the subscriber, the publisher, the admin connection and
// the embedded server, in that order.
func (b *eventBus) Shutdown(ctx context.Context) error {
	var errs []error
	if b.subscriber != nil {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if b.conn != nil {
		b.conn.Close()
	}
	if b.server != nil {
		if err := b.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop embedded NATS: %w", err))
		}
	}
	if len(errs) == 0 {
		logging.Info().Str("mode", b.mode).Msg("Event bus stopped")
	}
	return errors.Join(errs...)
}
