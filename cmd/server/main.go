// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"

	_ "github.com/tomtom215/salonbook/docs" // swagger spec
	"github.com/tomtom215/salonbook/internal/api"
	"github.com/tomtom215/salonbook/internal/auth"
	"github.com/tomtom215/salonbook/internal/authz"
	"github.com/tomtom215/salonbook/internal/beautyfacts"
	"github.com/tomtom215/salonbook/internal/booking"
	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/eventprocessor"
	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/queue"
	"github.com/tomtom215/salonbook/internal/supervisor"
	"github.com/tomtom215/salonbook/internal/supervisor/services"
	ws "github.com/tomtom215/salonbook/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("store", cfg.Database.Driver).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("nats", cfg.NATS.Enabled).
		Msg("Starting Salonbook")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Salonbook stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component and blocks until ctx is cancelled. Resources
// are released by defers before it returns.
//
//nolint:gocyclo // sequential wiring
func run(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	sessions, err := auth.OpenBadgerSessionStore(cfg.Security.SessionStorePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	jwtManager, err := newJWTManager(&cfg.Security)
	if err != nil {
		return err
	}
	authService := auth.NewService(st, jwtManager, sessions)
	if err := authService.BootstrapAdmin(ctx, cfg.Security.AdminEmail, cfg.Security.AdminPassword); err != nil {
		return err
	}

	var userLimiter *auth.UserRateLimiter
	if !cfg.Security.RateLimitDisabled {
		userLimiter = auth.NewUserRateLimiter(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
	} else {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	authn := auth.NewMiddleware(jwtManager, sessions, cfg.Security.AuthMode, userLimiter)

	enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{
		ModelPath:  cfg.Security.CasbinModelPath,
		PolicyPath: cfg.Security.CasbinPolicyPath,
		CacheTTL:   5 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer enforcer.Close()

	bus, err := initEventBus(ctx, &cfg.NATS)
	if err != nil {
		return fmt.Errorf("init event bus: %w", err)
	}

	calendar, err := booking.NewCalendar(&cfg.Booking)
	if err != nil {
		return err
	}
	bookings := booking.NewService(st, calendar, bus.publisher)
	queueService := queue.NewService(st, cfg.Queue.WaitPerPosition, bus.publisher)

	hub := ws.NewHub()
	wsHandler, err := eventprocessor.NewWebSocketHandler(hub)
	if err != nil {
		return err
	}
	relay := eventprocessor.NewRelay(bus.subscriber, wsHandler)

	products := beautyfacts.NewClient(&cfg.BeautyFacts)

	handler := api.NewHandler(api.Deps{
		Store:    st,
		Auth:     authService,
		Bookings: bookings,
		Queue:    queueService,
		Products: products,
		Hub:      hub,
		Events:   bus,
		Config:   cfg,
	})
	router := api.NewRouter(handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)),
		authn,
		authz.NewMiddleware(enforcer))

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		return err
	}

	type supervised struct {
		layer supervisor.Layer
		svc   suture.Service
	}
	plan := []supervised{
		{supervisor.LayerMessaging, services.NewWebSocketHubService(hub)},
		{supervisor.LayerMessaging, services.NewLifecycleService("event-bus", bus, shutdownTimeout)},
		{supervisor.LayerMessaging, relay},
		{supervisor.LayerAPI, services.NewHTTPServerService(server, addr, shutdownTimeout)},
	}
	if userLimiter != nil {
		plan = append(plan, supervised{supervisor.LayerData, services.NewIntervalService("user-limiter-cleanup", time.Minute, func(context.Context) {
			if n := userLimiter.Cleanup(); n > 0 {
				logging.Debug().Int("removed", n).Msg("Pruned idle rate limiter buckets")
			}
		})})
	}
	if products.Enabled() {
		plan = append(plan, supervised{supervisor.LayerData, services.NewIntervalService("product-cache-prune", 5*time.Minute, func(context.Context) {
			products.PruneCache()
		})})
	}
	if cfg.Queue.DailyReset {
		reset, err := queue.NewResetService(queueService, cfg.Queue.ResetAt, calendar.Location())
		if err != nil {
			return err
		}
		plan = append(plan, supervised{supervisor.LayerData, reset})
	}
	for _, p := range plan {
		if _, err := tree.Add(p.layer, p.svc); err != nil {
			return err
		}
	}

	logging.Info().Interface("services", tree.Services()).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return nil
}

// newJWTManager builds the token manager. With AUTH_MODE=none requests are
// not authenticated, but register and login still issue tokens, so an
// ephemeral secret is generated when none is configured.
func newJWTManager(cfg *config.SecurityConfig) (*auth.JWTManager, error) {
	if cfg.AuthMode == auth.AuthModeNone {
		logging.Warn().Msg("Authentication is DISABLED (AUTH_MODE=none); every request acts as the dev admin")
		if len(cfg.JWTSecret) < 32 {
			secret, err := ephemeralSecret()
			if err != nil {
				return nil, err
			}
			dev := *cfg
			dev.JWTSecret = secret
			return auth.NewJWTManager(&dev)
		}
	}
	return auth.NewJWTManager(cfg)
}

func ephemeralSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
