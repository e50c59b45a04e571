// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/salonbook/internal/auth"
	"github.com/tomtom215/salonbook/internal/authz"
	"github.com/tomtom215/salonbook/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authn *auth.Middleware, authzMW *authz.Middleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		authn:         authn,
		authz:         authzMW,
	}
}

// chiMiddleware adapts internal/middleware functions to chi.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chiMiddleware(middleware.AccessLog))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/register", h.Register)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			router.protect(r)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		router.protect(r)

		write := router.chiMiddleware.RateLimitWrite()

		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middleware.Compression))

			r.Route("/salons", func(r chi.Router) {
				r.Get("/", h.ListSalons)
				r.With(write).Post("/", h.CreateSalon)
				r.Get("/{id}", h.GetSalon)
				r.With(write).Put("/{id}", h.UpdateSalon)
				r.With(write).Delete("/{id}", h.DeleteSalon)
				r.Get("/{id}/services", h.ListServices)
				r.With(write).Post("/{id}/services", h.CreateService)
				r.Get("/{id}/slots", h.Slots)
				r.Get("/{id}/appointments", h.SalonAppointments)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.With(write).Post("/", h.CreateProduct)
				r.Get("/lookup/{barcode}", h.LookupProduct)
				r.Get("/{id}", h.GetProduct)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.MyAppointments)
				r.With(write).Post("/", h.BookAppointment)
				r.Get("/{id}", h.GetAppointment)
				r.With(write).Delete("/{id}", h.CancelAppointment)
			})

			r.Route("/queue/{salonId}", func(r chi.Router) {
				r.Get("/", h.ListQueue)
				r.With(write).Post("/join", h.JoinQueue)
				r.Delete("/leave", h.LeaveQueue)
				r.Get("/position", h.QueuePosition)
				r.Post("/next", h.ServeNext)
				r.Delete("/entries/{entryId}", h.RemoveQueueEntry)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}

// protect adds authentication, then policy enforcement.
func (router *Router) protect(r chi.Router) {
	if router.authn != nil {
		r.Use(router.authn.Authenticate)
	}
	if router.authz != nil {
		r.Use(router.authz.Authorize)
	}
}
