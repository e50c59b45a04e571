// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/models"
)

// ListSalons returns a page of salons, optionally filtered by name or city.
//
// @Summary List salons
// @Tags Salons
// @Produce json
// @Param q query string false "Name or city filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} APIResponse{data=[]models.Salon}
// @Security BearerAuth
// @Router /salons [get]
func (h *Handler) ListSalons(w http.ResponseWriter, r *http.Request) {
	def, maxSize := h.pageBounds()
	limit, offset := pagination(r, def, maxSize)

	salons, total, err := h.store.ListSalons(r.Context(), models.SalonFilter{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  limit,
		Offset: offset,
	})
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if salons == nil {
		salons = []models.Salon{}
	}

	rw.SuccessWithPagination(salons, &PaginationMeta{
		Total:   total,
		Count:   len(salons),
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+len(salons) < total,
	})
}

// GetSalon returns one salon.
//
// @Summary Get salon
// @Tags Salons
// @Produce json
// @Param id path string true "Salon ID"
// @Success 200 {object} APIResponse{data=models.Salon}
// @Failure 404 {object} APIResponse
// @Security BearerAuth
// @Router /salons/{id} [get]
func (h *Handler) GetSalon(w http.ResponseWriter, r *http.Request) {
	salon, err := h.store.GetSalon(r.Context(), chi.URLParam(r, "id"))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(salon)
}

// CreateSalon adds a salon.
//
// @Summary Create salon
// @Tags Salons
// @Accept json
// @Produce json
// @Param body body SalonRequest true "Salon"
// @Success 201 {object} APIResponse{data=models.Salon}
// @Security BearerAuth
// @Router /salons [post]
func (h *Handler) CreateSalon(w http.ResponseWriter, r *http.Request) {
	var req SalonRequest
	if !bindJSON(w, r, &req, false) {
		return
	}

	now := time.Now().UTC()
	salon := &models.Salon{ID: uuid.New().String(), CreatedAt: now}
	applySalonRequest(salon, &req, now)

	rw := NewResponseWriter(w, r)
	if err := h.store.CreateSalon(r.Context(), salon); err != nil {
		rw.ServiceError(err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("salon_id", salon.ID).Str("name", salon.Name).Msg("Salon created")
	rw.Created(salon)
}

// UpdateSalon replaces a salon's details.
//
// @Summary Update salon
// @Tags Salons
// @Accept json
// @Produce json
// @Param id path string true "Salon ID"
// @Param body body SalonRequest true "Salon"
// @Success 200 {object} APIResponse{data=models.Salon}
// @Failure 404 {object} APIResponse
// @Security BearerAuth
// @Router /salons/{id} [put]
func (h *Handler) UpdateSalon(w http.ResponseWriter, r *http.Request) {
	var req SalonRequest
	if !bindJSON(w, r, &req, false) {
		return
	}

	rw := NewResponseWriter(w, r)
	salon, err := h.store.GetSalon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	applySalonRequest(salon, &req, time.Now().UTC())

	if err := h.store.UpdateSalon(r.Context(), salon); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(salon)
}

// DeleteSalon removes a salon.
//
// @Summary Delete salon
// @Tags Salons
// @Param id path string true "Salon ID"
// @Success 204
// @Failure 404 {object} APIResponse
// @Security BearerAuth
// @Router /salons/{id} [delete]
func (h *Handler) DeleteSalon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rw := NewResponseWriter(w, r)
	if err := h.store.DeleteSalon(r.Context(), id); err != nil {
		rw.ServiceError(err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("salon_id", id).Msg("Salon deleted")
	rw.NoContent()
}

// ListServices returns a salon's service menu.
//
// @Summary List salon services
// @Tags Salons
// @Produce json
// @Param id path string true "Salon ID"
// @Success 200 {object} APIResponse{data=[]models.Service}
// @Security BearerAuth
// @Router /salons/{id}/services [get]
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	salonID := chi.URLParam(r, "id")
	if _, err := h.store.GetSalon(r.Context(), salonID); err != nil {
		rw.ServiceError(err)
		return
	}

	services, err := h.store.ListServices(r.Context(), salonID)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if services == nil {
		services = []models.Service{}
	}
	rw.Success(services)
}

// CreateService adds an item to a salon's service menu.
//
// @Summary Create salon service
// @Tags Salons
// @Accept json
// @Produce json
// @Param id path string true "Salon ID"
// @Param body body ServiceRequest true "Service"
// @Success 201 {object} APIResponse{data=models.Service}
// @Security BearerAuth
// @Router /salons/{id}/services [post]
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if !bindJSON(w, r, &req, false) {
		return
	}

	rw := NewResponseWriter(w, r)
	salonID := chi.URLParam(r, "id")
	if _, err := h.store.GetSalon(r.Context(), salonID); err != nil {
		rw.ServiceError(err)
		return
	}

	svc := &models.Service{
		ID:              uuid.New().String(),
		SalonID:         salonID,
		Name:            strings.TrimSpace(req.Name),
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.store.CreateService(r.Context(), svc); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(svc)
}

func applySalonRequest(s *models.Salon, req *SalonRequest, now time.Time) {
	s.Name = strings.TrimSpace(req.Name)
	s.Address = strings.TrimSpace(req.Address)
	s.City = strings.TrimSpace(req.City)
	s.Phone = strings.TrimSpace(req.Phone)
	s.Description = req.Description
	s.ImageURL = req.ImageURL
	s.Rating = req.Rating
	s.UpdatedAt = now
}
