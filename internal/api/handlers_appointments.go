// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/salonbook/internal/auth"
	"github.com/tomtom215/salonbook/internal/booking"
	"github.com/tomtom215/salonbook/internal/models"
)

// Slots returns the day's calendar with availability per slot.
//
// @Summary Slot availability
// @Tags Appointments
// @Produce json
// @Param id path string true "Salon ID"
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} APIResponse{data=models.DayAvailability}
// @Failure 400 {object} APIResponse "Malformed date"
// @Failure 404 {object} APIResponse
// @Security BearerAuth
// @Router /salons/{id}/slots [get]
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	day, err := h.bookings.Availability(r.Context(), chi.URLParam(r, "id"), h.dateParam(r))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(day)
}

// BookAppointment reserves a slot for the caller.
//
// @Summary Book an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param body body BookRequest true "Slot"
// @Success 201 {object} APIResponse{data=models.Appointment}
// @Failure 400 {object} APIResponse "Invalid slot or date in the past"
// @Failure 409 {object} APIResponse "Slot already booked"
// @Security BearerAuth
// @Router /appointments [post]
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	var req BookRequest
	if !bindJSON(w, r, &req, false) {
		return
	}

	appt, err := h.bookings.Book(r.Context(), booking.BookRequest{
		UserID:    claims.UserID,
		SalonID:   req.SalonID,
		Date:      req.Date,
		Time:      req.Time,
		ServiceID: req.ServiceID,
		Notes:     strings.TrimSpace(req.Notes),
	})
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(appt)
}

// MyAppointments lists the caller's appointments.
//
// @Summary My appointments
// @Tags Appointments
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.Appointment}
// @Security BearerAuth
// @Router /appointments [get]
func (h *Handler) MyAppointments(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	appts, err := h.bookings.ListForUser(r.Context(), claims.UserID)
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	rw.Success(appts)
}

// SalonAppointments lists a salon's appointment book for one day.
//
// @Summary Salon appointment book
// @Tags Appointments
// @Produce json
// @Param id path string true "Salon ID"
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} APIResponse{data=[]models.Appointment}
// @Security BearerAuth
// @Router /salons/{id}/appointments [get]
func (h *Handler) SalonAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.bookings.ListForSalon(r.Context(), chi.URLParam(r, "id"), h.dateParam(r))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	rw.Success(appts)
}

// GetAppointment returns one appointment owned by the caller, or any
// appointment for staff.
//
// @Summary Get appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} APIResponse{data=models.Appointment}
// @Failure 404 {object} APIResponse
// @Security BearerAuth
// @Router /appointments/{id} [get]
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	appt, err := h.bookings.Get(r.Context(), chi.URLParam(r, "id"), actorOf(claims))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(appt)
}

// CancelAppointment cancels an appointment and frees its slot.
//
// @Summary Cancel appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} APIResponse{data=models.Appointment}
// @Failure 403 {object} APIResponse "Not the owner"
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse "Already cancelled"
// @Security BearerAuth
// @Router /appointments/{id} [delete]
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	appt, err := h.bookings.Cancel(r.Context(), chi.URLParam(r, "id"), actorOf(claims))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(appt)
}

func (h *Handler) dateParam(r *http.Request) string {
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		return date
	}
	return h.bookings.Today()
}

func actorOf(c *auth.Claims) booking.Actor {
	return booking.Actor{UserID: c.UserID, Staff: c.IsStaff()}
}
