// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/salonbook/internal/models"
)

// JoinQueue adds the caller to a salon's walk-in queue.
//
// @Summary Join walk-in queue
// @Tags Queue
// @Accept json
// @Produce json
// @Param salonId path string true "Salon ID"
// @Param body body JoinQueueRequest false "Display name override"
// @Success 201 {object} APIResponse{data=models.QueuePosition}
// @Failure 404 {object} APIResponse "Unknown salon"
// @Failure 409 {object} APIResponse "Already in queue"
// @Security BearerAuth
// @Router /queue/{salonId}/join [post]
func (h *Handler) JoinQueue(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	var req JoinQueueRequest
	if !bindJSON(w, r, &req, true) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = h.displayName(r, claims.UserID, claims.Email)
	}

	pos, err := h.queue.Join(r.Context(), chi.URLParam(r, "salonId"), claims.UserID, name)
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(pos)
}

// LeaveQueue removes the caller's own entry.
//
// @Summary Leave walk-in queue
// @Tags Queue
// @Param salonId path string true "Salon ID"
// @Success 204
// @Failure 404 {object} APIResponse "Not in queue"
// @Security BearerAuth
// @Router /queue/{salonId}/leave [delete]
func (h *Handler) LeaveQueue(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	rw := NewResponseWriter(w, r)
	if err := h.queue.Leave(r.Context(), chi.URLParam(r, "salonId"), claims.UserID); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// QueuePosition returns the caller's rank and estimated wait.
//
// @Summary My queue position
// @Tags Queue
// @Produce json
// @Param salonId path string true "Salon ID"
// @Success 200 {object} APIResponse{data=models.QueuePosition}
// @Failure 404 {object} APIResponse "Not in queue"
// @Security BearerAuth
// @Router /queue/{salonId}/position [get]
func (h *Handler) QueuePosition(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	pos, err := h.queue.Position(r.Context(), chi.URLParam(r, "salonId"), claims.UserID)
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(pos)
}

// ListQueue returns a salon's queue in rank order. Customers only see their
// own user ID.
//
// @Summary List walk-in queue
// @Tags Queue
// @Produce json
// @Param salonId path string true "Salon ID"
// @Success 200 {object} APIResponse{data=models.QueueSnapshot}
// @Security BearerAuth
// @Router /queue/{salonId} [get]
func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	snapshot, err := h.queue.Snapshot(r.Context(), chi.URLParam(r, "salonId"))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if !claims.IsStaff() {
		snapshot = snapshot.Redacted(claims.UserID)
	}
	if snapshot.Entries == nil {
		snapshot.Entries = []models.QueuePosition{}
	}
	rw.Success(snapshot)
}

// ServeNext pops the head of the queue.
//
// @Summary Serve next walk-in
// @Tags Queue
// @Produce json
// @Param salonId path string true "Salon ID"
// @Success 200 {object} APIResponse{data=models.QueueEntry}
// @Failure 404 {object} APIResponse "Queue is empty"
// @Security BearerAuth
// @Router /queue/{salonId}/next [post]
func (h *Handler) ServeNext(w http.ResponseWriter, r *http.Request) {
	entry, err := h.queue.ServeNext(r.Context(), chi.URLParam(r, "salonId"))
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(entry)
}

// RemoveQueueEntry deletes an entry by ID.
//
// @Summary Remove queue entry
// @Tags Queue
// @Param salonId path string true "Salon ID"
// @Param entryId path string true "Entry ID"
// @Success 204
// @Failure 404 {object} APIResponse "No such entry"
// @Security BearerAuth
// @Router /queue/{salonId}/entries/{entryId} [delete]
func (h *Handler) RemoveQueueEntry(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	err := h.queue.Remove(r.Context(), chi.URLParam(r, "salonId"), chi.URLParam(r, "entryId"))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// displayName picks the queue name for a user: their profile name, else
// the local part of their email.
func (h *Handler) displayName(r *http.Request, userID, email string) string {
	if user, err := h.store.GetUserByID(r.Context(), userID); err == nil && user.Name != "" {
		return user.Name
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return "Guest"
}
