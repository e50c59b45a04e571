// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/salonbook/internal/auth"
	"github.com/tomtom215/salonbook/internal/models"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token *auth.Token  `json:"token"`
}

// Register creates a customer account.
//
// @Summary Register a customer account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account details"
// @Success 201 {object} APIResponse{data=AuthResponse}
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse "Email already registered"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !bindJSON(w, r, &req, false) {
		return
	}

	user, token, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}

	http.SetCookie(w, h.tokenCookie(r, token.AccessToken, token.ExpiresAt))
	rw.Created(AuthResponse{User: user, Token: token})
}

// Login authenticates with email and password. The token is returned in
// the body and as an HttpOnly cookie.
//
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=AuthResponse}
// @Failure 401 {object} APIResponse "Invalid email or password"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !bindJSON(w, r, &req, false) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}

	http.SetCookie(w, h.tokenCookie(r, token.AccessToken, token.ExpiresAt))
	rw.Success(AuthResponse{User: user, Token: token})
}

// Logout revokes the current session and clears the cookie.
//
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} APIResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	rw := NewResponseWriter(w, r)
	if err := h.auth.Logout(r.Context(), claims); err != nil {
		rw.ServiceError(err)
		return
	}

	http.SetCookie(w, h.tokenCookie(r, "", time.Unix(0, 0)))
	rw.Success(map[string]bool{"logged_out": true})
}

// Me returns the authenticated user.
//
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} APIResponse{data=models.User}
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	user, err := h.auth.Me(r.Context(), claims)
	rw := NewResponseWriter(w, r)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(user)
}
