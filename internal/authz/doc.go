// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package authz authorizes API requests with Casbin RBAC.
//
// The subject is the caller's role, the object the request path and the
// action the HTTP method. Roles inherit downward (admin > stylist >
// customer) through grouping rules, so each role's policy lists only what
// it adds. Paths use keyMatch2 patterns ("/api/v1/queue/:salonId/next").
//
// The model and policy are embedded; SecurityConfig.CasbinModelPath and
// CasbinPolicyPath override them with files on disk.
package authz
