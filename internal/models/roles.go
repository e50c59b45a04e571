// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package models

// Role constants. These align with the Casbin policy in internal/authz/policy.csv.
const (
	// RoleCustomer books appointments and joins walk-in queues.
	RoleCustomer = "customer"

	// RoleStylist serves the queue and sees a salon's appointment book.
	RoleStylist = "stylist"

	// RoleAdmin manages salons, catalogs and users.
	RoleAdmin = "admin"
)

// ValidRoles contains all valid role names.
var ValidRoles = []string{RoleCustomer, RoleStylist, RoleAdmin}

// IsValidRole checks if a role name is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaffRole reports whether role may act on behalf of a salon.
func IsStaffRole(role string) bool {
	return role == RoleStylist || role == RoleAdmin
}
