// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package models

import "time"

// Salon is a physical location that takes appointments and walk-ins.
type Salon struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Phone       string    `json:"phone,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SalonFilter narrows a salon listing. Query matches name or city,
// case-insensitively.
type SalonFilter struct {
	Query  string
	Limit  int
	Offset int
}

// Service is an item on a salon's menu (haircut, colour, facial...).
type Service struct {
	ID              string    `json:"id"`
	SalonID         string    `json:"salon_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

// Product is a retail or skincare product shown in the catalog.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
