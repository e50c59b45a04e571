// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package mongostore

import (
	"strings"
	"time"

	"github.com/tomtom215/salonbook/internal/models"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	EmailKey     string    `bson:"email_key"`
	Phone        string    `bson:"phone,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID: u.ID, Name: u.Name, Email: u.Email, EmailKey: strings.ToLower(u.Email),
		Phone: u.Phone, PasswordHash: u.PasswordHash, Role: u.Role, CreatedAt: u.CreatedAt,
	}
}

func (d *userDoc) model() models.User {
	return models.User{
		ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone,
		PasswordHash: d.PasswordHash, Role: d.Role, CreatedAt: d.CreatedAt,
	}
}

type salonDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Address     string    `bson:"address,omitempty"`
	City        string    `bson:"city,omitempty"`
	Phone       string    `bson:"phone,omitempty"`
	Description string    `bson:"description,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty"`
	Rating      float64   `bson:"rating"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toSalonDoc(s *models.Salon) salonDoc {
	return salonDoc{
		ID: s.ID, Name: s.Name, Address: s.Address, City: s.City, Phone: s.Phone,
		Description: s.Description, ImageURL: s.ImageURL, Rating: s.Rating,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func (d *salonDoc) model() models.Salon {
	return models.Salon{
		ID: d.ID, Name: d.Name, Address: d.Address, City: d.City, Phone: d.Phone,
		Description: d.Description, ImageURL: d.ImageURL, Rating: d.Rating,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type serviceDoc struct {
	ID              string    `bson:"_id"`
	SalonID         string    `bson:"salon_id"`
	Name            string    `bson:"name"`
	DurationMinutes int       `bson:"duration_minutes"`
	PriceCents      int64     `bson:"price_cents"`
	CreatedAt       time.Time `bson:"created_at"`
}

func (d *serviceDoc) model() models.Service {
	return models.Service{
		ID: d.ID, SalonID: d.SalonID, Name: d.Name, DurationMinutes: d.DurationMinutes,
		PriceCents: d.PriceCents, CreatedAt: d.CreatedAt,
	}
}

type productDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Brand       string    `bson:"brand,omitempty"`
	Category    string    `bson:"category"`
	CategoryKey string    `bson:"category_key"`
	Description string    `bson:"description,omitempty"`
	PriceCents  int64     `bson:"price_cents"`
	ImageURL    string    `bson:"image_url,omitempty"`
	Barcode     string    `bson:"barcode,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d *productDoc) model() models.Product {
	return models.Product{
		ID: d.ID, Name: d.Name, Brand: d.Brand, Category: d.Category, Description: d.Description,
		PriceCents: d.PriceCents, ImageURL: d.ImageURL, Barcode: d.Barcode, CreatedAt: d.CreatedAt,
	}
}

type appointmentDoc struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"user_id"`
	SalonID     string     `bson:"salon_id"`
	ServiceID   string     `bson:"service_id,omitempty"`
	Date        string     `bson:"date"`
	Time        string     `bson:"time"`
	SlotKey     string     `bson:"slot_key"`
	Status      string     `bson:"status"`
	Notes       string     `bson:"notes,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty"`
}

func toAppointmentDoc(a *models.Appointment) appointmentDoc {
	return appointmentDoc{
		ID: a.ID, UserID: a.UserID, SalonID: a.SalonID, ServiceID: a.ServiceID,
		Date: a.Date, Time: a.Time, SlotKey: a.SlotKey(), Status: a.Status, Notes: a.Notes,
		CreatedAt: a.CreatedAt, CancelledAt: a.CancelledAt,
	}
}

func (d *appointmentDoc) model() models.Appointment {
	return models.Appointment{
		ID: d.ID, UserID: d.UserID, SalonID: d.SalonID, ServiceID: d.ServiceID,
		Date: d.Date, Time: d.Time, Status: d.Status, Notes: d.Notes,
		CreatedAt: d.CreatedAt, CancelledAt: d.CancelledAt,
	}
}

type queueDoc struct {
	ID       string    `bson:"_id"`
	SalonID  string    `bson:"salon_id"`
	UserID   string    `bson:"user_id"`
	Name     string    `bson:"name,omitempty"`
	JoinedAt time.Time `bson:"joined_at"`
	Seq      int64     `bson:"seq"`
}

func (d *queueDoc) model() models.QueueEntry {
	return models.QueueEntry{ID: d.ID, SalonID: d.SalonID, UserID: d.UserID, Name: d.Name, JoinedAt: d.JoinedAt, Seq: d.Seq}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}
