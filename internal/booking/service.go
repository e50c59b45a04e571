// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/salonbook/internal/eventprocessor"
	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/metrics"
	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
)

// Store is the persistence the booking service needs.
type Store interface {
	store.Appointments
	GetSalon(ctx context.Context, id string) (*models.Salon, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
}

// BookRequest describes one booking attempt.
type BookRequest struct {
	UserID    string
	SalonID   string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
	ServiceID string
	Notes     string
}

// Actor identifies who is acting on an appointment.
type Actor struct {
	UserID string
	Staff  bool
}

// Service books and cancels appointments.
type Service struct {
	store    Store
	calendar *Calendar
	events   eventprocessor.EventPublisher
	now      func() time.Time
}

// NewService creates a booking service. events may be nil.
func NewService(st Store, cal *Calendar, events eventprocessor.EventPublisher) *Service {
	return &Service{
		store:    st,
		calendar: cal,
		events:   events,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current date in the calendar's time zone.
func (s *Service) Today() string {
	return s.calendar.Today(s.now())
}

// Calendar returns the slot calendar.
func (s *Service) Calendar() *Calendar {
	return s.calendar
}

// Book reserves a slot. It returns models.ErrInvalidSlot, ErrInvalidDate,
// ErrPastDate, ErrNotFound (salon or service) or ErrSlotTaken.
func (s *Service) Book(ctx context.Context, req BookRequest) (*models.Appointment, error) {
	appt, err := s.book(ctx, req)
	metrics.RecordBooking(err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("appointment_id", appt.ID).
		Str("salon_id", appt.SalonID).
		Str("date", appt.Date).
		Str("time", appt.Time).
		Msg("Appointment booked")
	s.publish(ctx, eventprocessor.NewAppointmentEvent(eventprocessor.EventAppointmentBooked, appt))
	return appt, nil
}

func (s *Service) book(ctx context.Context, req BookRequest) (*models.Appointment, error) {
	start, err := s.calendar.SlotStart(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !start.After(now) {
		return nil, models.ErrPastDate
	}

	if _, err := s.store.GetSalon(ctx, req.SalonID); err != nil {
		return nil, fmt.Errorf("salon %s: %w", req.SalonID, err)
	}
	if req.ServiceID != "" {
		svc, err := s.store.GetService(ctx, req.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", req.ServiceID, err)
		}
		if svc.SalonID != req.SalonID {
			return nil, fmt.Errorf("service %s is not offered by salon %s: %w", req.ServiceID, req.SalonID, models.ErrNotFound)
		}
	}

	appt := &models.Appointment{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		SalonID:   req.SalonID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Status:    models.StatusBooked,
		Notes:     req.Notes,
		CreatedAt: now.UTC(),
	}
	if err := s.store.ReserveSlot(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel frees an appointment's slot. Only the owner or staff may cancel;
// others get models.ErrForbidden.
func (s *Service) Cancel(ctx context.Context, id string, actor Actor) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && appt.UserID != actor.UserID {
		return nil, models.ErrForbidden
	}

	cancelled, err := s.store.CancelAppointment(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	metrics.RecordCancellation()

	logging.Ctx(ctx).Info().
		Str("appointment_id", id).
		Str("salon_id", cancelled.SalonID).
		Str("cancelled_by", actor.UserID).
		Msg("Appointment cancelled")
	s.publish(ctx, eventprocessor.NewAppointmentEvent(eventprocessor.EventAppointmentCancelled, cancelled))
	return cancelled, nil
}

// Get returns one appointment, enforcing the same ownership rule as Cancel.
func (s *Service) Get(ctx context.Context, id string, actor Actor) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && appt.UserID != actor.UserID {
		return nil, models.ErrNotFound
	}
	return appt, nil
}

// ListForUser returns a user's appointments.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.store.ListAppointmentsByUser(ctx, userID)
}

// ListForSalon returns a salon's appointments on date.
func (s *Service) ListForSalon(ctx context.Context, salonID, date string) ([]models.Appointment, error) {
	if _, err := s.calendar.ParseDate(date); err != nil {
		return nil, err
	}
	if _, err := s.store.GetSalon(ctx, salonID); err != nil {
		return nil, err
	}
	return s.store.ListAppointmentsBySalonDate(ctx, salonID, date)
}

// Availability returns every calendar slot for date with its booked flag.
// Slots that have already started are reported unavailable.
func (s *Service) Availability(ctx context.Context, salonID, date string) (*models.DayAvailability, error) {
	if _, err := s.calendar.ParseDate(date); err != nil {
		return nil, err
	}
	if _, err := s.store.GetSalon(ctx, salonID); err != nil {
		return nil, err
	}

	booked, err := s.store.BookedTimes(ctx, salonID, date)
	if err != nil {
		return nil, fmt.Errorf("booked times: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	now := s.now()
	day := &models.DayAvailability{SalonID: salonID, Date: date}
	for _, slot := range s.calendar.slots {
		start, _ := s.calendar.SlotStart(date, slot)
		day.Slots = append(day.Slots, models.SlotStatus{
			Time:      slot,
			Available: !taken[slot] && start.After(now),
		})
	}
	return day, nil
}

func (s *Service) publish(ctx context.Context, event *eventprocessor.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_type", event.Type).Msg("Failed to publish event")
	}
}
