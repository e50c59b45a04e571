// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/salonbook/internal/models"
)

// ReserveSlot relies on the unique_active_slot partial index.
func (s *Store) ReserveSlot(ctx context.Context, a *models.Appointment) error {
	if _, err := s.col(colAppointments).InsertOne(ctx, toAppointmentDoc(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrSlotTaken
		}
		return fmt.Errorf("reserve slot: %w", err)
	}
	return nil
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	d, err := findOne[appointmentDoc](ctx, s.col(colAppointments), bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	a := d.model()
	return &a, nil
}

// CancelAppointment only matches booked documents, so two concurrent
// cancels cannot both succeed.
func (s *Store) CancelAppointment(ctx context.Context, id string, at time.Time) (*models.Appointment, error) {
	var d appointmentDoc
	err := s.col(colAppointments).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.StatusBooked},
		bson.M{"$set": bson.M{"status": models.StatusCancelled, "cancelled_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, countErr := s.col(colAppointments).CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return nil, fmt.Errorf("cancel appointment: %w", countErr)
		}
		if n == 0 {
			return nil, models.ErrNotFound
		}
		return nil, models.ErrAlreadyCancelled
	}
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	a := d.model()
	return &a, nil
}

func (s *Store) ListAppointmentsByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return findAll(ctx, s.col(colAppointments), bson.M{"user_id": userID}, appointmentOrder(), (*appointmentDoc).model)
}

func (s *Store) ListAppointmentsBySalonDate(ctx context.Context, salonID, date string) ([]models.Appointment, error) {
	return findAll(ctx, s.col(colAppointments), bson.M{"salon_id": salonID, "date": date}, appointmentOrder(), (*appointmentDoc).model)
}

func (s *Store) BookedTimes(ctx context.Context, salonID, date string) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "time", Value: 1}}).
		SetProjection(bson.M{"time": 1})
	filter := bson.M{"salon_id": salonID, "date": date, "status": models.StatusBooked}
	return findAll(ctx, s.col(colAppointments), filter, opts, func(d *appointmentDoc) string { return d.Time })
}

func appointmentOrder() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
		{Key: "created_at", Value: 1},
	})
}
