// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/salonbook/internal/models"
)

func (s *Store) CreateSalon(ctx context.Context, salon *models.Salon) error {
	if _, err := s.col(colSalons).InsertOne(ctx, toSalonDoc(salon)); err != nil {
		return fmt.Errorf("insert salon: %w", err)
	}
	return nil
}

func (s *Store) UpdateSalon(ctx context.Context, salon *models.Salon) error {
	doc := toSalonDoc(salon)
	res, err := s.col(colSalons).ReplaceOne(ctx, bson.M{"_id": salon.ID}, doc)
	if err != nil {
		return fmt.Errorf("update salon: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteSalon removes the salon with its service menu and queue. Its
// appointments are kept as history, and booked ones are cancelled.
func (s *Store) DeleteSalon(ctx context.Context, id string) error {
	res, err := s.col(colSalons).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete salon: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	if _, err := s.col(colServices).DeleteMany(ctx, bson.M{"salon_id": id}); err != nil {
		return fmt.Errorf("delete salon services: %w", err)
	}
	if _, err := s.col(colQueue).DeleteMany(ctx, bson.M{"salon_id": id}); err != nil {
		return fmt.Errorf("delete salon queue: %w", err)
	}
	if _, err := s.col(colAppointments).UpdateMany(ctx,
		bson.M{"salon_id": id, "status": models.StatusBooked},
		bson.M{"$set": bson.M{"status": models.StatusCancelled, "cancelled_at": time.Now().UTC()}},
	); err != nil {
		return fmt.Errorf("cancel salon appointments: %w", err)
	}
	return nil
}

func (s *Store) GetSalon(ctx context.Context, id string) (*models.Salon, error) {
	d, err := findOne[salonDoc](ctx, s.col(colSalons), bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	salon := d.model()
	return &salon, nil
}

func (s *Store) ListSalons(ctx context.Context, f models.SalonFilter) ([]models.Salon, int, error) {
	filter := bson.M{}
	if q := strings.TrimSpace(f.Query); q != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter["$or"] = []bson.M{{"name": re}, {"city": re}}
	}

	total, err := s.col(colSalons).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count salons: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	if f.Offset > 0 {
		opts.SetSkip(int64(f.Offset))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	salons, err := findAll(ctx, s.col(colSalons), filter, opts, (*salonDoc).model)
	if err != nil {
		return nil, 0, err
	}
	return salons, int(total), nil
}
