// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package mongostore

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/tomtom215/salonbook/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if _, err := s.col(colUsers).InsertOne(ctx, toUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	d, err := findOne[userDoc](ctx, s.col(colUsers), bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	u := d.model()
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	d, err := findOne[userDoc](ctx, s.col(colUsers), bson.M{"email_key": strings.ToLower(email)})
	if err != nil {
		return nil, err
	}
	u := d.model()
	return &u, nil
}
