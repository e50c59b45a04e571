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
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/salonbook/internal/models"
)

// CreateService returns models.ErrNotFound when the salon does not exist.
func (s *Store) CreateService(ctx context.Context, svc *models.Service) error {
	n, err := s.col(colSalons).CountDocuments(ctx, bson.M{"_id": svc.SalonID})
	if err != nil {
		return fmt.Errorf("check salon: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}

	doc := serviceDoc{
		ID: svc.ID, SalonID: svc.SalonID, Name: svc.Name, DurationMinutes: svc.DurationMinutes,
		PriceCents: svc.PriceCents, CreatedAt: svc.CreatedAt,
	}
	if _, err := s.col(colServices).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (s *Store) GetService(ctx context.Context, id string) (*models.Service, error) {
	d, err := findOne[serviceDoc](ctx, s.col(colServices), bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	svc := d.model()
	return &svc, nil
}

func (s *Store) ListServices(ctx context.Context, salonID string) ([]models.Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	return findAll(ctx, s.col(colServices), bson.M{"salon_id": salonID}, opts, (*serviceDoc).model)
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	doc := productDoc{
		ID: p.ID, Name: p.Name, Brand: p.Brand, Category: p.Category, CategoryKey: strings.ToLower(p.Category),
		Description: p.Description, PriceCents: p.PriceCents, ImageURL: p.ImageURL, Barcode: p.Barcode,
		CreatedAt: p.CreatedAt,
	}
	if _, err := s.col(colProducts).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	d, err := findOne[productDoc](ctx, s.col(colProducts), bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	p := d.model()
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category_key"] = strings.ToLower(category)
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	return findAll(ctx, s.col(colProducts), filter, opts, (*productDoc).model)
}
