// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package mongostore is the MongoDB implementation of store.Store.
//
// Slot atomicity comes from a unique partial index on appointments.slot_key
// restricted to status "booked"; a cancelled appointment drops out of the
// index and frees the slot. Queue membership is a unique index on
// (salon_id, user_id) and sequence numbers come from a counters document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
)

const (
	colUsers        = "users"
	colSalons       = "salons"
	colServices     = "services"
	colProducts     = "products"
	colAppointments = "appointments"
	colQueue        = "queue_entries"
	colCounters     = "counters"

	queueSeqCounter = "queue_seq"
)

// Store implements store.Store on MongoDB.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

var _ store.Store = (*Store)(nil)

// New connects, pings and ensures indexes.
func New(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	timeout := cfg.MongoTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dbName := cfg.MongoDatabase
	if dbName == "" {
		dbName = "salonbook"
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName("salonbook").
		SetTimeout(timeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName), timeout: timeout}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.Info().Str("database", dbName).Msg("MongoDB store ready")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	collections := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colServices: {
			{Keys: bson.D{{Key: "salon_id", Value: 1}, {Key: "name", Value: 1}}},
		},
		colProducts: {
			{Keys: bson.D{{Key: "category_key", Value: 1}}},
		},
		colAppointments: {
			{
				Keys: bson.D{{Key: "slot_key", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetName("unique_active_slot").
					SetPartialFilterExpression(bson.M{"status": models.StatusBooked}),
			},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "salon_id", Value: 1}, {Key: "date", Value: 1}}},
		},
		colQueue: {
			{
				Keys:    bson.D{{Key: "salon_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("one_entry_per_user"),
			},
			{Keys: bson.D{{Key: "salon_id", Value: 1}, {Key: "joined_at", Value: 1}, {Key: "seq", Value: 1}}},
		},
	}

	for name, indexes := range collections {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("mongo: failed to create indexes for %s: %w", name, err)
		}
	}
	return nil
}

// Database exposes the underlying database, mainly for tests.
func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// findOne decodes a single document, mapping "no documents" to models.ErrNotFound.
func findOne[T any](ctx context.Context, c *mongo.Collection, filter any) (*T, error) {
	var doc T
	err := c.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.Name(), err)
	}
	return &doc, nil
}

// findAll decodes every match and converts it with conv.
func findAll[D any, M any](ctx context.Context, c *mongo.Collection, filter any, opts *options.FindOptionsBuilder, conv func(*D) M) ([]M, error) {
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.Name(), err)
	}
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Name(), err)
	}
	out := make([]M, 0, len(docs))
	for i := range docs {
		out = append(out, conv(&docs[i]))
	}
	return out, nil
}
