// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/salonbook/internal/models"
)

var queueOrder = bson.D{{Key: "joined_at", Value: 1}, {Key: "seq", Value: 1}}

// EnqueueEntry draws e.Seq from the counters collection, then inserts.
// A lost insert burns a sequence number, which only leaves a gap.
func (s *Store) EnqueueEntry(ctx context.Context, e *models.QueueEntry) error {
	seq, err := s.nextSeq(ctx, queueSeqCounter)
	if err != nil {
		return err
	}

	doc := queueDoc{ID: e.ID, SalonID: e.SalonID, UserID: e.UserID, Name: e.Name, JoinedAt: e.JoinedAt, Seq: seq}
	if _, err := s.col(colQueue).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrAlreadyQueued
		}
		return fmt.Errorf("enqueue: %w", err)
	}
	e.Seq = seq
	return nil
}

func (s *Store) ListQueue(ctx context.Context, salonID string) ([]models.QueueEntry, error) {
	return findAll(ctx, s.col(colQueue), bson.M{"salon_id": salonID}, options.Find().SetSort(queueOrder), (*queueDoc).model)
}

func (s *Store) DeleteQueueEntryByUser(ctx context.Context, salonID, userID string) (*models.QueueEntry, error) {
	return s.findOneAndDelete(ctx, bson.M{"salon_id": salonID, "user_id": userID}, models.ErrNotQueued)
}

func (s *Store) DeleteQueueEntry(ctx context.Context, salonID, entryID string) (*models.QueueEntry, error) {
	return s.findOneAndDelete(ctx, bson.M{"salon_id": salonID, "_id": entryID}, models.ErrNotQueued)
}

func (s *Store) PopQueueHead(ctx context.Context, salonID string) (*models.QueueEntry, error) {
	return s.findOneAndDelete(ctx, bson.M{"salon_id": salonID}, models.ErrQueueEmpty)
}

func (s *Store) ClearQueues(ctx context.Context) (int, error) {
	res, err := s.col(colQueue).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("clear queues: %w", err)
	}
	return int(res.DeletedCount), nil
}

// findOneAndDelete removes the first match in queue order.
func (s *Store) findOneAndDelete(ctx context.Context, filter bson.M, notFound error) (*models.QueueEntry, error) {
	var d queueDoc
	err := s.col(colQueue).FindOneAndDelete(ctx, filter, options.FindOneAndDelete().SetSort(queueOrder)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	e := d.model()
	return &e, nil
}

func (s *Store) nextSeq(ctx context.Context, name string) (int64, error) {
	var c counterDoc
	err := s.col(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return c.Seq, nil
}
