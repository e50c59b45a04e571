// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package models

import "time"

// QueueEntry is one walk-in customer waiting at a salon.
// Entries are ordered by JoinedAt, then Seq for equal timestamps.
type QueueEntry struct {
	ID       string    `json:"id"`
	SalonID  string    `json:"salon_id"`
	UserID   string    `json:"user_id,omitempty"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
	Seq      int64     `json:"seq"`
}

// Before reports whether e is ahead of other in the queue.
func (e *QueueEntry) Before(other *QueueEntry) bool {
	if !e.JoinedAt.Equal(other.JoinedAt) {
		return e.JoinedAt.Before(other.JoinedAt)
	}
	return e.Seq < other.Seq
}

// QueuePosition is an entry together with its derived rank and wait.
type QueuePosition struct {
	Entry                QueueEntry `json:"entry"`
	Position             int        `json:"position"` // 1-based rank
	EstimatedWaitMinutes int        `json:"estimated_wait_minutes"`
	QueueLength          int        `json:"queue_length"`
}

// QueueSnapshot is the whole ordered queue for a salon.
type QueueSnapshot struct {
	SalonID string          `json:"salon_id"`
	Length  int             `json:"length"`
	Entries []QueuePosition `json:"entries"`
}

// Redacted returns a copy of s with every user ID cleared except viewerID's.
// An empty viewerID clears them all.
func (s *QueueSnapshot) Redacted(viewerID string) *QueueSnapshot {
	out := &QueueSnapshot{SalonID: s.SalonID, Length: s.Length, Entries: make([]QueuePosition, len(s.Entries))}
	for i, p := range s.Entries {
		if viewerID == "" || p.Entry.UserID != viewerID {
			p.Entry.UserID = ""
		}
		out.Entries[i] = p
	}
	return out
}
