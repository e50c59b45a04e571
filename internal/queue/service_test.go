// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/eventprocessor"
	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventprocessor.DomainEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, e *eventprocessor.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) last() *eventprocessor.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

// tickingClock returns a fixed instant, or advances by step on every call
// when step is non-zero.
type tickingClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func newTestService(t *testing.T, step time.Duration) (*Service, *recordingPublisher) {
	t.Helper()
	st := store.NewMemory()
	for _, id := range []string{"salon-1", "salon-2"} {
		if err := st.CreateSalon(context.Background(), &models.Salon{ID: id, Name: id}); err != nil {
			t.Fatalf("CreateSalon() error = %v", err)
		}
	}
	pub := &recordingPublisher{}
	svc := NewService(st, 0, pub)
	clock := &tickingClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), step: step}
	svc.SetClock(clock.Now)
	return svc, pub
}

func TestJoinPositionsAndWaits(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()

	for i, user := range []string{"ann", "ben", "cat"} {
		pos, err := svc.Join(ctx, "salon-1", user, user)
		if err != nil {
			t.Fatalf("Join(%s) error = %v", user, err)
		}
		if pos.Position != i+1 {
			t.Errorf("Join(%s) Position = %d, want %d", user, pos.Position, i+1)
		}
		if want := 10 * i; pos.EstimatedWaitMinutes != want {
			t.Errorf("Join(%s) EstimatedWaitMinutes = %d, want %d", user, pos.EstimatedWaitMinutes, want)
		}
		if pos.QueueLength != i+1 {
			t.Errorf("Join(%s) QueueLength = %d, want %d", user, pos.QueueLength, i+1)
		}
	}

	pos, err := svc.Position(ctx, "salon-1", "cat")
	if err != nil {
		t.Fatalf("Position(cat) error = %v", err)
	}
	if pos.Position != 3 || pos.EstimatedWaitMinutes != 20 {
		t.Errorf("Position(cat) = %d / %d min, want 3 / 20 min", pos.Position, pos.EstimatedWaitMinutes)
	}
}

func TestJoinSameTimestampKeepsArrivalOrder(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()
	for _, user := range []string{"ann", "ben", "cat", "dan"} {
		if _, err := svc.Join(ctx, "salon-1", user, user); err != nil {
			t.Fatalf("Join(%s) error = %v", user, err)
		}
	}
	list, err := svc.List(ctx, "salon-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for i, want := range []string{"ann", "ben", "cat", "dan"} {
		if list[i].Entry.UserID != want || list[i].Position != i+1 {
			t.Errorf("List()[%d] = %s at %d, want %s at %d", i, list[i].Entry.UserID, list[i].Position, want, i+1)
		}
	}
}

func TestJoinTwiceRejected(t *testing.T) {
	svc, _ := newTestService(t, time.Second)
	ctx := context.Background()
	if _, err := svc.Join(ctx, "salon-1", "ann", "Ann"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if _, err := svc.Join(ctx, "salon-1", "ann", "Ann"); !errors.Is(err, models.ErrAlreadyQueued) {
		t.Errorf("second Join() = %v, want ErrAlreadyQueued", err)
	}
	// Membership is per salon.
	if _, err := svc.Join(ctx, "salon-2", "ann", "Ann"); err != nil {
		t.Errorf("Join(other salon) = %v, want nil", err)
	}
	if _, err := svc.Join(ctx, "nope", "ann", "Ann"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Join(unknown salon) = %v, want ErrNotFound", err)
	}
}

func TestLeaveShiftsPositions(t *testing.T) {
	svc, pub := newTestService(t, time.Second)
	ctx := context.Background()
	for _, user := range []string{"ann", "ben", "cat"} {
		_, _ = svc.Join(ctx, "salon-1", user, user)
	}

	if err := svc.Leave(ctx, "salon-1", "ann"); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}
	pos, _ := svc.Position(ctx, "salon-1", "cat")
	if pos.Position != 2 || pos.EstimatedWaitMinutes != 10 {
		t.Errorf("Position(cat) after leave = %d / %d, want 2 / 10", pos.Position, pos.EstimatedWaitMinutes)
	}

	ev := pub.last()
	if ev.Type != eventprocessor.EventQueueLeft || ev.Queue == nil || ev.Queue.Length != 2 {
		t.Errorf("last event = %+v, want queue.left with length 2", ev)
	}

	if err := svc.Leave(ctx, "salon-1", "ann"); !errors.Is(err, models.ErrNotQueued) {
		t.Errorf("Leave() twice = %v, want ErrNotQueued", err)
	}
	if _, err := svc.Position(ctx, "salon-1", "ann"); !errors.Is(err, models.ErrNotQueued) {
		t.Errorf("Position(left user) = %v, want ErrNotQueued", err)
	}
}

func TestRemoveAndServeNext(t *testing.T) {
	svc, pub := newTestService(t, time.Second)
	ctx := context.Background()
	var entries []*models.QueuePosition
	for _, user := range []string{"ann", "ben", "cat"} {
		p, _ := svc.Join(ctx, "salon-1", user, user)
		entries = append(entries, p)
	}

	if err := svc.Remove(ctx, "salon-1", entries[1].Entry.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := svc.Remove(ctx, "salon-2", entries[2].Entry.ID); !errors.Is(err, models.ErrNotQueued) {
		t.Errorf("Remove(wrong salon) = %v, want ErrNotQueued", err)
	}

	served, err := svc.ServeNext(ctx, "salon-1")
	if err != nil {
		t.Fatalf("ServeNext() error = %v", err)
	}
	if served.UserID != "ann" {
		t.Errorf("ServeNext() = %s, want ann", served.UserID)
	}
	if ev := pub.last(); ev.Type != eventprocessor.EventQueueServed || ev.Entry.UserID != "ann" {
		t.Errorf("last event = %+v, want queue.served for ann", ev)
	}

	pos, _ := svc.Position(ctx, "salon-1", "cat")
	if pos.Position != 1 || pos.EstimatedWaitMinutes != 0 {
		t.Errorf("Position(cat) = %d / %d, want 1 / 0", pos.Position, pos.EstimatedWaitMinutes)
	}

	_, _ = svc.ServeNext(ctx, "salon-1")
	if _, err := svc.ServeNext(ctx, "salon-1"); !errors.Is(err, models.ErrQueueEmpty) {
		t.Errorf("ServeNext(empty) = %v, want ErrQueueEmpty", err)
	}
}

func TestSnapshotAndReset(t *testing.T) {
	svc, pub := newTestService(t, time.Second)
	ctx := context.Background()
	_, _ = svc.Join(ctx, "salon-1", "ann", "Ann")
	_, _ = svc.Join(ctx, "salon-2", "ben", "Ben")

	snap, err := svc.Snapshot(ctx, "salon-1")
	if err != nil || snap.Length != 1 || snap.SalonID != "salon-1" {
		t.Fatalf("Snapshot() = %+v, %v, want one entry", snap, err)
	}

	n, err := svc.Reset(ctx)
	if err != nil || n != 2 {
		t.Errorf("Reset() = %d, %v, want 2", n, err)
	}
	if ev := pub.last(); ev.Type != eventprocessor.EventQueueReset {
		t.Errorf("last event = %s, want queue.reset", ev.Type)
	}
	snap, _ = svc.Snapshot(ctx, "salon-1")
	if snap.Length != 0 || snap.Entries == nil {
		t.Errorf("Snapshot() after reset = %+v, want empty non-nil entries", snap)
	}
}

func TestConcurrentJoinsGetDistinctRanks(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()
	const n = 25

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Join(ctx, "salon-1", fmt.Sprintf("user-%d", i), ""); err != nil {
				t.Errorf("Join() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	list, _ := svc.List(ctx, "salon-1")
	if len(list) != n {
		t.Fatalf("len(List()) = %d, want %d", len(list), n)
	}
	seen := map[int]bool{}
	for i, p := range list {
		if p.Position != i+1 || seen[p.Position] {
			t.Errorf("entry %d has position %d", i, p.Position)
		}
		seen[p.Position] = true
		if i > 0 && list[i-1].Entry.Seq >= p.Entry.Seq {
			t.Errorf("seq not increasing at %d: %d >= %d", i, list[i-1].Entry.Seq, p.Entry.Seq)
		}
	}
}

func TestRank(t *testing.T) {
	entries := []models.QueueEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	tests := []struct {
		wait time.Duration
		want []int
	}{
		{10 * time.Minute, []int{0, 10, 20}},
		{15 * time.Minute, []int{0, 15, 30}},
		{90 * time.Second, []int{0, 2, 3}},
		{30 * time.Second, []int{0, 1, 1}},
	}
	for _, tt := range tests {
		got := Rank(entries, tt.wait)
		for i := range got {
			if got[i].EstimatedWaitMinutes != tt.want[i] {
				t.Errorf("Rank(wait=%v)[%d] = %d, want %d", tt.wait, i, got[i].EstimatedWaitMinutes, tt.want[i])
			}
		}
	}
	if got := Rank(nil, time.Minute); len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", got)
	}
}
