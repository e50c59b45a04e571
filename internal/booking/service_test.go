// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package booking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/eventprocessor"
	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
)

// fixedNow is 08:00 UTC on 2026-03-02, before the first slot of the day.
var fixedNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventprocessor.DomainEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, e *eventprocessor.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	svc   *Service
	store *store.Memory
	pub   *recordingPublisher
	salon *models.Salon
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cal, err := NewCalendar(defaultBookingConfig())
	if err != nil {
		t.Fatalf("NewCalendar() error = %v", err)
	}
	st := store.NewMemory()
	salon := &models.Salon{ID: "salon-1", Name: "Shear Joy", City: "Leeds", CreatedAt: fixedNow, UpdatedAt: fixedNow}
	if err := st.CreateSalon(context.Background(), salon); err != nil {
		t.Fatalf("CreateSalon() error = %v", err)
	}
	pub := &recordingPublisher{}
	svc := NewService(st, cal, pub)
	svc.SetClock(func() time.Time { return fixedNow })
	return &fixture{svc: svc, store: st, pub: pub, salon: salon}
}

func (f *fixture) request(userID, date, slot string) BookRequest {
	return BookRequest{UserID: userID, SalonID: f.salon.ID, Date: date, Time: slot}
}

func TestBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.Book(ctx, f.request("alice", "2026-03-02", "10:00"))
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if appt.Status != models.StatusBooked {
		t.Errorf("Status = %q, want %q", appt.Status, models.StatusBooked)
	}
	if appt.ID == "" || !appt.CreatedAt.Equal(fixedNow) {
		t.Errorf("appointment = %+v, want ID and CreatedAt set", appt)
	}
	if got := f.pub.types(); len(got) != 1 || got[0] != eventprocessor.EventAppointmentBooked {
		t.Errorf("events = %v, want [appointment.booked]", got)
	}
}

func TestBookRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Book(ctx, f.request("alice", "2026-03-02", "10:00")); err != nil {
		t.Fatalf("seed Book() error = %v", err)
	}

	tests := []struct {
		name string
		req  BookRequest
		want error
	}{
		{"occupied slot", f.request("bob", "2026-03-02", "10:00"), models.ErrSlotTaken},
		{"off calendar", f.request("bob", "2026-03-02", "10:15"), models.ErrInvalidSlot},
		{"after close", f.request("bob", "2026-03-02", "18:00"), models.ErrInvalidSlot},
		{"bad date", f.request("bob", "March 2nd", "10:00"), models.ErrInvalidDate},
		{"yesterday", f.request("bob", "2026-03-01", "10:00"), models.ErrPastDate},
		{"unknown salon", BookRequest{UserID: "bob", SalonID: "nope", Date: "2026-03-02", Time: "11:00"}, models.ErrNotFound},
		{"unknown service", BookRequest{UserID: "bob", SalonID: "salon-1", Date: "2026-03-02", Time: "11:00", ServiceID: "nope"}, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Book(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Book() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBookStartedSlotIsPast(t *testing.T) {
	f := newFixture(t)
	f.svc.SetClock(func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) })

	if _, err := f.svc.Book(context.Background(), f.request("alice", "2026-03-02", "10:00")); !errors.Is(err, models.ErrPastDate) {
		t.Errorf("Book(slot starting now) = %v, want ErrPastDate", err)
	}
	if _, err := f.svc.Book(context.Background(), f.request("alice", "2026-03-02", "10:30")); err != nil {
		t.Errorf("Book(next slot) = %v, want nil", err)
	}
}

func TestEarlierSlotsTodayAreClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.SetClock(func() time.Time { return time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC) })

	if _, err := f.svc.Book(ctx, f.request("alice", "2026-03-02", "09:00")); !errors.Is(err, models.ErrPastDate) {
		t.Errorf("Book(09:00 at 15:00) = %v, want ErrPastDate", err)
	}

	day, err := f.svc.Availability(ctx, "salon-1", "2026-03-02")
	if err != nil {
		t.Fatalf("Availability() error = %v", err)
	}
	for _, slot := range day.Slots {
		want := slot.Time > "15:00"
		if slot.Available != want {
			t.Errorf("slot %s available = %v, want %v", slot.Time, slot.Available, want)
		}
	}
}

func TestBookServiceFromOtherSalon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := &models.Salon{ID: "salon-2", Name: "Other"}
	_ = f.store.CreateSalon(ctx, other)
	_ = f.store.CreateService(ctx, &models.Service{ID: "svc-2", SalonID: "salon-2", Name: "Fade"})

	req := f.request("alice", "2026-03-02", "10:00")
	req.ServiceID = "svc-2"
	if _, err := f.svc.Book(ctx, req); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Book(foreign service) = %v, want ErrNotFound", err)
	}
}

func TestBookConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	const n = 20

	var wins, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Book(context.Background(), f.request(string(rune('a'+i)), "2026-03-02", "14:00"))
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, models.ErrSlotTaken):
				conflicts.Add(1)
			default:
				t.Errorf("Book() unexpected error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins.Load() != 1 || conflicts.Load() != n-1 {
		t.Errorf("wins = %d conflicts = %d, want 1 and %d", wins.Load(), conflicts.Load(), n-1)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt, err := f.svc.Book(ctx, f.request("alice", "2026-03-02", "10:00"))
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	if _, err := f.svc.Cancel(ctx, appt.ID, Actor{UserID: "mallory"}); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("Cancel(stranger) = %v, want ErrForbidden", err)
	}

	cancelled, err := f.svc.Cancel(ctx, appt.ID, Actor{UserID: "alice"})
	if err != nil {
		t.Fatalf("Cancel(owner) error = %v", err)
	}
	if cancelled.Status != models.StatusCancelled || cancelled.CancelledAt == nil {
		t.Errorf("cancelled = %+v, want status cancelled with timestamp", cancelled)
	}

	if _, err := f.svc.Cancel(ctx, appt.ID, Actor{UserID: "alice"}); !errors.Is(err, models.ErrAlreadyCancelled) {
		t.Errorf("second Cancel() = %v, want ErrAlreadyCancelled", err)
	}
	if _, err := f.svc.Cancel(ctx, "missing", Actor{Staff: true}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Cancel(missing) = %v, want ErrNotFound", err)
	}

	// The slot is free again.
	if _, err := f.svc.Book(ctx, f.request("bob", "2026-03-02", "10:00")); err != nil {
		t.Errorf("Book(freed slot) = %v, want nil", err)
	}

	want := []string{
		eventprocessor.EventAppointmentBooked,
		eventprocessor.EventAppointmentCancelled,
		eventprocessor.EventAppointmentBooked,
	}
	got := f.pub.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCancelByStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt, _ := f.svc.Book(ctx, f.request("alice", "2026-03-02", "10:00"))
	if _, err := f.svc.Cancel(ctx, appt.ID, Actor{UserID: "stylist-1", Staff: true}); err != nil {
		t.Errorf("Cancel(staff) = %v, want nil", err)
	}
}

func TestGetHidesOthersAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt, _ := f.svc.Book(ctx, f.request("alice", "2026-03-02", "10:00"))

	if _, err := f.svc.Get(ctx, appt.ID, Actor{UserID: "bob"}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get(stranger) = %v, want ErrNotFound", err)
	}
	if got, err := f.svc.Get(ctx, appt.ID, Actor{UserID: "alice"}); err != nil || got.ID != appt.ID {
		t.Errorf("Get(owner) = %v, %v", got, err)
	}
}

func TestAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.SetClock(func() time.Time { return time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC) })
	if _, err := f.svc.Book(ctx, f.request("alice", "2026-03-02", "11:00")); err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	day, err := f.svc.Availability(ctx, f.salon.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("Availability() error = %v", err)
	}
	if len(day.Slots) != 18 {
		t.Fatalf("len(Slots) = %d, want 18", len(day.Slots))
	}

	want := map[string]bool{
		"09:00": false, // already started
		"09:30": true,
		"11:00": false, // booked
		"17:30": true,
	}
	for _, s := range day.Slots {
		if w, ok := want[s.Time]; ok && s.Available != w {
			t.Errorf("slot %s Available = %v, want %v", s.Time, s.Available, w)
		}
	}

	if _, err := f.svc.Availability(ctx, f.salon.ID, "tomorrow"); !errors.Is(err, models.ErrInvalidDate) {
		t.Errorf("Availability(bad date) = %v, want ErrInvalidDate", err)
	}
	if _, err := f.svc.Availability(ctx, "nope", "2026-03-02"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Availability(unknown salon) = %v, want ErrNotFound", err)
	}
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, slot := range []string{"10:00", "11:00"} {
		if _, err := f.svc.Book(ctx, f.request("alice", "2026-03-02", slot)); err != nil {
			t.Fatalf("Book(%s) error = %v", slot, err)
		}
	}
	_, _ = f.svc.Book(ctx, f.request("bob", "2026-03-03", "10:00"))

	mine, err := f.svc.ListForUser(ctx, "alice")
	if err != nil || len(mine) != 2 {
		t.Errorf("ListForUser(alice) = %d, %v, want 2", len(mine), err)
	}
	day, err := f.svc.ListForSalon(ctx, f.salon.ID, "2026-03-02")
	if err != nil || len(day) != 2 {
		t.Errorf("ListForSalon(2026-03-02) = %d, %v, want 2", len(day), err)
	}
	if _, err := f.svc.ListForSalon(ctx, f.salon.ID, "03/02"); !errors.Is(err, models.ErrInvalidDate) {
		t.Errorf("ListForSalon(bad date) = %v, want ErrInvalidDate", err)
	}
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("bus down")
	if _, err := f.svc.Book(context.Background(), f.request("alice", "2026-03-02", "10:00")); err != nil {
		t.Errorf("Book() with failing publisher = %v, want nil", err)
	}
}

func TestNilPublisher(t *testing.T) {
	cal, _ := NewCalendar(defaultBookingConfig())
	st := store.NewMemory()
	_ = st.CreateSalon(context.Background(), &models.Salon{ID: "s"})
	svc := NewService(st, cal, nil)
	svc.SetClock(func() time.Time { return fixedNow })
	if _, err := svc.Book(context.Background(), BookRequest{UserID: "u", SalonID: "s", Date: "2026-03-02", Time: "09:00"}); err != nil {
		t.Errorf("Book() without publisher = %v, want nil", err)
	}
}
