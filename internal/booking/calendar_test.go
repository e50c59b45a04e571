// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package booking

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/models"
)

func defaultBookingConfig() *config.BookingConfig {
	return &config.BookingConfig{Open: "09:00", Close: "18:00", SlotMinutes: 30, Timezone: "UTC"}
}

func TestNewCalendarDefaultDay(t *testing.T) {
	cal, err := NewCalendar(defaultBookingConfig())
	if err != nil {
		t.Fatalf("NewCalendar() error = %v", err)
	}
	slots := cal.Slots()
	if len(slots) != 18 {
		t.Fatalf("len(Slots()) = %d, want 18", len(slots))
	}
	if slots[0] != "09:00" || slots[len(slots)-1] != "17:30" {
		t.Errorf("Slots() = %s..%s, want 09:00..17:30", slots[0], slots[len(slots)-1])
	}
}

func TestNewCalendarUnevenClose(t *testing.T) {
	cal, err := NewCalendar(&config.BookingConfig{Open: "10:00", Close: "11:45", SlotMinutes: 30, Timezone: "UTC"})
	if err != nil {
		t.Fatalf("NewCalendar() error = %v", err)
	}
	want := []string{"10:00", "10:30", "11:00"}
	if got := cal.Slots(); !reflect.DeepEqual(got, want) {
		t.Errorf("Slots() = %v, want %v", got, want)
	}
}

func TestNewCalendarRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.BookingConfig
	}{
		{"bad open", config.BookingConfig{Open: "9am", Close: "18:00", SlotMinutes: 30}},
		{"bad close", config.BookingConfig{Open: "09:00", Close: "25:00", SlotMinutes: 30}},
		{"zero step", config.BookingConfig{Open: "09:00", Close: "18:00", SlotMinutes: 0}},
		{"close before open", config.BookingConfig{Open: "18:00", Close: "09:00", SlotMinutes: 30}},
		{"step too long", config.BookingConfig{Open: "09:00", Close: "09:20", SlotMinutes: 30}},
		{"bad timezone", config.BookingConfig{Open: "09:00", Close: "18:00", SlotMinutes: 30, Timezone: "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCalendar(&tt.cfg); err == nil {
				t.Error("NewCalendar() = nil error, want error")
			}
		})
	}
}

func TestCalendarContains(t *testing.T) {
	cal, _ := NewCalendar(defaultBookingConfig())
	tests := []struct {
		slot string
		want bool
	}{
		{"09:00", true},
		{"17:30", true},
		{"18:00", false},
		{"09:15", false},
		{"08:30", false},
		{"9:00", false},
	}
	for _, tt := range tests {
		if got := cal.Contains(tt.slot); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.slot, got, tt.want)
		}
	}
}

func TestSlotStart(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cfg := defaultBookingConfig()
	cfg.Timezone = "America/New_York"
	cal, err := NewCalendar(cfg)
	if err != nil {
		t.Fatalf("NewCalendar() error = %v", err)
	}

	got, err := cal.SlotStart("2026-03-02", "10:30")
	if err != nil {
		t.Fatalf("SlotStart() error = %v", err)
	}
	want := time.Date(2026, 3, 2, 10, 30, 0, 0, ny)
	if !got.Equal(want) {
		t.Errorf("SlotStart() = %v, want %v", got, want)
	}

	if _, err := cal.SlotStart("2026-03-02", "10:15"); !errors.Is(err, models.ErrInvalidSlot) {
		t.Errorf("SlotStart(off-grid) = %v, want ErrInvalidSlot", err)
	}
	if _, err := cal.SlotStart("02/03/2026", "10:30"); !errors.Is(err, models.ErrInvalidDate) {
		t.Errorf("SlotStart(bad date) = %v, want ErrInvalidDate", err)
	}
	if _, err := cal.SlotStart("2026-02-30", "10:30"); !errors.Is(err, models.ErrInvalidDate) {
		t.Errorf("SlotStart(Feb 30) = %v, want ErrInvalidDate", err)
	}
}

func TestToday(t *testing.T) {
	cfg := defaultBookingConfig()
	cfg.Timezone = "Asia/Tokyo"
	cal, err := NewCalendar(cfg)
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 20:00 UTC is already the next day in Tokyo.
	now := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	if got := cal.Today(now); got != "2026-03-03" {
		t.Errorf("Today() = %s, want 2026-03-03", got)
	}
}
