// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package booking

import (
	"fmt"
	"time"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/models"
)

// Calendar is the fixed list of bookable slot times for every day.
type Calendar struct {
	slots []string
	index map[string]int // "HH:MM" -> minutes after midnight
	loc   *time.Location
}

// NewCalendar builds the slot list from cfg. Slots start at Open and every
// SlotMinutes after it while the slot still ends at or before Close.
func NewCalendar(cfg *config.BookingConfig) (*Calendar, error) {
	open, err := config.ParseClock(cfg.Open)
	if err != nil {
		return nil, fmt.Errorf("booking open: %w", err)
	}
	closing, err := config.ParseClock(cfg.Close)
	if err != nil {
		return nil, fmt.Errorf("booking close: %w", err)
	}
	if cfg.SlotMinutes <= 0 {
		return nil, fmt.Errorf("slot_minutes must be positive, got %d", cfg.SlotMinutes)
	}
	if closing <= open {
		return nil, fmt.Errorf("booking close %s must be after open %s", cfg.Close, cfg.Open)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &Calendar{index: make(map[string]int), loc: loc}
	for m := open; m+cfg.SlotMinutes <= closing; m += cfg.SlotMinutes {
		slot := fmt.Sprintf("%02d:%02d", m/60, m%60)
		c.slots = append(c.slots, slot)
		c.index[slot] = m
	}
	if len(c.slots) == 0 {
		return nil, fmt.Errorf("no %d-minute slot fits between %s and %s", cfg.SlotMinutes, cfg.Open, cfg.Close)
	}
	return c, nil
}

// Slots returns a copy of the day's slot times in order.
func (c *Calendar) Slots() []string {
	out := make([]string, len(c.slots))
	copy(out, c.slots)
	return out
}

// Contains reports whether slot is on the calendar.
func (c *Calendar) Contains(slot string) bool {
	_, ok := c.index[slot]
	return ok
}

// Location returns the calendar timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// ParseDate parses YYYY-MM-DD as midnight in the calendar timezone.
func (c *Calendar) ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", models.ErrInvalidDate, date)
	}
	return d, nil
}

// SlotStart returns the instant a slot begins.
func (c *Calendar) SlotStart(date, slot string) (time.Time, error) {
	minutes, ok := c.index[slot]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", models.ErrInvalidSlot, slot)
	}
	d, err := c.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, c.loc), nil
}

// Today returns now's date in the calendar timezone.
func (c *Calendar) Today(now time.Time) string {
	return now.In(c.loc).Format(models.DateLayout)
}
