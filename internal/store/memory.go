// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/salonbook/internal/models"
)

// Memory is a mutex-guarded in-process Store. It backs handler tests and the
// "memory" driver; nothing survives a restart.
type Memory struct {
	mu sync.Mutex

	users    map[string]models.User
	emails   map[string]string // lower(email) -> user id
	salons   map[string]models.Salon
	services map[string]models.Service
	products map[string]models.Product

	appointments map[string]models.Appointment
	slots        map[string]string // slot key -> appointment id, active only

	queues map[string][]models.QueueEntry // salon id -> entries in rank order
	seq    int64

	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:        make(map[string]models.User),
		emails:       make(map[string]string),
		salons:       make(map[string]models.Salon),
		services:     make(map[string]models.Service),
		products:     make(map[string]models.Product),
		appointments: make(map[string]models.Appointment),
		slots:        make(map[string]string),
		queues:       make(map[string][]models.QueueEntry),
	}
}

// Ping reports whether the store is open.
func (m *Memory) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("memory store closed")
	}
	return nil
}

// Close marks the store closed. Data stays readable for tests.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Users

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := m.emails[key]; ok {
		return models.ErrEmailTaken
	}
	m.users[u.ID] = *u
	m.emails[key] = u.ID
	return nil
}

func (m *Memory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emails[strings.ToLower(email)]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := m.users[id]
	return &u, nil
}

// Salons

func (m *Memory) CreateSalon(_ context.Context, s *models.Salon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salons[s.ID] = *s
	return nil
}

func (m *Memory) UpdateSalon(_ context.Context, s *models.Salon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.salons[s.ID]; !ok {
		return models.ErrNotFound
	}
	m.salons[s.ID] = *s
	return nil
}

func (m *Memory) DeleteSalon(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.salons[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.salons, id)
	delete(m.queues, id)
	for sid, svc := range m.services {
		if svc.SalonID == id {
			delete(m.services, sid)
		}
	}
	now := time.Now().UTC()
	for aid, a := range m.appointments {
		if a.SalonID != id || !a.Active() {
			continue
		}
		delete(m.slots, a.SlotKey())
		a.Status = models.StatusCancelled
		a.CancelledAt = &now
		m.appointments[aid] = a
	}
	return nil
}

func (m *Memory) GetSalon(_ context.Context, id string) (*models.Salon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.salons[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (m *Memory) ListSalons(_ context.Context, f models.SalonFilter) ([]models.Salon, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	matched := make([]models.Salon, 0, len(m.salons))
	for _, s := range m.salons {
		if q != "" && !strings.Contains(strings.ToLower(s.Name), q) && !strings.Contains(strings.ToLower(s.City), q) {
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Catalog

func (m *Memory) CreateService(_ context.Context, s *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.salons[s.SalonID]; !ok {
		return models.ErrNotFound
	}
	m.services[s.ID] = *s
	return nil
}

func (m *Memory) GetService(_ context.Context, id string) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (m *Memory) ListServices(_ context.Context, salonID string) ([]models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Service{}
	for _, s := range m.services {
		if s.SalonID == salonID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) GetProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) ListProducts(_ context.Context, category string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Appointments

func (m *Memory) ReserveSlot(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := a.SlotKey()
	if _, taken := m.slots[key]; taken {
		return models.ErrSlotTaken
	}
	m.slots[key] = a.ID
	m.appointments[a.ID] = *a
	return nil
}

func (m *Memory) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) CancelAppointment(_ context.Context, id string, at time.Time) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if !a.Active() {
		return nil, models.ErrAlreadyCancelled
	}
	a.Status = models.StatusCancelled
	a.CancelledAt = &at
	m.appointments[id] = a
	if m.slots[a.SlotKey()] == id {
		delete(m.slots, a.SlotKey())
	}
	return &a, nil
}

func (m *Memory) ListAppointmentsByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.appointments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (m *Memory) ListAppointmentsBySalonDate(_ context.Context, salonID, date string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.appointments {
		if a.SalonID == salonID && a.Date == date {
			out = append(out, a)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (m *Memory) BookedTimes(_ context.Context, salonID, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := models.SlotKey(salonID, date, "")
	out := []string{}
	for key := range m.slots {
		if strings.HasPrefix(key, prefix) {
			out = append(out, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(out)
	return out, nil
}

// sortAppointments orders by date, time, then creation.
func sortAppointments(list []models.Appointment) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// Queue

func (m *Memory) EnqueueEntry(_ context.Context, e *models.QueueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.queues[e.SalonID]
	for i := range entries {
		if entries[i].UserID == e.UserID {
			return models.ErrAlreadyQueued
		}
	}
	m.seq++
	e.Seq = m.seq

	// Insert at rank so the slice stays ordered even when JoinedAt is
	// supplied out of order by the caller.
	idx := sort.Search(len(entries), func(i int) bool { return e.Before(&entries[i]) })
	entries = append(entries, models.QueueEntry{})
	copy(entries[idx+1:], entries[idx:])
	entries[idx] = *e
	m.queues[e.SalonID] = entries
	return nil
}

func (m *Memory) ListQueue(_ context.Context, salonID string) ([]models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.QueueEntry, len(m.queues[salonID]))
	copy(out, m.queues[salonID])
	return out, nil
}

func (m *Memory) DeleteQueueEntryByUser(_ context.Context, salonID, userID string) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeWhere(salonID, func(e *models.QueueEntry) bool { return e.UserID == userID })
}

func (m *Memory) DeleteQueueEntry(_ context.Context, salonID, entryID string) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeWhere(salonID, func(e *models.QueueEntry) bool { return e.ID == entryID })
}

func (m *Memory) PopQueueHead(_ context.Context, salonID string) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.queues[salonID]
	if len(entries) == 0 {
		return nil, models.ErrQueueEmpty
	}
	head := entries[0]
	m.queues[salonID] = entries[1:]
	return &head, nil
}

func (m *Memory) ClearQueues(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, entries := range m.queues {
		n += len(entries)
	}
	m.queues = make(map[string][]models.QueueEntry)
	return n, nil
}

// removeWhere must be called with m.mu held.
func (m *Memory) removeWhere(salonID string, match func(*models.QueueEntry) bool) (*models.QueueEntry, error) {
	entries := m.queues[salonID]
	for i := range entries {
		if match(&entries[i]) {
			removed := entries[i]
			m.queues[salonID] = append(entries[:i:i], entries[i+1:]...)
			return &removed, nil
		}
	}
	return nil, models.ErrNotQueued
}
