// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package authz

import (
	"sync"
	"time"
)

// decisionCache memoizes (role, path, method) decisions. Paths carry IDs,
// so entries expire and a janitor sweeps them every TTL.
type decisionCache struct {
	ttl      time.Duration
	mu       sync.RWMutex
	items    map[string]decision
	stopChan chan struct{}
	stopOnce sync.Once
}

type decision struct {
	allowed   bool
	expiresAt time.Time
}

func newDecisionCache(ttl time.Duration) *decisionCache {
	c := &decisionCache{
		ttl:      ttl,
		items:    make(map[string]decision),
		stopChan: make(chan struct{}),
	}
	go c.janitor()
	return c
}

func decisionKey(role, object, action string) string {
	return role + "\x00" + object + "\x00" + action
}

func (c *decisionCache) get(role, object, action string) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.items[decisionKey(role, object, action)]
	if !ok || time.Now().After(d.expiresAt) {
		return false, false
	}
	return d.allowed, true
}

func (c *decisionCache) set(role, object, action string, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[decisionKey(role, object, action)] = decision{allowed: allowed, expiresAt: time.Now().Add(c.ttl)}
}

func (c *decisionCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *decisionCache) janitor() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

func (c *decisionCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, d := range c.items {
		if now.After(d.expiresAt) {
			delete(c.items, key)
		}
	}
}

func (c *decisionCache) stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}
