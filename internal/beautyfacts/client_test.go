// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package beautyfacts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/models"
)

const shampooJSON = `{"status":1,"code":"3600523614455","product":{"product_name":" Gentle Shampoo ","brands":"Acme","ingredients_text":"Aqua, Glycerin","categories":"Hair care, Shampoos,","image_url":"https://img.example/1.jpg"}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(&config.BeautyFactsConfig{
		Enabled:  true,
		BaseURL:  srv.URL + "/",
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
	})
	return c, &calls
}

func TestLookup_Found(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/3600523614455.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "salonbook/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(shampooJSON))
	})

	info, err := c.Lookup(context.Background(), "3600523614455")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if info.Name != "Gentle Shampoo" || info.Brand != "Acme" {
		t.Errorf("info = %+v", info)
	}
	if len(info.Categories) != 2 || info.Categories[1] != "Shampoos" {
		t.Errorf("Categories = %v, want [Hair care Shampoos]", info.Categories)
	}

	if _, err := c.Lookup(context.Background(), "3600523614455"); err != nil {
		t.Fatalf("cached Lookup() error = %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestLookup_NotFoundIsCached(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
	})

	for i := 0; i < 3; i++ {
		_, err := c.Lookup(context.Background(), "12345678")
		if !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("Lookup() error = %v, want ErrNotFound", err)
		}
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
	if c.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %s, want closed", c.BreakerState())
	}
}

func TestLookup_UpstreamErrorsOpenBreaker(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := c.Lookup(context.Background(), "12345678")
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("Lookup() #%d error = %v, want ErrUnavailable", i, err)
		}
	}
	if c.BreakerState() != "open" {
		t.Fatalf("BreakerState() = %s, want open", c.BreakerState())
	}

	before := atomic.LoadInt32(calls)
	if _, err := c.Lookup(context.Background(), "12345678"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Lookup() with open breaker error = %v, want ErrUnavailable", err)
	}
	if atomic.LoadInt32(calls) != before {
		t.Error("open breaker should not reach upstream")
	}
}

func TestLookup_Guards(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := c.Lookup(context.Background(), "12ab5678"); !errors.Is(err, ErrInvalidBarcode) {
		t.Errorf("Lookup(letters) error = %v, want ErrInvalidBarcode", err)
	}

	c.enabled = false
	if _, err := c.Lookup(context.Background(), "12345678"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Lookup(disabled) error = %v, want ErrDisabled", err)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Error("guards should not reach upstream")
	}
}

func TestValidBarcode(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"12345678", true},
		{"12345678901234", true},
		{"1234567", false},
		{"123456789012345", false},
		{"1234-5678", false},
	}
	for _, tt := range tests {
		if got := ValidBarcode(tt.in); got != tt.want {
			t.Errorf("ValidBarcode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
