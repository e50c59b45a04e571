// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package beautyfacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/salonbook/internal/cache"
	"github.com/tomtom215/salonbook/internal/config"
	"github.com/tomtom215/salonbook/internal/eventprocessor"
	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/metrics"
	"github.com/tomtom215/salonbook/internal/models"
)

const (
	breakerName      = "beautyfacts-api"
	userAgent        = "salonbook/1.0 (+https://github.com/tomtom215/salonbook)"
	maxErrorBodySize = 4 * 1024
	cacheCapacity    = 2000
)

var (
	// ErrInvalidBarcode means the barcode is not 8 to 14 digits.
	ErrInvalidBarcode = errors.New("barcode must be 8 to 14 digits")

	// ErrUnavailable means the upstream is failing or the breaker is open.
	ErrUnavailable = errors.New("product lookup unavailable")

	// ErrDisabled means lookups are turned off in configuration.
	ErrDisabled = errors.New("product lookup disabled")
)

// ProductInfo is the subset of an Open Beauty Facts product we expose.
type ProductInfo struct {
	Barcode     string   `json:"barcode"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand,omitempty"`
	Ingredients string   `json:"ingredients,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

type productResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Product struct {
		ProductName     string `json:"product_name"`
		Brands          string `json:"brands"`
		IngredientsText string `json:"ingredients_text"`
		Categories      string `json:"categories"`
		ImageURL        string `json:"image_url"`
	} `json:"product"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[any]
	cache      *cache.LRU[*ProductInfo]
	enabled    bool
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.BeautyFactsConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	cbCfg := eventprocessor.DefaultCircuitBreakerConfig(breakerName)
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbCfg.Name,
		MaxRequests: cbCfg.MaxRequests,
		Interval:    cbCfg.Interval,
		Timeout:     cbCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cbCfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, models.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Product lookup circuit breaker state changed")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
		cache:      cache.NewLRU[*ProductInfo]("beautyfacts", cacheCapacity, cfg.CacheTTL),
		enabled:    cfg.Enabled,
	}
}

// Enabled reports whether lookups are turned on.
func (c *Client) Enabled() bool {
	return c.enabled
}

// BreakerState returns the circuit breaker state for health output.
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

// PruneCache drops expired lookups and returns how many were removed.
func (c *Client) PruneCache() int {
	return c.cache.CleanupExpired()
}

// Lookup returns product details for barcode. Unknown barcodes return an
// error wrapping models.ErrNotFound.
func (c *Client) Lookup(ctx context.Context, barcode string) (*ProductInfo, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}
	barcode = strings.TrimSpace(barcode)
	if !ValidBarcode(barcode) {
		return nil, ErrInvalidBarcode
	}

	if info, ok := c.cache.Get(barcode); ok {
		metrics.RecordProductLookup("hit", 0)
		if info == nil {
			return nil, fmt.Errorf("barcode %s: %w", barcode, models.ErrNotFound)
		}
		return info, nil
	}

	start := time.Now()
	result, err := c.cb.Execute(func() (any, error) {
		return c.fetch(ctx, barcode)
	})
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordProductLookup("rejected", 0)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, models.ErrNotFound):
		metrics.RecordProductLookup("not_found", elapsed)
		c.cache.Set(barcode, nil)
		return nil, err
	case err != nil:
		metrics.RecordProductLookup("error", elapsed)
		logging.Ctx(ctx).Warn().Err(err).Str("barcode", barcode).Msg("Product lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	info, ok := result.(*ProductInfo)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	metrics.RecordProductLookup("found", elapsed)
	c.cache.Set(barcode, info)
	return info, nil
}

func (c *Client) fetch(ctx context.Context, barcode string) (*ProductInfo, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("barcode %s: %w", barcode, models.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pr productResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if pr.Status != 1 {
		return nil, fmt.Errorf("barcode %s: %w", barcode, models.ErrNotFound)
	}

	return &ProductInfo{
		Barcode:     barcode,
		Name:        strings.TrimSpace(pr.Product.ProductName),
		Brand:       strings.TrimSpace(pr.Product.Brands),
		Ingredients: strings.TrimSpace(pr.Product.IngredientsText),
		Categories:  splitList(pr.Product.Categories),
		ImageURL:    pr.Product.ImageURL,
	}, nil
}

// ValidBarcode reports whether s is an EAN-8 to GTIN-14 style digit string.
func ValidBarcode(s string) bool {
	if len(s) < 8 || len(s) > 14 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
