// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer selects the child supervisor a service runs under.
type Layer int

const (
	// LayerData holds scheduled jobs against the store.
	LayerData Layer = iota
	// LayerMessaging holds the WebSocket hub and event bus consumers.
	LayerMessaging
	// LayerAPI holds the HTTP server.
	LayerAPI
)

var layerNames = map[Layer]string{
	LayerData:      "data-layer",
	LayerMessaging: "messaging-layer",
	LayerAPI:       "api-layer",
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// TreeConfig holds restart and shutdown settings shared by every layer.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the failure decay rate in seconds.
	FailureDecay float64

	// FailureBackoff is how long a layer waits once the threshold is hit.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long each service gets to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c *TreeConfig) applyDefaults() error {
	if c.FailureThreshold < 0 || c.FailureDecay < 0 || c.FailureBackoff < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("supervisor config values must not be negative")
	}
	def := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = def.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = def.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return nil
}

// Tree is the root supervisor with one child supervisor per Layer.
type Tree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	logger *slog.Logger
	config TreeConfig

	mu    sync.Mutex
	names map[Layer]map[suture.ServiceToken]string
}

// NewTree builds the supervisor hierarchy. A nil logger uses slog.Default.
func NewTree(logger *slog.Logger, config TreeConfig) (*Tree, error) {
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	// MustHook has a pointer receiver.
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	rootSpec := childSpec
	rootSpec.EventHook = hook

	root := suture.New("salonbook", rootSpec)
	layers := make(map[Layer]*suture.Supervisor, len(layerNames))
	for _, layer := range []Layer{LayerData, LayerMessaging, LayerAPI} {
		child := suture.New(layer.String(), childSpec)
		root.Add(child)
		layers[layer] = child
	}

	return &Tree{
		root:   root,
		layers: layers,
		logger: logger,
		config: config,
		names:  make(map[Layer]map[suture.ServiceToken]string),
	}, nil
}

// Root returns the root supervisor.
func (t *Tree) Root() *suture.Supervisor {
	return t.root
}

// Add starts svc under layer. Services added after the tree is running
// start immediately.
func (t *Tree) Add(layer Layer, svc suture.Service) (suture.ServiceToken, error) {
	child, ok := t.layers[layer]
	if !ok {
		return suture.ServiceToken{}, fmt.Errorf("unknown supervisor layer %v", layer)
	}
	token := child.Add(svc)

	t.mu.Lock()
	if t.names[layer] == nil {
		t.names[layer] = make(map[suture.ServiceToken]string)
	}
	t.names[layer][token] = fmt.Sprint(svc)
	t.mu.Unlock()
	return token, nil
}

// Remove stops and removes a service previously added to layer.
func (t *Tree) Remove(layer Layer, token suture.ServiceToken) error {
	child, ok := t.layers[layer]
	if !ok {
		return fmt.Errorf("unknown supervisor layer %v", layer)
	}
	if err := child.Remove(token); err != nil {
		return err
	}
	t.mu.Lock()
	delete(t.names[layer], token)
	t.mu.Unlock()
	return nil
}

// Services lists the names of added services per layer.
func (t *Tree) Services() map[string][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string][]string, len(t.names))
	for layer, byToken := range t.names {
		names := make([]string, 0, len(byToken))
		for _, name := range byToken {
			names = append(names, name)
		}
		sort.Strings(names)
		out[layer.String()] = names
	}
	return out
}

// Serve runs the tree until ctx is cancelled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result and is closed when the tree stops.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
