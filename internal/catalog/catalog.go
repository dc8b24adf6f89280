// Package catalog holds the read-only registry of platforms, their supported
// models, and the adapter client for each. The registry is built once at
// startup and never mutated afterwards, so it's safe to share across all
// concurrent fan-out goroutines without locking.
package catalog

import (
	"errors"
	"fmt"

	"github.com/brandpulse/citation-service/internal/llm"
	"github.com/brandpulse/citation-service/internal/model"
)

// ErrUnknownPlatform is returned when a caller asks for a platform that was
// never registered. Go uses sentinel errors (predefined error values) instead
// of exception types — callers check with errors.Is(err, ErrUnknownPlatform).
var ErrUnknownPlatform = errors.New("unknown platform")

// Entry registers one platform: its ordered model list (first is the default)
// and the client that talks to it.
type Entry struct {
	Platform model.Platform
	Models   []string
	Client   llm.Client
}

// Registry is the immutable platform catalog.
type Registry struct {
	order   []model.Platform
	entries map[model.Platform]Entry
}

// New builds a registry from entries in the given order. Every entry must
// name at least one model — the first one is the platform's default.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{
		order:   make([]model.Platform, 0, len(entries)),
		entries: make(map[model.Platform]Entry, len(entries)),
	}

	for _, e := range entries {
		if len(e.Models) == 0 {
			return nil, fmt.Errorf("platform %s: no models registered", e.Platform)
		}
		if e.Client == nil {
			return nil, fmt.Errorf("platform %s: no client registered", e.Platform)
		}
		if _, dup := r.entries[e.Platform]; dup {
			return nil, fmt.Errorf("platform %s: registered twice", e.Platform)
		}
		r.order = append(r.order, e.Platform)
		r.entries[e.Platform] = e
	}

	return r, nil
}

// Platforms returns the registered platforms in registration order.
// The slice is a copy — callers can't mutate the registry through it.
func (r *Registry) Platforms() []model.Platform {
	out := make([]model.Platform, len(r.order))
	copy(out, r.order)
	return out
}

// Models returns the ordered model list for a platform.
func (r *Registry) Models(p model.Platform) ([]string, error) {
	e, ok := r.entries[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}
	out := make([]string, len(e.Models))
	copy(out, e.Models)
	return out, nil
}

// DefaultModel returns the first registered model for a platform.
func (r *Registry) DefaultModel(p model.Platform) (string, error) {
	e, ok := r.entries[p]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}
	return e.Models[0], nil
}

// Client returns the adapter client for a platform.
func (r *Registry) Client(p model.Platform) (llm.Client, error) {
	e, ok := r.entries[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}
	return e.Client, nil
}
