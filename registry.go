package airouter

import (
	"fmt"
	"sync"
)

// Registry owns provider adapters, their static profiles, and their runtime
// availability flags. Registration order is preserved and used as the final
// ranking tie-break, so routing stays deterministic.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
	order   []string
}

type registryEntry struct {
	provider  Provider
	profile   StaticProfile
	available bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Register adds a provider with its static profile. Providers start
// available. Duplicate keys are rejected.
func (r *Registry) Register(p Provider, profile StaticProfile) error {
	key := p.Key()
	if key == "" {
		return fmt.Errorf("airouter: registry: provider key is required")
	}
	if profile.QualityTier < 1 || profile.QualityTier > 10 {
		return fmt.Errorf("airouter: registry: provider %q: quality tier must be 1-10, got %d", key, profile.QualityTier)
	}
	if profile.DeclaredLatency <= 0 {
		return fmt.Errorf("airouter: registry: provider %q: declared latency is required", key)
	}
	if profile.CostUnits < 0 {
		return fmt.Errorf("airouter: registry: provider %q: cost units must not be negative", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateProvider, key)
	}
	r.entries[key] = &registryEntry{provider: p, profile: profile, available: true}
	r.order = append(r.order, key)
	return nil
}

// SetAvailability flips a provider's availability flag. An unavailable
// provider is never selected; it may be re-enabled at any time.
func (r *Registry) SetAvailability(key string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, key)
	}
	e.available = available
	return nil
}

// Available reports a provider's current availability flag.
func (r *Registry) Available(key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownProvider, key)
	}
	return e.available, nil
}

// Profile returns a provider's static profile.
func (r *Registry) Profile(key string) (StaticProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok {
		return StaticProfile{}, fmt.Errorf("%w: %q", ErrUnknownProvider, key)
	}
	return e.profile, nil
}

// Keys returns all registered provider keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// availableEntries returns the available entries in registration order.
func (r *Registry) availableEntries() []availableEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]availableEntry, 0, len(r.order))
	for _, key := range r.order {
		e := r.entries[key]
		if !e.available {
			continue
		}
		out = append(out, availableEntry{key: key, provider: e.provider, profile: e.profile})
	}
	return out
}

type availableEntry struct {
	key      string
	provider Provider
	profile  StaticProfile
}
