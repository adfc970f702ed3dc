package airouter

import (
	"sync"
	"time"
)

const (
	healthFailureThreshold = 3
	healthFailureWindow    = 5 * time.Minute
	healthUnhealthyPeriod  = 30 * time.Second
)

// HealthState describes the breaker state of a provider.
type HealthState int

const (
	HealthHealthy HealthState = iota
	HealthUnhealthy
	HealthHalfOpen
)

func (h HealthState) String() string {
	switch h {
	case HealthHealthy:
		return "healthy"
	case HealthUnhealthy:
		return "unhealthy"
	case HealthHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// HealthTracker is an optional circuit breaker layered on top of the
// registry's availability flag. Repeated failures inside a sliding window
// take a provider out of ranking; after a cool-down it goes half-open and
// one success closes it again. The external availability flag always wins:
// a provider forced unavailable stays out regardless of breaker state.
type HealthTracker struct {
	mu        sync.Mutex
	providers map[string]*providerHealth
}

type providerHealth struct {
	state       HealthState
	failures    []time.Time // sliding window of failure timestamps
	unhealthyAt time.Time   // when state transitioned to unhealthy
}

// NewHealthTracker creates a new HealthTracker.
func NewHealthTracker() *HealthTracker {
	return &HealthTracker{providers: make(map[string]*providerHealth)}
}

// State returns the current breaker state for a provider.
func (h *HealthTracker) State(key string) HealthState {
	h.mu.Lock()
	defer h.mu.Unlock()

	ph, ok := h.providers[key]
	if !ok {
		return HealthHealthy
	}

	// Cool-down elapsed → allow a probe.
	if ph.state == HealthUnhealthy && time.Since(ph.unhealthyAt) >= healthUnhealthyPeriod {
		ph.state = HealthHalfOpen
	}

	return ph.state
}

// RecordSuccess closes the breaker for a provider.
func (h *HealthTracker) RecordSuccess(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ph := h.getOrCreate(key)
	ph.state = HealthHealthy
	ph.failures = ph.failures[:0]
}

// RecordFailure counts a failed call; the breaker opens once the threshold
// is reached inside the window.
func (h *HealthTracker) RecordFailure(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ph := h.getOrCreate(key)
	if ph.state == HealthUnhealthy {
		return
	}

	now := time.Now()

	cutoff := now.Add(-healthFailureWindow)
	valid := ph.failures[:0]
	for _, t := range ph.failures {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	ph.failures = append(valid, now)

	if len(ph.failures) >= healthFailureThreshold {
		ph.state = HealthUnhealthy
		ph.unhealthyAt = now
	}
}

func (h *HealthTracker) getOrCreate(key string) *providerHealth {
	ph, ok := h.providers[key]
	if !ok {
		ph = &providerHealth{state: HealthHealthy}
		h.providers[key] = ph
	}
	return ph
}
