package airouter

import (
	"sync"
	"time"
)

// DefaultTrackerCapacity is the per-provider sample window size.
const DefaultTrackerCapacity = 50

// Tracker keeps a bounded rolling window of observed latencies per provider.
// Once samples exist, their mean replaces the provider's declared latency in
// ranking. Samples are working-set state only; nothing is persisted.
//
// Appends lock only the one provider's window, so concurrent routes never
// contend across providers. Readers may observe a window mid-update from
// another in-flight request; ranking tolerates that.
type Tracker struct {
	mu       sync.RWMutex
	capacity int
	windows  map[string]*sampleWindow
}

type sampleWindow struct {
	mu      sync.Mutex
	samples []sample
	next    int
	full    bool
	sum     time.Duration
}

type sample struct {
	latency time.Duration
	at      time.Time
}

// NewTracker creates a tracker with the given per-provider window capacity.
// Capacity <= 0 means DefaultTrackerCapacity.
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultTrackerCapacity
	}
	return &Tracker{
		capacity: capacity,
		windows:  make(map[string]*sampleWindow),
	}
}

// Record appends one latency sample for a provider, evicting the oldest
// sample once the window is full. O(1).
func (t *Tracker) Record(key string, latency time.Duration) {
	w := t.window(key)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.full {
		w.sum -= w.samples[w.next].latency
		w.samples[w.next] = sample{latency: latency, at: time.Now()}
	} else {
		w.samples = append(w.samples, sample{latency: latency, at: time.Now()})
	}
	w.sum += latency
	w.next++
	if w.next == t.capacity {
		w.next = 0
		w.full = true
	}
}

// AverageLatency returns the arithmetic mean of the provider's current
// samples, or fallback (the declared latency) when no samples exist yet.
func (t *Tracker) AverageLatency(key string, fallback time.Duration) time.Duration {
	t.mu.RLock()
	w, ok := t.windows[key]
	t.mu.RUnlock()
	if !ok {
		return fallback
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(w.samples)
	if n == 0 {
		return fallback
	}
	return w.sum / time.Duration(n)
}

// Stats returns the current rolling view for a provider. AverageLatency is
// fallback when no samples exist.
func (t *Tracker) Stats(key string, fallback time.Duration) Stats {
	t.mu.RLock()
	w, ok := t.windows[key]
	t.mu.RUnlock()
	if !ok {
		return Stats{AverageLatency: fallback}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(w.samples)
	if n == 0 {
		return Stats{AverageLatency: fallback}
	}
	return Stats{
		AverageLatency: w.sum / time.Duration(n),
		SampleCount:    n,
	}
}

func (t *Tracker) window(key string) *sampleWindow {
	t.mu.RLock()
	w, ok := t.windows[key]
	t.mu.RUnlock()
	if ok {
		return w
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok = t.windows[key]; ok {
		return w
	}
	w = &sampleWindow{samples: make([]sample, 0, t.capacity)}
	t.windows[key] = w
	return w
}
