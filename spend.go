package airouter

import (
	"sync"
	"time"
)

// SpendTracker tracks per-provider cost-unit spend with a daily UTC reset.
// Providers with a DailyBudget in their profile are excluded from routing
// once the budget is exhausted, exactly like an unavailable provider.
type SpendTracker struct {
	mu        sync.Mutex
	providers map[string]float64
	resetDay  int // day of year for last reset
}

// NewSpendTracker creates a new SpendTracker.
func NewSpendTracker() *SpendTracker {
	return &SpendTracker{
		providers: make(map[string]float64),
		resetDay:  time.Now().UTC().YearDay(),
	}
}

// RecordSpend adds cost units to a provider's daily total.
func (s *SpendTracker) RecordSpend(key string, units float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkReset()
	s.providers[key] += units
}

// Spend returns the provider's spend so far today.
func (s *SpendTracker) Spend(key string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkReset()
	return s.providers[key]
}

// checkReset clears all spend when the UTC day changes. Caller holds the lock.
func (s *SpendTracker) checkReset() {
	today := time.Now().UTC().YearDay()
	if today != s.resetDay {
		s.providers = make(map[string]float64)
		s.resetDay = today
	}
}
