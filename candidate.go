package airouter

import "time"

// Candidate is a read-only snapshot of one provider at ranking time: its
// static profile plus the tracker's current latency estimate. Ranking and
// dispatch consume candidates; only the Router writes back to the tracker.
type Candidate struct {
	Key      string
	Provider Provider
	Profile  StaticProfile

	// AvgLatency is the tracker's estimate at snapshot time: the rolling
	// mean once samples exist, the declared latency before that.
	AvgLatency time.Duration
}

// buildCandidates snapshots the eligible providers in registration order.
// A provider is skipped when its availability flag is off, the health
// breaker has it open, or it has exhausted its daily budget.
func (r *Router) buildCandidates() []Candidate {
	entries := r.registry.availableEntries()
	candidates := make([]Candidate, 0, len(entries))

	for _, e := range entries {
		if r.health != nil && r.health.State(e.key) == HealthUnhealthy {
			continue
		}
		if r.spend != nil && e.profile.DailyBudget > 0 &&
			r.spend.Spend(e.key)+e.profile.CostUnits > e.profile.DailyBudget {
			continue
		}
		candidates = append(candidates, Candidate{
			Key:        e.key,
			Provider:   e.provider,
			Profile:    e.profile,
			AvgLatency: r.tracker.AverageLatency(e.key, e.profile.DeclaredLatency),
		})
	}
	return candidates
}

// applyCeilings removes candidates excluded by the request's hard ceilings.
// Exclusion, not deprioritization: a provider over a ceiling is never tried.
func applyCeilings(candidates []Candidate, req Request) []Candidate {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if req.MaxCostUnits != nil && c.Profile.CostUnits > *req.MaxCostUnits {
			continue
		}
		if req.MaxResponseTime > 0 && c.AvgLatency > req.MaxResponseTime {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}
