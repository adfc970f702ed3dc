package airouter

import "sort"

// Policy orders eligible candidates for one request. Implementations must be
// pure: same candidates and request in, same order out, no tracker writes.
type Policy interface {
	// Rank returns the candidates ordered highest priority first. The
	// input slice is not mutated.
	Rank(req Request, candidates []Candidate) []Candidate
}

// preferencePolicy is the default ranking: a strict lexicographic comparator
// driven by the request's preference vector, evaluated cost → speed →
// quality, with ascending average latency as the final tie-break. A stable
// sort preserves registration order for full ties, so ranking is
// deterministic and explainable — no scoring blend, no randomness.
type preferencePolicy struct{}

func (preferencePolicy) Rank(req Request, candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)

	prefs := req.Preferences
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := ranked[i], ranked[j]

		if prefs.Cost == CostLow && ci.Profile.CostUnits != cj.Profile.CostUnits {
			return ci.Profile.CostUnits < cj.Profile.CostUnits
		}
		if prefs.Speed == SpeedFast && ci.AvgLatency != cj.AvgLatency {
			return ci.AvgLatency < cj.AvgLatency
		}
		if prefs.Quality == QualityExcellent && ci.Profile.QualityTier != cj.Profile.QualityTier {
			return ci.Profile.QualityTier > cj.Profile.QualityTier
		}

		// Nothing else distinguishes them: reward empirically fast providers.
		return ci.AvgLatency < cj.AvgLatency
	})

	return ranked
}
