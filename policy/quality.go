package policy

import (
	"sort"

	"github.com/notevault/airouter"
)

// QualityFirst orders candidates by quality tier descending regardless of
// the request's preference vector. Among equal tiers, cheaper first, then
// faster first.
type QualityFirst struct{}

var _ airouter.Policy = (*QualityFirst)(nil)

// Rank orders candidates by quality tier descending.
func (p *QualityFirst) Rank(_ airouter.Request, candidates []airouter.Candidate) []airouter.Candidate {
	result := make([]airouter.Candidate, len(candidates))
	copy(result, candidates)

	sort.SliceStable(result, func(i, j int) bool {
		ci, cj := result[i], result[j]

		if ci.Profile.QualityTier != cj.Profile.QualityTier {
			return ci.Profile.QualityTier > cj.Profile.QualityTier
		}
		if ci.Profile.CostUnits != cj.Profile.CostUnits {
			return ci.Profile.CostUnits < cj.Profile.CostUnits
		}
		return ci.AvgLatency < cj.AvgLatency
	})

	return result
}
