package policy

import (
	"sort"

	"github.com/notevault/airouter"
)

// CheapestFirst orders candidates by static cost ascending regardless of the
// request's preference vector. Ties fall back to average latency.
type CheapestFirst struct{}

var _ airouter.Policy = (*CheapestFirst)(nil)

// Rank orders candidates by cost per call ascending.
func (p *CheapestFirst) Rank(_ airouter.Request, candidates []airouter.Candidate) []airouter.Candidate {
	result := make([]airouter.Candidate, len(candidates))
	copy(result, candidates)

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Profile.CostUnits != result[j].Profile.CostUnits {
			return result[i].Profile.CostUnits < result[j].Profile.CostUnits
		}
		return result[i].AvgLatency < result[j].AvgLatency
	})

	return result
}
