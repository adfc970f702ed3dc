package policy

import (
	"sort"

	"github.com/notevault/airouter"
)

// FastestFirst orders candidates by the tracker's average latency ascending
// regardless of the request's preference vector.
type FastestFirst struct{}

var _ airouter.Policy = (*FastestFirst)(nil)

// Rank orders candidates by average latency ascending.
func (p *FastestFirst) Rank(_ airouter.Request, candidates []airouter.Candidate) []airouter.Candidate {
	result := make([]airouter.Candidate, len(candidates))
	copy(result, candidates)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AvgLatency < result[j].AvgLatency
	})

	return result
}
