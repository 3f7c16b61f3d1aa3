package assigner

import "sort"

// Criterion guides the greedy construction pass: it ranks which campers are
// placed first and scores how well each eligible bunk suits a camper given
// the placements made so far.
//
// Criteria only steer construction. The improvement search that follows
// optimizes the full objective directly (SearchState.Score), so a criterion
// does not need to mirror the objective exactly - it needs to produce a good
// starting point.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// RankCamper adjusts the placement order of a camper variable.
	// Higher values place the camper earlier. Return 0 if this criterion
	// does not affect ordering.
	RankCamper(state *SearchState, camper *CamperVar) float64

	// IsBunkValid reports whether placing the camper in the bunk would
	// violate a hard constraint. Any criterion returning false vetoes the
	// placement.
	IsBunkValid(state *SearchState, camper *CamperVar, bunk *BunkSlot) bool

	// BunkAffinity scores how well the bunk suits the camper right now.
	// Higher is better; the weighted sum across criteria picks the bunk.
	BunkAffinity(state *SearchState, camper *CamperVar, bunk *BunkSlot) float64

	// Weight scales this criterion's affinity contribution
	Weight() float64
}

// BunkAffinity computes the total weighted affinity between a camper and a
// bunk, or negative infinity semantics via (0, false) when any criterion
// vetoes the placement.
func BunkAffinity(state *SearchState, camper *CamperVar, bunk *BunkSlot, criteria []Criterion) (float64, bool) {
	for _, criterion := range criteria {
		if !criterion.IsBunkValid(state, camper, bunk) {
			return 0, false
		}
	}

	total := 0.0
	for _, criterion := range criteria {
		total += criterion.BunkAffinity(state, camper, bunk) * criterion.Weight()
	}
	return total, true
}

// RankCampers returns camper variable indices in placement order: fewest
// eligible bunks first, then highest criterion rank, then camper ID as a
// deterministic tie-break.
func RankCampers(state *SearchState, criteria []Criterion) []int {
	m := state.Model
	scores := make([]float64, len(m.Campers))
	for i, v := range m.Campers {
		for _, criterion := range criteria {
			scores[i] += criterion.RankCamper(state, v)
		}
	}

	order := make([]int, len(m.Campers))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		vi, vj := m.Campers[order[i]], m.Campers[order[j]]
		if len(vi.Eligible) != len(vj.Eligible) {
			return len(vi.Eligible) < len(vj.Eligible)
		}
		if scores[order[i]] != scores[order[j]] {
			return scores[order[i]] > scores[order[j]]
		}
		return vi.Camper.ID < vj.Camper.ID
	})
	return order
}
