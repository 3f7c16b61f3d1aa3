package assigner

import "github.com/summitpines/bunkmate/pkg/core/model"

// SearchState is the mutable state of one solve attempt: the current
// placement of every decision variable plus derived occupancy lookups.
// Criteria read it to rank campers and score candidate bunks.
type SearchState struct {
	Model *Model

	// Placement maps CamperVar.Index to a bunk index, or -1 if unplaced
	Placement []int

	// Occupancy is the occupant count per bunk, fixed occupants included
	Occupancy []int
}

// NewSearchState returns an empty state with only fixed occupants placed.
func NewSearchState(m *Model) *SearchState {
	s := &SearchState{
		Model:     m,
		Placement: make([]int, len(m.Campers)),
		Occupancy: make([]int, len(m.Bunks)),
	}
	for i := range s.Placement {
		s.Placement[i] = -1
	}
	for _, slot := range m.Bunks {
		s.Occupancy[slot.Index] = len(slot.FixedOccupants)
	}
	return s
}

// Place assigns the camper variable to the bunk and updates occupancy.
func (s *SearchState) Place(camperIdx, bunkIdx int) {
	if prev := s.Placement[camperIdx]; prev >= 0 {
		s.Occupancy[prev]--
	}
	s.Placement[camperIdx] = bunkIdx
	if bunkIdx >= 0 {
		s.Occupancy[bunkIdx]++
	}
}

// BunkOf returns the bunk index holding the given camper ID (searched or
// fixed), or -1 if the camper is unplaced.
func (s *SearchState) BunkOf(camperID string) int {
	if idx, ok := s.Model.Fixed[camperID]; ok {
		return idx
	}
	if varIdx, ok := s.Model.VarIndex[camperID]; ok {
		return s.Placement[varIdx]
	}
	return -1
}

// Occupants returns every camper currently in the bunk, fixed occupants
// first, then searched campers in variable order.
func (s *SearchState) Occupants(bunkIdx int) []model.Camper {
	occ := append([]model.Camper(nil), s.Model.Bunks[bunkIdx].FixedOccupants...)
	for _, v := range s.Model.Campers {
		if s.Placement[v.Index] == bunkIdx {
			occ = append(occ, v.Camper)
		}
	}
	return occ
}

// AllPlaced reports whether every decision variable has a bunk.
func (s *SearchState) AllPlaced() bool {
	for _, p := range s.Placement {
		if p < 0 {
			return false
		}
	}
	return true
}

// Score computes the total objective of the current placement together with
// the per-category contributions. It is the single source of truth the
// improvement search optimizes against; construction criteria only guide the
// initial greedy pass.
func (s *SearchState) Score() (float64, map[string]float64) {
	m := s.Model
	contributions := map[string]float64{
		CategoryPositiveRequests: 0,
		CategoryNegativeRequests: 0,
		CategoryGradeSpread:      0,
		CategoryAgeCohort:        0,
	}

	bunkOf := make(map[string]int, len(m.Campers)+len(m.Fixed))
	for id, idx := range m.Fixed {
		bunkOf[id] = idx
	}
	for _, v := range m.Campers {
		if s.Placement[v.Index] >= 0 {
			bunkOf[v.Camper.ID] = s.Placement[v.Index]
		}
	}

	// Satisfied positive requests add their bonus; both campers must share
	// a bunk. Pairs with no common placement contribute nothing.
	for _, edge := range m.PositiveEdges {
		a, aok := bunkOf[edge.AID]
		b, bok := bunkOf[edge.BID]
		if aok && bok && a == b {
			contributions[CategoryPositiveRequests] += edge.Weight
		}
	}

	// Violated negative requests subtract their penalty
	for _, edge := range m.NegativeEdges {
		a, aok := bunkOf[edge.AID]
		b, bok := bunkOf[edge.BID]
		if aok && bok && a == b {
			contributions[CategoryNegativeRequests] -= edge.Weight
		}
	}

	// Grade spread past the threshold is penalized per excess grade per bunk
	for _, slot := range m.Bunks {
		occ := s.Occupants(slot.Index)
		if len(occ) < 2 {
			continue
		}
		minGrade, maxGrade := occ[0].Grade, occ[0].Grade
		for _, c := range occ[1:] {
			if c.Grade < minGrade {
				minGrade = c.Grade
			}
			if c.Grade > maxGrade {
				maxGrade = c.Grade
			}
		}
		if excess := maxGrade - minGrade - m.Weights.SpreadThreshold; excess > 0 {
			contributions[CategoryGradeSpread] -= float64(excess) * m.Weights.SpreadPenalty
		}
	}

	for _, pref := range m.Cohorts {
		bunkIdx, ok := bunkOf[pref.CamperID]
		if !ok {
			continue
		}
		switch evaluateCohort(pref, s.Occupants(bunkIdx)) {
		case cohortSatisfied:
			contributions[CategoryAgeCohort] += pref.Weight * m.Weights.CohortBonus
		case cohortViolated:
			contributions[CategoryAgeCohort] -= pref.Weight * m.Weights.CohortPenalty
		}
	}

	total := 0.0
	for _, v := range contributions {
		total += v
	}
	return total, contributions
}

type cohortResult int

const (
	cohortSatisfied cohortResult = iota
	cohortViolated
)

// evaluateCohort applies the directional age-cohort rule: the preference is
// satisfied if the bunk holds at least one bunkmate strictly on the preferred
// side, or if every bunkmate is on the non-conflicting side (same age counts
// as non-conflicting). It is violated only when every bunkmate sits strictly
// on the conflicting side.
func evaluateCohort(pref CohortPref, occupants []model.Camper) cohortResult {
	bunkmates := 0
	conflicting := 0

	for _, c := range occupants {
		if c.ID == pref.CamperID {
			continue
		}
		bunkmates++

		switch pref.Direction {
		case model.DirectionOlder:
			if c.Age > pref.Age {
				return cohortSatisfied
			}
			if c.Age < pref.Age {
				conflicting++
			}
		case model.DirectionYounger:
			if c.Age < pref.Age {
				return cohortSatisfied
			}
			if c.Age > pref.Age {
				conflicting++
			}
		}
	}

	if bunkmates > 0 && conflicting == bunkmates {
		return cohortViolated
	}
	return cohortSatisfied
}
