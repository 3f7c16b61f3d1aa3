package criteria

import (
	"github.com/summitpines/bunkmate/pkg/core/assigner"
)

// GradeSpreadCriterion keeps the grade gap within each bunk tight.
//
// Affinity:
//   - Neutral while joining keeps the bunk's grade gap within the threshold
//   - Decreases as joining would push the gap further past the threshold
type GradeSpreadCriterion struct {
	weight float64
}

// NewGradeSpreadCriterion creates a GradeSpreadCriterion with the given affinity weight.
func NewGradeSpreadCriterion(weight float64) *GradeSpreadCriterion {
	return &GradeSpreadCriterion{weight: weight}
}

func (c *GradeSpreadCriterion) Name() string {
	return "GradeSpread"
}

func (c *GradeSpreadCriterion) RankCamper(state *assigner.SearchState, camper *assigner.CamperVar) float64 {
	return 0
}

func (c *GradeSpreadCriterion) IsBunkValid(state *assigner.SearchState, camper *assigner.CamperVar, bunk *assigner.BunkSlot) bool {
	// Spread is a soft term
	return true
}

func (c *GradeSpreadCriterion) BunkAffinity(state *assigner.SearchState, camper *assigner.CamperVar, bunk *assigner.BunkSlot) float64 {
	occupants := state.Occupants(bunk.Index)
	if len(occupants) == 0 {
		// An empty bunk cannot conflict on grade
		return 0.5
	}

	minGrade, maxGrade := occupants[0].Grade, occupants[0].Grade
	for _, occupant := range occupants[1:] {
		if occupant.Grade < minGrade {
			minGrade = occupant.Grade
		}
		if occupant.Grade > maxGrade {
			maxGrade = occupant.Grade
		}
	}

	grade := camper.Camper.Grade
	if grade < minGrade {
		minGrade = grade
	}
	if grade > maxGrade {
		maxGrade = grade
	}

	excess := maxGrade - minGrade - state.Model.Weights.SpreadThreshold
	if excess <= 0 {
		return 1.0
	}

	// Each extra grade past the threshold halves the remaining affinity
	affinity := 1.0
	for i := 0; i < excess; i++ {
		affinity /= 2
	}
	return affinity - 1.0
}

func (c *GradeSpreadCriterion) Weight() float64 {
	return c.weight
}
