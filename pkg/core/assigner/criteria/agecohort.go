package criteria

import (
	"github.com/summitpines/bunkmate/pkg/core/assigner"
	"github.com/summitpines/bunkmate/pkg/core/model"
)

// AgeCohortCriterion steers campers with a directional age preference
// toward bunks that already hold a bunkmate on their preferred side, and
// away from bunks occupied exclusively by the conflicting side.
type AgeCohortCriterion struct {
	weight float64
}

// NewAgeCohortCriterion creates an AgeCohortCriterion with the given affinity weight.
func NewAgeCohortCriterion(weight float64) *AgeCohortCriterion {
	return &AgeCohortCriterion{weight: weight}
}

func (c *AgeCohortCriterion) Name() string {
	return "AgeCohort"
}

func (c *AgeCohortCriterion) RankCamper(state *assigner.SearchState, camper *assigner.CamperVar) float64 {
	return 0
}

func (c *AgeCohortCriterion) IsBunkValid(state *assigner.SearchState, camper *assigner.CamperVar, bunk *assigner.BunkSlot) bool {
	return true
}

func (c *AgeCohortCriterion) BunkAffinity(state *assigner.SearchState, camper *assigner.CamperVar, bunk *assigner.BunkSlot) float64 {
	pref, ok := cohortFor(state.Model, camper.Camper.ID)
	if !ok {
		return 0
	}

	occupants := state.Occupants(bunk.Index)
	if len(occupants) == 0 {
		return 0
	}

	conflicting := 0
	for _, occupant := range occupants {
		switch pref.Direction {
		case model.DirectionOlder:
			if occupant.Age > camper.Camper.Age {
				return pref.Weight
			}
			if occupant.Age < camper.Camper.Age {
				conflicting++
			}
		case model.DirectionYounger:
			if occupant.Age < camper.Camper.Age {
				return pref.Weight
			}
			if occupant.Age > camper.Camper.Age {
				conflicting++
			}
		}
	}

	// Exclusively conflicting occupants would violate the preference
	if conflicting == len(occupants) {
		return -pref.Weight
	}
	return 0
}

func (c *AgeCohortCriterion) Weight() float64 {
	return c.weight
}

func cohortFor(m *assigner.Model, camperID string) (assigner.CohortPref, bool) {
	for _, pref := range m.Cohorts {
		if pref.CamperID == camperID {
			return pref, true
		}
	}
	return assigner.CohortPref{}, false
}
