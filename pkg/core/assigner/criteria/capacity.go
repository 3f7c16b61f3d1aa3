package criteria

import (
	"github.com/summitpines/bunkmate/pkg/core/assigner"
)

// CapacityCriterion enforces bunk occupancy bounds during construction.
//
// Validity:
//   - Returns false if the bunk is already at its maximum occupancy
//
// Affinity:
//   - Strongly prefers bunks still below their minimum occupancy, so every
//     bunk reaches a viable size before popular bunks fill up
//   - Otherwise prefers emptier bunks, spreading campers evenly
type CapacityCriterion struct {
	weight float64
}

// NewCapacityCriterion creates a CapacityCriterion with the given affinity weight.
func NewCapacityCriterion(weight float64) *CapacityCriterion {
	return &CapacityCriterion{weight: weight}
}

func (c *CapacityCriterion) Name() string {
	return "Capacity"
}

func (c *CapacityCriterion) RankCamper(state *assigner.SearchState, camper *assigner.CamperVar) float64 {
	// Placement order is not capacity-driven
	return 0
}

func (c *CapacityCriterion) IsBunkValid(state *assigner.SearchState, camper *assigner.CamperVar, bunk *assigner.BunkSlot) bool {
	return state.Occupancy[bunk.Index] < bunk.Bunk.MaxCapacity
}

func (c *CapacityCriterion) BunkAffinity(state *assigner.SearchState, camper *assigner.CamperVar, bunk *assigner.BunkSlot) float64 {
	occupancy := state.Occupancy[bunk.Index]

	// Bunks below minimum occupancy are urgent
	if occupancy < bunk.Bunk.MinCapacity {
		return 1.0
	}

	if bunk.Bunk.MaxCapacity == 0 {
		return 0
	}

	// Emptier bunks score higher so the construction pass balances load
	fill := float64(occupancy) / float64(bunk.Bunk.MaxCapacity)
	return 0.5 * (1.0 - fill)
}

func (c *CapacityCriterion) Weight() float64 {
	return c.weight
}
