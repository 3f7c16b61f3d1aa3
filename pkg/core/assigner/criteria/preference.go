package criteria

import (
	"github.com/summitpines/bunkmate/pkg/core/assigner"
)

// PreferenceCriterion steers construction toward satisfying bunk_with
// requests and away from violating not_bunk_with requests.
//
// Ranking:
//   - Campers touched by more preference edges are placed earlier, since
//     they are the hardest to satisfy once bunks fill up
//
// Affinity:
//   - Positive edge weight to campers already in the bunk raises affinity
//   - Negative edge weight to campers already in the bunk lowers it sharply;
//     the penalty stays soft (no veto) so a violation remains representable
//     when no feasible alternative exists
type PreferenceCriterion struct {
	weight float64
}

// NewPreferenceCriterion creates a PreferenceCriterion with the given affinity weight.
func NewPreferenceCriterion(weight float64) *PreferenceCriterion {
	return &PreferenceCriterion{weight: weight}
}

func (c *PreferenceCriterion) Name() string {
	return "Preference"
}

func (c *PreferenceCriterion) RankCamper(state *assigner.SearchState, camper *assigner.CamperVar) float64 {
	return float64(camper.Degree)
}

func (c *PreferenceCriterion) IsBunkValid(state *assigner.SearchState, camper *assigner.CamperVar, bunk *assigner.BunkSlot) bool {
	// Negative requests are soft terms, never a hard veto
	return true
}

func (c *PreferenceCriterion) BunkAffinity(state *assigner.SearchState, camper *assigner.CamperVar, bunk *assigner.BunkSlot) float64 {
	affinity := 0.0

	for _, edge := range state.Model.PositiveEdges {
		partner, ok := edgePartner(edge, camper.Camper.ID)
		if !ok {
			continue
		}
		if state.BunkOf(partner) == bunk.Index {
			affinity += edge.Weight
		}
	}

	for _, edge := range state.Model.NegativeEdges {
		partner, ok := edgePartner(edge, camper.Camper.ID)
		if !ok {
			continue
		}
		if state.BunkOf(partner) == bunk.Index {
			affinity -= edge.Weight
		}
	}

	return affinity
}

func (c *PreferenceCriterion) Weight() float64 {
	return c.weight
}

// edgePartner returns the other endpoint of the edge when camperID is one
// of its endpoints.
func edgePartner(edge assigner.Edge, camperID string) (string, bool) {
	switch camperID {
	case edge.AID:
		return edge.BID, true
	case edge.BID:
		return edge.AID, true
	}
	return "", false
}
