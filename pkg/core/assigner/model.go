package assigner

import (
	"fmt"
	"sort"

	"github.com/summitpines/bunkmate/pkg/core/model"
)

// BuildInput contains the session-scoped data needed to build a model instance.
type BuildInput struct {
	Campers  []model.Camper
	Bunks    []model.Bunk
	Requests []model.PreferenceRequest

	// RespectLocks pre-fixes locked campers to their current bunk and
	// removes their decision variables from the search space
	RespectLocks bool

	Weights Weights
}

// BuildModel translates roster data and preference requests into a solvable
// model instance: one decision variable per unlocked camper, the eligible
// bunk list for each, and one deduplicated weighted edge per camper pair
// per request kind.
//
// Locked campers (when RespectLocks is true) are pinned to their current
// bunk rather than biased toward it; their variables do not exist in the
// search space at all. Lock conflicts (locked camper pinned to an unknown,
// closed, full or category-mismatched bunk) are recorded on the model and
// surface as an infeasible outcome at solve time.
func BuildModel(input BuildInput) *Model {
	m := &Model{
		Fixed:    make(map[string]int),
		VarIndex: make(map[string]int),
		Weights:  input.Weights,
	}

	// Sort bunks and campers by ID so variable order, and therefore the
	// objective value, is reproducible across runs
	bunks := append([]model.Bunk(nil), input.Bunks...)
	sort.Slice(bunks, func(i, j int) bool { return bunks[i].ID < bunks[j].ID })

	campers := append([]model.Camper(nil), input.Campers...)
	sort.Slice(campers, func(i, j int) bool { return campers[i].ID < campers[j].ID })

	bunkIndex := make(map[string]int, len(bunks))
	for i, b := range bunks {
		m.Bunks = append(m.Bunks, &BunkSlot{Bunk: b, Index: i})
		bunkIndex[b.ID] = i
	}

	// Degree counts how many active preference edges touch each camper
	degree := make(map[string]int)
	for _, req := range input.Requests {
		if !req.Active {
			continue
		}
		degree[req.RequesterID]++
		if req.RequesteeID != "" {
			degree[req.RequesteeID]++
		}
	}

	camperByID := make(map[string]model.Camper, len(campers))

	for _, c := range campers {
		camperByID[c.ID] = c

		// Locked campers are pre-fixed, not searched
		if input.RespectLocks && c.Locked && c.BunkID != "" {
			idx, ok := bunkIndex[c.BunkID]
			if !ok {
				m.LockConflicts = append(m.LockConflicts,
					fmt.Sprintf("camper %s is locked to unknown bunk %s", c.ID, c.BunkID))
				continue
			}
			slot := m.Bunks[idx]
			if slot.Bunk.Locked {
				m.LockConflicts = append(m.LockConflicts,
					fmt.Sprintf("camper %s is locked to closed bunk %s", c.ID, slot.Bunk.ID))
			}
			if !slot.Accepts(c) {
				m.LockConflicts = append(m.LockConflicts,
					fmt.Sprintf("camper %s (category %q) is locked to bunk %s (category %q)",
						c.ID, c.Category, slot.Bunk.ID, slot.Bunk.Category))
			}
			slot.FixedOccupants = append(slot.FixedOccupants, c)
			m.Fixed[c.ID] = idx
			continue
		}

		// Eligible bunks: category match, bunk not closed
		eligible := make([]int, 0)
		for i, slot := range m.Bunks {
			if slot.Bunk.Locked {
				continue
			}
			if slot.Accepts(c) {
				eligible = append(eligible, i)
			}
		}

		if len(eligible) == 0 {
			m.Unassignable = append(m.Unassignable, c)
			continue
		}

		v := &CamperVar{
			Camper:   c,
			Index:    len(m.Campers),
			Eligible: eligible,
			Degree:   degree[c.ID],
		}
		m.VarIndex[c.ID] = v.Index
		m.Campers = append(m.Campers, v)
	}

	// Locked placements over a bunk's maximum are a hard conflict
	for _, slot := range m.Bunks {
		if len(slot.FixedOccupants) > slot.Bunk.MaxCapacity {
			m.LockConflicts = append(m.LockConflicts,
				fmt.Sprintf("bunk %s has %d locked campers but max capacity %d",
					slot.Bunk.ID, len(slot.FixedOccupants), slot.Bunk.MaxCapacity))
		}
	}

	m.buildEdges(input.Requests, camperByID)

	return m
}

// buildEdges collapses active preference requests into one unordered edge per
// pair per kind. Edge weights scale the configured base weight by the highest
// priority*confidence product seen across the collapsed duplicates, so
// duplicate intake rows never double-count.
func (m *Model) buildEdges(requests []model.PreferenceRequest, campers map[string]model.Camper) {
	type pairKey struct {
		a, b string
		kind model.PreferenceKind
	}

	scale := func(req model.PreferenceRequest) float64 {
		priority := req.Priority
		if priority < 1 {
			priority = 1
		}
		confidence := req.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = 1
		}
		return float64(priority) * confidence
	}

	pairScale := make(map[pairKey]float64)
	cohortScale := make(map[string]float64)
	cohortDir := make(map[string]model.CohortDirection)

	for _, req := range requests {
		if !req.Active {
			continue
		}

		switch req.Kind {
		case model.KindBunkWith, model.KindNotBunkWith:
			// A request about an unknown camper cannot be evaluated
			if _, ok := campers[req.RequesterID]; !ok {
				continue
			}
			if _, ok := campers[req.RequesteeID]; !ok {
				continue
			}
			if req.RequesterID == req.RequesteeID {
				continue
			}

			// Negative requests bind both campers regardless of which side
			// asked; positive pairs collapse the same way
			a, b := req.RequesterID, req.RequesteeID
			if b < a {
				a, b = b, a
			}
			key := pairKey{a: a, b: b, kind: req.Kind}
			if s := scale(req); s > pairScale[key] {
				pairScale[key] = s
			}

		case model.KindAgeCohort:
			if _, ok := campers[req.RequesterID]; !ok {
				continue
			}
			if req.Direction == model.DirectionNone {
				continue
			}
			if s := scale(req); s > cohortScale[req.RequesterID] {
				cohortScale[req.RequesterID] = s
				cohortDir[req.RequesterID] = req.Direction
			}
		}
	}

	// Emit edges in sorted order for reproducible scoring
	keys := make([]pairKey, 0, len(pairScale))
	for key := range pairScale {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].a != keys[j].a {
			return keys[i].a < keys[j].a
		}
		if keys[i].b != keys[j].b {
			return keys[i].b < keys[j].b
		}
		return keys[i].kind < keys[j].kind
	})

	for _, key := range keys {
		edge := Edge{AID: key.a, BID: key.b}
		switch key.kind {
		case model.KindBunkWith:
			edge.Weight = m.Weights.PositiveBonus * pairScale[key]
			m.PositiveEdges = append(m.PositiveEdges, edge)
		case model.KindNotBunkWith:
			edge.Weight = m.Weights.NegativePenalty * pairScale[key]
			m.NegativeEdges = append(m.NegativeEdges, edge)
		}
	}

	cohortIDs := make([]string, 0, len(cohortScale))
	for id := range cohortScale {
		cohortIDs = append(cohortIDs, id)
	}
	sort.Strings(cohortIDs)

	for _, id := range cohortIDs {
		m.Cohorts = append(m.Cohorts, CohortPref{
			CamperID:  id,
			Age:       campers[id].Age,
			Direction: cohortDir[id],
			Weight:    cohortScale[id],
		})
	}
}
