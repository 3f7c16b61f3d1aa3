package assigner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SolveOptions configures one solve attempt.
type SolveOptions struct {
	// Budget is the wall-clock ceiling for the search. The engine enforces
	// it itself; callers may additionally cancel the context.
	Budget time.Duration

	// Criteria guide the greedy construction pass
	Criteria []Criterion
}

// Solve searches for an assignment maximizing the model's objective subject
// to its hard constraints.
//
// The search runs in three phases: infeasibility diagnosis, greedy
// best-affinity construction (with a relocation repair step for campers the
// greedy pass could not place), and a first-improvement local search over
// relocation and swap moves. The context and the deadline are checked at
// every move, so cancellation latency is bounded by a single move
// evaluation.
//
// Given identical inputs the objective value is reproducible: variables,
// edges and moves are all iterated in sorted order. The identity of the
// returned assignment among tied-optimal solutions is not guaranteed.
func Solve(ctx context.Context, m *Model, opts SolveOptions) *Outcome {
	deadline := time.Now().Add(opts.Budget)
	stopped := func() bool {
		if ctx.Err() != nil {
			return true
		}
		return opts.Budget > 0 && time.Now().After(deadline)
	}

	if outcome := diagnose(m); outcome != nil {
		return outcome
	}

	state := NewSearchState(m)

	if ok := construct(state, opts.Criteria, stopped); !ok {
		if !state.AllPlaced() && stopped() {
			return &Outcome{Status: StatusNoSolution}
		}
		return &Outcome{
			Status: StatusInfeasible,
			Cause:  CauseEligibilityMismatch,
			Diagnostic: "construction could not place every camper; " +
				"eligible bunks for some campers are exhausted by other categories",
		}
	}

	if ok := repairMinimums(state); !ok {
		return &Outcome{
			Status:     StatusInfeasible,
			Cause:      CauseMinimumOccupancy,
			Diagnostic: "occupied bunks below minimum capacity could not be filled or emptied",
		}
	}

	iterations, converged := improve(state, stopped)

	status := StatusFeasible
	if converged {
		status = StatusOptimal
	}

	return buildOutcome(state, status, iterations)
}

// diagnose checks the hard-constraint classes that make every assignment
// impossible, returning an infeasible outcome with an advisory cause, or nil
// if the model passes. The cause identifies the likeliest constraint class,
// not a proven root cause.
func diagnose(m *Model) *Outcome {
	if len(m.LockConflicts) > 0 {
		return &Outcome{
			Status:     StatusInfeasible,
			Cause:      CauseLockConflict,
			Diagnostic: strings.Join(m.LockConflicts, "; "),
		}
	}

	// Overall capacity: every searched camper needs a spot in an open bunk
	totalFree := 0
	for _, slot := range m.Bunks {
		if slot.Bunk.Locked {
			continue
		}
		totalFree += slot.spotsLeft(len(slot.FixedOccupants))
	}
	if totalFree < len(m.Campers) {
		return &Outcome{
			Status: StatusInfeasible,
			Cause:  CauseCapacityShortfall,
			Diagnostic: fmt.Sprintf("%d campers need placement but only %d spots remain across open bunks",
				len(m.Campers), totalFree),
		}
	}

	// Per-category capacity: campers of one category may only use bunks
	// accepting that category
	demand := make(map[string]int)
	for _, v := range m.Campers {
		demand[v.Camper.Category]++
	}
	categories := make([]string, 0, len(demand))
	for category := range demand {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		supply := 0
		for _, slot := range m.Bunks {
			if slot.Bunk.Locked {
				continue
			}
			if slot.Bunk.Category == "" || slot.Bunk.Category == category {
				supply += slot.spotsLeft(len(slot.FixedOccupants))
			}
		}
		if demand[category] > supply {
			return &Outcome{
				Status: StatusInfeasible,
				Cause:  CauseEligibilityMismatch,
				Diagnostic: fmt.Sprintf("%d campers of category %q need placement but bunks accepting that category have only %d spots",
					demand[category], category, supply),
			}
		}
	}

	return nil
}

// construct runs the greedy best-affinity pass: campers in ranked order,
// each into the valid bunk with the highest weighted affinity. When every
// eligible bunk of a camper is full it attempts a single-step relocation of
// an occupant to free a spot. Returns false if a camper could not be placed.
func construct(state *SearchState, criteria []Criterion, stopped func() bool) bool {
	order := RankCampers(state, criteria)

	for _, camperIdx := range order {
		if stopped() {
			return false
		}

		camper := state.Model.Campers[camperIdx]
		bestBunk := -1
		bestAffinity := 0.0

		for _, bunkIdx := range camper.Eligible {
			affinity, valid := BunkAffinity(state, camper, state.Model.Bunks[bunkIdx], criteria)
			if !valid {
				continue
			}
			if bestBunk < 0 || affinity > bestAffinity {
				bestBunk = bunkIdx
				bestAffinity = affinity
			}
		}

		if bestBunk < 0 {
			bestBunk = freeSpotByRelocation(state, camper)
			if bestBunk < 0 {
				return false
			}
		}

		state.Place(camper.Index, bestBunk)
	}

	return true
}

// freeSpotByRelocation tries to open a spot in one of the camper's eligible
// bunks by moving an already-placed occupant to another bunk with space.
// Returns the freed bunk index, or -1 if no single relocation helps.
func freeSpotByRelocation(state *SearchState, camper *CamperVar) int {
	m := state.Model

	for _, bunkIdx := range camper.Eligible {
		for _, occupant := range m.Campers {
			if state.Placement[occupant.Index] != bunkIdx {
				continue
			}
			for _, altIdx := range occupant.Eligible {
				if altIdx == bunkIdx {
					continue
				}
				if state.Occupancy[altIdx] < m.Bunks[altIdx].Bunk.MaxCapacity {
					state.Place(occupant.Index, altIdx)
					return bunkIdx
				}
			}
		}
	}

	return -1
}

// repairMinimums enforces minimum occupancy on occupied, open bunks: a bunk
// holding at least one camper must reach its minimum. Underfilled bunks are
// first topped up from bunks with surplus; if that fails, their movable
// occupants are relocated out so the bunk ends empty. Returns false when
// neither works for some bunk.
func repairMinimums(state *SearchState) bool {
	m := state.Model

	// Evacuations can re-break a bunk repaired earlier in the pass, so
	// repeat until a full pass leaves every bunk valid
	for pass := 0; pass <= len(m.Bunks); pass++ {
		dirty := false

		for _, slot := range m.Bunks {
			if slot.Bunk.Locked {
				continue
			}

			guard := len(m.Campers) + 1
			for state.Occupancy[slot.Index] > 0 && state.Occupancy[slot.Index] < slot.Bunk.MinCapacity {
				if guard--; guard < 0 {
					return false
				}
				dirty = true
				if pullCamperInto(state, slot) {
					continue
				}
				if !evacuateBunk(state, slot) {
					return false
				}
			}
		}

		if !dirty {
			return true
		}
	}

	return false
}

// pullCamperInto moves one eligible camper from a surplus bunk into the
// underfilled bunk. A donor bunk has surplus when losing one occupant keeps
// it at or above its own minimum.
func pullCamperInto(state *SearchState, target *BunkSlot) bool {
	m := state.Model

	for _, v := range m.Campers {
		current := state.Placement[v.Index]
		if current < 0 || current == target.Index {
			continue
		}
		donor := m.Bunks[current]
		if state.Occupancy[current]-1 < donor.Bunk.MinCapacity {
			continue
		}
		for _, bunkIdx := range v.Eligible {
			if bunkIdx == target.Index {
				state.Place(v.Index, target.Index)
				return true
			}
		}
	}

	return false
}

// evacuateBunk relocates every searched occupant of the bunk elsewhere so
// the bunk ends empty. Fails if the bunk holds fixed occupants or an
// occupant has nowhere else to go.
func evacuateBunk(state *SearchState, slot *BunkSlot) bool {
	if len(slot.FixedOccupants) > 0 {
		return false
	}

	m := state.Model
	for _, v := range m.Campers {
		if state.Placement[v.Index] != slot.Index {
			continue
		}
		moved := false
		for _, altIdx := range v.Eligible {
			if altIdx == slot.Index {
				continue
			}
			if state.Occupancy[altIdx] < m.Bunks[altIdx].Bunk.MaxCapacity {
				state.Place(v.Index, altIdx)
				moved = true
				break
			}
		}
		if !moved {
			return false
		}
	}

	return true
}

// improve runs first-improvement local search over relocation and swap
// moves until a full pass finds no improving move (converged) or the stop
// condition fires. Returns the number of passes and whether the search
// converged.
func improve(state *SearchState, stopped func() bool) (int, bool) {
	m := state.Model
	iterations := 0

	current, _ := state.Score()

	for {
		if stopped() {
			return iterations, false
		}
		iterations++
		improved := false

		// Relocation moves
		for _, v := range m.Campers {
			if stopped() {
				return iterations, false
			}
			from := state.Placement[v.Index]

			for _, to := range v.Eligible {
				if to == from {
					continue
				}
				if !relocationKeepsBounds(state, from, to) {
					continue
				}

				state.Place(v.Index, to)
				score, _ := state.Score()
				if score > current {
					current = score
					improved = true
					break
				}
				state.Place(v.Index, from)
			}
		}

		// Swap moves keep occupancy counts intact, so they can escape
		// states where every bunk is exactly full
		for i, a := range m.Campers {
			if stopped() {
				return iterations, false
			}
			for _, b := range m.Campers[i+1:] {
				bunksA, bunksB := state.Placement[a.Index], state.Placement[b.Index]
				if bunksA == bunksB {
					continue
				}
				if !contains(a.Eligible, bunksB) || !contains(b.Eligible, bunksA) {
					continue
				}

				state.Place(a.Index, -1)
				state.Place(b.Index, bunksA)
				state.Place(a.Index, bunksB)
				score, _ := state.Score()
				if score > current {
					current = score
					improved = true
					continue
				}
				state.Place(a.Index, -1)
				state.Place(b.Index, bunksB)
				state.Place(a.Index, bunksA)
			}
		}

		if !improved {
			return iterations, true
		}
	}
}

// relocationKeepsBounds reports whether moving one camper from bunk `from`
// to bunk `to` keeps both bunks within their occupancy bounds. Leaving a
// bunk completely empty is allowed.
func relocationKeepsBounds(state *SearchState, from, to int) bool {
	m := state.Model

	if state.Occupancy[to] >= m.Bunks[to].Bunk.MaxCapacity {
		return false
	}
	if state.Occupancy[to]+1 < m.Bunks[to].Bunk.MinCapacity {
		return false
	}
	if from >= 0 {
		after := state.Occupancy[from] - 1
		if after != 0 && after < m.Bunks[from].Bunk.MinCapacity {
			return false
		}
	}
	return true
}

func contains(list []int, value int) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// buildOutcome snapshots the final state into an Outcome.
func buildOutcome(state *SearchState, status Status, iterations int) *Outcome {
	m := state.Model

	objective, contributions := state.Score()

	assignments := make(map[string]string, len(m.Campers)+len(m.Fixed))
	for id, bunkIdx := range m.Fixed {
		assignments[id] = m.Bunks[bunkIdx].Bunk.ID
	}
	for _, v := range m.Campers {
		if bunkIdx := state.Placement[v.Index]; bunkIdx >= 0 {
			assignments[v.Camper.ID] = m.Bunks[bunkIdx].Bunk.ID
		}
	}

	unassigned := make([]string, 0, len(m.Unassignable))
	for _, c := range m.Unassignable {
		unassigned = append(unassigned, c.ID)
	}

	return &Outcome{
		Status:        status,
		Assignments:   assignments,
		Unassigned:    unassigned,
		Objective:     objective,
		Contributions: contributions,
		Iterations:    iterations,
	}
}
