package assigner

import (
	"github.com/summitpines/bunkmate/pkg/core/model"
)

// Status is the terminal state of one solve attempt.
type Status string

const (
	// StatusOptimal means the search converged: no improving move existed
	// within the neighborhood before the deadline
	StatusOptimal Status = "optimal"

	// StatusFeasible means a valid assignment was found but the search was
	// stopped (deadline or cancellation) before convergence
	StatusFeasible Status = "feasible"

	// StatusInfeasible means no assignment can satisfy the hard constraints
	StatusInfeasible Status = "infeasible"

	// StatusNoSolution means the deadline was reached before any valid
	// assignment was constructed
	StatusNoSolution Status = "timeout-no-solution"
)

// InfeasibilityCause is the advisory diagnostic attached to an infeasible
// outcome. It identifies the hard-constraint class most likely responsible;
// it is a remediation hint, not a proof of root cause.
type InfeasibilityCause string

const (
	CauseCapacityShortfall   InfeasibilityCause = "capacity_shortfall"
	CauseEligibilityMismatch InfeasibilityCause = "eligibility_mismatch"
	CauseLockConflict        InfeasibilityCause = "lock_conflict"
	CauseMinimumOccupancy    InfeasibilityCause = "minimum_occupancy"
)

// Objective contribution categories reported in Outcome.Contributions.
const (
	CategoryPositiveRequests = "positive_requests"
	CategoryNegativeRequests = "negative_requests"
	CategoryGradeSpread      = "grade_spread"
	CategoryAgeCohort        = "age_cohort"
)

// Weights configures the soft terms of the objective. All hard rules
// (eligibility, capacity bounds, locks) are enforced structurally and are
// not weighted.
type Weights struct {
	// PositiveBonus is the base bonus for a satisfied bunk_with request,
	// scaled by the request's priority and confidence
	PositiveBonus float64

	// NegativePenalty is the base penalty for a violated not_bunk_with
	// request, scaled by priority and confidence. This should dominate
	// typical positive bonuses so the search avoids violations unless no
	// feasible alternative exists.
	NegativePenalty float64

	// SpreadThreshold is the allowed grade gap within a bunk before the
	// spread penalty starts accruing
	SpreadThreshold int

	// SpreadPenalty is charged per grade beyond SpreadThreshold per bunk
	SpreadPenalty float64

	// CohortBonus is awarded per satisfied age-cohort preference,
	// scaled by priority and confidence
	CohortBonus float64

	// CohortPenalty is charged per violated age-cohort preference,
	// scaled by priority and confidence
	CohortPenalty float64
}

// DefaultWeights returns the weights used when the configuration does not
// override them. The negative penalty is an order of magnitude above the
// positive bonus so keep-apart requests win under pressure.
func DefaultWeights() Weights {
	return Weights{
		PositiveBonus:   10,
		NegativePenalty: 100,
		SpreadThreshold: 1,
		SpreadPenalty:   5,
		CohortBonus:     3,
		CohortPenalty:   6,
	}
}

// CamperVar is one decision variable: a camper to be placed by the search.
// Locked campers and campers with no eligible bunk never become variables.
type CamperVar struct {
	Camper model.Camper

	// Index is this variable's position in Model.Campers
	Index int

	// Eligible holds the indices of bunks this camper may occupy,
	// in ascending bunk-ID order
	Eligible []int

	// Degree is the number of preference edges touching this camper,
	// used to rank hard-to-place campers first
	Degree int
}

// BunkSlot is one bunk in the model, together with the locked campers
// already pinned to it.
type BunkSlot struct {
	Bunk model.Bunk

	// Index is this slot's position in Model.Bunks
	Index int

	// FixedOccupants are locked campers pre-placed here; they count toward
	// capacity and spread but are outside the search space
	FixedOccupants []model.Camper
}

// Edge is one deduplicated, unordered preference edge between two campers.
// Weight is already scaled by priority, confidence and the base weight.
type Edge struct {
	AID    string
	BID    string
	Weight float64
}

// CohortPref is one age-cohort preference for a single camper.
type CohortPref struct {
	CamperID  string
	Age       int
	Direction model.CohortDirection
	Weight    float64
}

// Model is the solvable instance produced by BuildModel: decision variables,
// bunk slots, deduplicated preference edges, and weights.
type Model struct {
	Campers []*CamperVar
	Bunks   []*BunkSlot

	// Fixed maps locked camper IDs to their pinned bunk index
	Fixed map[string]int

	// VarIndex maps camper IDs to their position in Campers
	VarIndex map[string]int

	// Unassignable lists campers with no eligible bunk; they are reported
	// as unassigned rather than making the model infeasible
	Unassignable []model.Camper

	PositiveEdges []Edge
	NegativeEdges []Edge
	Cohorts       []CohortPref

	// LockConflicts records locked placements that violate a hard rule;
	// a non-empty list makes the model infeasible
	LockConflicts []string

	Weights Weights
}

// Outcome is the result of one solve attempt.
type Outcome struct {
	Status Status

	// Assignments maps camper ID to bunk ID for every placed camper,
	// locked placements included. Empty on infeasible/no-solution.
	Assignments map[string]string

	// Unassigned lists campers left without a bunk (no eligible bunk exists)
	Unassigned []string

	// Objective is the total score of the returned assignment
	Objective float64

	// Contributions breaks the objective down per category
	Contributions map[string]float64

	// Cause and Diagnostic are set only when Status is StatusInfeasible
	Cause      InfeasibilityCause
	Diagnostic string

	// Iterations counts improvement passes performed by the search
	Iterations int
}

// spotsLeft returns the remaining capacity of the bunk given the current
// occupant count (fixed occupants included in count).
func (b *BunkSlot) spotsLeft(count int) int {
	remaining := b.Bunk.MaxCapacity - count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Accepts reports whether the bunk's category admits the camper's category.
// A bunk with an empty category accepts every camper.
func (b *BunkSlot) Accepts(c model.Camper) bool {
	return b.Bunk.Category == "" || b.Bunk.Category == c.Category
}
