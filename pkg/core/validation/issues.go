package validation

// Severity classifies how serious a validation finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category identifies the rule a validation finding belongs to.
type Category string

const (
	CategoryCapacity            Category = "capacity"
	CategoryNegativeViolated    Category = "negative_request_violated"
	CategoryPositiveUnsatisfied Category = "positive_request_unsatisfied"
	CategorySpreadExceeded      Category = "grade_spread_exceeded"
	CategoryFriendGroupSplit    Category = "friend_group_split"
	CategoryCamperUnassigned    Category = "camper_unassigned"
	CategoryAgeCohortViolated   Category = "age_cohort_violated"
)

// Issue is one structured validation finding: what rule, how serious, and
// which entities are involved.
type Issue struct {
	Severity Severity
	Category Category
	Message  string

	// CamperIDs lists the campers involved (sorted); empty for bunk-only findings
	CamperIDs []string

	// BunkID is the bunk involved, if any
	BunkID string
}

// CapacityStatus is the occupancy verdict for one bunk. It is a pure
// function of occupant count against the bunk's bounds, independent of how
// the assignment was produced.
type CapacityStatus string

const (
	// CapacityOver means the bunk holds more campers than its maximum
	CapacityOver CapacityStatus = "over"

	// CapacityAt means the bunk is exactly at its maximum
	CapacityAt CapacityStatus = "at"

	// CapacityUnder means the bunk is occupied but below its minimum
	CapacityUnder CapacityStatus = "under"

	// CapacityWithin means occupancy is inside the bounds (or the bunk is empty)
	CapacityWithin CapacityStatus = "within"
)

// CapacityStatusOf classifies an occupant count against [min, max].
// An empty bunk is never "under": the minimum binds only occupied bunks.
func CapacityStatusOf(count, min, max int) CapacityStatus {
	switch {
	case count > max:
		return CapacityOver
	case count == max:
		return CapacityAt
	case count > 0 && count < min:
		return CapacityUnder
	default:
		return CapacityWithin
	}
}

// Statistics is the aggregate summary computed alongside the issue list.
type Statistics struct {
	TotalCampers      int
	AssignedCampers   int
	UnassignedCampers int

	BunksOver  int
	BunksAt    int
	BunksUnder int

	PositiveRequests  int
	PositiveSatisfied int

	NegativeRequests int
	NegativeViolated int

	CohortRequests  int
	CohortSatisfied int

	FriendGroups       int
	IntactFriendGroups int

	// SatisfactionRate is satisfied positive requests over total positive
	// requests (1.0 when there are none)
	SatisfactionRate float64

	Errors   int
	Warnings int
	Infos    int
}

// Report is the result of one validation pass.
type Report struct {
	Issues []Issue
	Stats  Statistics
}
