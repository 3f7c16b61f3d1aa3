package runs

import (
	"time"

	"github.com/summitpines/bunkmate/pkg/core/assigner"
	"github.com/summitpines/bunkmate/pkg/core/validation"
)

// Status is the lifecycle state of a run. Transitions are
// pending → running → {completed, failed}; terminal states are immutable.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SubmitParams are the caller-supplied parameters of one run submission.
type SubmitParams struct {
	SessionID string

	// ScenarioID targets a scenario's assignment set; empty targets production
	ScenarioID string

	// RespectLocks pins locked campers to their current bunk
	RespectLocks bool

	// ApplyResults applies the result to the target store automatically on
	// completion
	ApplyResults bool

	// TimeLimitSeconds is the search budget; must be within [1, 600]
	TimeLimitSeconds int
}

// Summary aggregates a completed run's result for quick review.
type Summary struct {
	SolverStatus    assigner.Status
	ObjectiveValue  float64
	Contributions   map[string]float64
	AssignedCount   int
	UnassignedCount int

	// Validation is the sanity pass the manager runs over the result
	// before exposing it
	Validation *validation.Report
}

// Result is the payload of a completed run.
type Result struct {
	// Assignments maps camper ID to bunk ID
	Assignments map[string]string

	// Unassigned lists campers left without a bunk
	Unassigned []string

	Summary Summary
}

// Run is an immutable snapshot of one run's state as returned by Get.
// Polling a terminal run always yields the same payload.
type Run struct {
	ID         string
	SessionID  string
	ScenarioID string
	Year       int
	Status     Status
	Params     SubmitParams

	SubmittedAt time.Time
	StartedAt   time.Time
	FinishedAt  time.Time

	// Result is non-nil only when Status is StatusCompleted
	Result *Result

	// ErrorMessage is set only when Status is StatusFailed
	ErrorMessage string

	// Applied is true once the run's result has been copied into the
	// target assignment store
	Applied   bool
	AppliedAt time.Time
}

// run is the manager's internal mutable record backing the Run snapshots.
type run struct {
	Run

	cancel   func()
	canceled bool
	applying bool
	watchdog *time.Timer
}

// snapshot returns a defensive copy safe to hand to callers.
func (r *run) snapshot() Run {
	out := r.Run
	if r.Result != nil {
		resultCopy := *r.Result
		resultCopy.Assignments = make(map[string]string, len(r.Result.Assignments))
		for k, v := range r.Result.Assignments {
			resultCopy.Assignments[k] = v
		}
		resultCopy.Unassigned = append([]string(nil), r.Result.Unassigned...)
		if r.Result.Summary.Contributions != nil {
			resultCopy.Summary.Contributions = make(map[string]float64, len(r.Result.Summary.Contributions))
			for k, v := range r.Result.Summary.Contributions {
				resultCopy.Summary.Contributions[k] = v
			}
		}
		if r.Result.Summary.Validation != nil {
			reportCopy := *r.Result.Summary.Validation
			reportCopy.Issues = append([]validation.Issue(nil), r.Result.Summary.Validation.Issues...)
			resultCopy.Summary.Validation = &reportCopy
		}
		out.Result = &resultCopy
	}
	return out
}
