package runs

import (
	"errors"
	"fmt"
)

// Sentinel errors for run-lifecycle misuse. Parameter and conflict errors
// surface synchronously from Submit/Apply; optimizer failures only ever
// surface through a terminal run state.
var (
	// ErrInvalidParameter rejects a submission before any run is created:
	// out-of-range time budget, unknown session or scenario
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrRunNotFound means the run ID is unknown to this manager
	ErrRunNotFound = errors.New("run not found")

	// ErrConcurrentRunConflict means a run is already in flight for the
	// same (session, scenario) scope; submissions are rejected, not queued
	ErrConcurrentRunConflict = errors.New("a run is already active for this session and scenario")

	// ErrRunNotCompleted rejects applying a run that is not in the
	// completed state
	ErrRunNotCompleted = errors.New("run is not completed")

	// ErrAlreadyApplied rejects a second apply of the same run
	ErrAlreadyApplied = errors.New("run results were already applied")
)

// InfeasibleError is returned by the optimizer runner when the hard
// constraints admit no assignment. It carries the advisory diagnostic so the
// failed run's error message helps the operator remediate.
type InfeasibleError struct {
	Cause      string
	Diagnostic string
}

func (e *InfeasibleError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("no feasible assignment exists (%s)", e.Cause)
	}
	return fmt.Sprintf("no feasible assignment exists (%s): %s", e.Cause, e.Diagnostic)
}
