package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound means the target session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrScenarioNotFound means the target scenario does not exist or is inactive
	ErrScenarioNotFound = errors.New("scenario not found")
)

// RowFailure records one failed row of a batch operation.
type RowFailure struct {
	CamperID string
	Err      error
}

// PartialBatchError reports a bulk copy that partially succeeded. The
// operation neither rolls back nor hides the partial state: it lists exactly
// which rows failed so the caller can retry only those.
type PartialBatchError struct {
	Succeeded int
	Failures  []RowFailure
}

func (e *PartialBatchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.CamperID, f.Err))
	}
	return fmt.Sprintf("%d rows copied, %d failed: %s", e.Succeeded, len(e.Failures), strings.Join(parts, "; "))
}
