package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/pkg/core/validation"
)

// ValidateAssignments audits the assignment set of a session (production by
// default, or one scenario) and returns the structured issue list plus
// aggregate statistics. It is a read-only pass: safe to call concurrently
// with anything, including an in-flight optimizer run.
func ValidateAssignments(ctx context.Context, store SnapshotStore, sessionID, scenarioID string, thresholds validation.Thresholds, logger *zap.Logger) (*validation.Report, error) {
	snapshot, err := LoadSessionSnapshot(ctx, store, sessionID, scenarioID)
	if err != nil {
		return nil, err
	}

	report := validation.Validate(validation.Input{
		Campers:     snapshot.Campers,
		Bunks:       snapshot.Bunks,
		Requests:    snapshot.Requests,
		Assignments: snapshot.Assignments,
		Thresholds:  thresholds,
	})

	logger.Debug("validated assignments",
		zap.String("session_id", sessionID),
		zap.String("scenario_id", scenarioID),
		zap.Int("issues", len(report.Issues)),
		zap.Int("errors", report.Stats.Errors),
		zap.Int("warnings", report.Stats.Warnings))

	return report, nil
}
