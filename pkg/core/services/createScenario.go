package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/pkg/core/model"
	"github.com/summitpines/bunkmate/pkg/db"
)

// ScenarioStore defines the database operations the scenario services need.
type ScenarioStore interface {
	GetSession(ctx context.Context, sessionID string) (model.Session, error)
	CreateScenario(ctx context.Context, scenario model.Scenario) error
	GetScenario(ctx context.Context, scenarioID string) (model.Scenario, error)
	ListScenarios(ctx context.Context, sessionID string, year int) ([]model.Scenario, error)
	UpdateScenario(ctx context.Context, scenario model.Scenario) error
	DeactivateScenario(ctx context.Context, scenarioID string) error
	ListAssignments(ctx context.Context, filter db.AssignmentFilter) ([]model.Assignment, error)
	UpsertAssignment(ctx context.Context, assignment model.Assignment) error
	DeleteAssignments(ctx context.Context, filter db.AssignmentFilter) (int, error)
}

// CreateScenarioParams configures a new scenario. CopyFromScenarioID seeds
// the scenario with a copy of another scenario's assignment set; CopyFromProduction
// seeds it from the production set. At most one of the two may be set.
type CreateScenarioParams struct {
	SessionID          string
	Name               string
	Description        string
	CopyFromProduction bool
	CopyFromScenarioID string
}

// CreateScenarioResult reports the created scenario and, when seeding was
// requested, how the row copy went.
type CreateScenarioResult struct {
	Scenario    model.Scenario
	CopiedRows  int
	RowFailures []RowFailure
}

// CreateScenario creates a named, isolated assignment workspace for a
// session, optionally seeded by copying an existing assignment set.
//
// Seeding is batched row by row and tolerates partial failure: rows that
// fail are collected and surfaced in the result (and as a *PartialBatchError)
// rather than rolling back the rows that succeeded, so the caller can retry
// only the failed subset.
func CreateScenario(ctx context.Context, store ScenarioStore, params CreateScenarioParams, logger *zap.Logger) (*CreateScenarioResult, error) {
	session, err := store.GetSession(ctx, params.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, params.SessionID)
	}
	if params.Name == "" {
		return nil, fmt.Errorf("scenario name is required")
	}
	if params.CopyFromProduction && params.CopyFromScenarioID != "" {
		return nil, fmt.Errorf("cannot copy from both production and scenario %s", params.CopyFromScenarioID)
	}

	now := time.Now()
	scenario := model.Scenario{
		ID:          uuid.NewString(),
		SessionID:   params.SessionID,
		Year:        session.Year,
		Name:        params.Name,
		Description: params.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := store.CreateScenario(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to create scenario: %w", err)
	}

	result := &CreateScenarioResult{Scenario: scenario}

	if !params.CopyFromProduction && params.CopyFromScenarioID == "" {
		return result, nil
	}

	sourceScenario := model.ProductionScenario
	if params.CopyFromScenarioID != "" {
		source, err := store.GetScenario(ctx, params.CopyFromScenarioID)
		if err != nil || !source.Active {
			return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, params.CopyFromScenarioID)
		}
		sourceScenario = source.ID
	}

	rows, err := store.ListAssignments(ctx, db.AssignmentFilter{
		SessionID:  params.SessionID,
		ScenarioID: sourceScenario,
		Year:       session.Year,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read source assignments: %w", err)
	}

	for _, row := range rows {
		copied := row
		copied.ScenarioID = scenario.ID
		copied.UpdatedAt = now

		if err := store.UpsertAssignment(ctx, copied); err != nil {
			result.RowFailures = append(result.RowFailures, RowFailure{CamperID: row.CamperID, Err: err})
			continue
		}
		result.CopiedRows++
	}

	logger.Info("scenario created",
		zap.String("scenario_id", scenario.ID),
		zap.String("session_id", params.SessionID),
		zap.Int("copied_rows", result.CopiedRows),
		zap.Int("failed_rows", len(result.RowFailures)))

	if len(result.RowFailures) > 0 {
		return result, &PartialBatchError{Succeeded: result.CopiedRows, Failures: result.RowFailures}
	}
	return result, nil
}
