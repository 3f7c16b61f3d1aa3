package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/pkg/core/model"
	"github.com/summitpines/bunkmate/pkg/db"
)

// ListScenarios returns the active scenarios for a session and year.
func ListScenarios(ctx context.Context, store ScenarioStore, sessionID string, year int) ([]model.Scenario, error) {
	scenarios, err := store.ListScenarios(ctx, sessionID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	active := make([]model.Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		if s.Active {
			active = append(active, s)
		}
	}
	return active, nil
}

// UpdateScenarioParams carries the editable scenario metadata.
type UpdateScenarioParams struct {
	ScenarioID  string
	Name        string
	Description string
}

// UpdateScenario updates a scenario's metadata. Assignment rows are
// untouched.
func UpdateScenario(ctx context.Context, store ScenarioStore, params UpdateScenarioParams, logger *zap.Logger) (model.Scenario, error) {
	scenario, err := store.GetScenario(ctx, params.ScenarioID)
	if err != nil || !scenario.Active {
		return model.Scenario{}, fmt.Errorf("%w: %s", ErrScenarioNotFound, params.ScenarioID)
	}

	if params.Name != "" {
		scenario.Name = params.Name
	}
	scenario.Description = params.Description
	scenario.UpdatedAt = time.Now()

	if err := store.UpdateScenario(ctx, scenario); err != nil {
		return model.Scenario{}, fmt.Errorf("failed to update scenario: %w", err)
	}

	logger.Info("scenario updated", zap.String("scenario_id", scenario.ID))
	return scenario, nil
}

// DeleteScenario soft-deletes a scenario: it is marked inactive and drops
// out of listings, but its assignment rows and history are retained.
func DeleteScenario(ctx context.Context, store ScenarioStore, scenarioID string, logger *zap.Logger) error {
	scenario, err := store.GetScenario(ctx, scenarioID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrScenarioNotFound, scenarioID)
	}

	if err := store.DeactivateScenario(ctx, scenario.ID); err != nil {
		return fmt.Errorf("failed to deactivate scenario: %w", err)
	}

	logger.Info("scenario soft-deleted", zap.String("scenario_id", scenarioID))
	return nil
}

// ClearScenario removes every assignment row in the scenario's
// session+year scope. Rows outside that scope, and the scenario record
// itself, are untouched.
func ClearScenario(ctx context.Context, store ScenarioStore, scenarioID string, year int, logger *zap.Logger) (int, error) {
	scenario, err := store.GetScenario(ctx, scenarioID)
	if err != nil || !scenario.Active {
		return 0, fmt.Errorf("%w: %s", ErrScenarioNotFound, scenarioID)
	}

	deleted, err := store.DeleteAssignments(ctx, db.AssignmentFilter{
		SessionID:  scenario.SessionID,
		ScenarioID: scenario.ID,
		Year:       year,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear scenario assignments: %w", err)
	}

	logger.Info("scenario cleared",
		zap.String("scenario_id", scenarioID),
		zap.Int("year", year),
		zap.Int("deleted_rows", deleted))

	return deleted, nil
}

// UpsertScenarioAssignmentParams is one manual assignment edit, as produced
// by drag-drop in the planning UI.
type UpsertScenarioAssignmentParams struct {
	ScenarioID string
	CamperID   string

	// BunkID empty unassigns the camper while keeping the audit row
	BunkID string

	// Locked pins this row against optimizer-driven change
	Locked bool
}

// UpsertScenarioAssignment writes one camper's assignment row in a scenario.
// Setting an empty bunk records an explicit unassignment without deleting
// the row.
func UpsertScenarioAssignment(ctx context.Context, store ScenarioStore, params UpsertScenarioAssignmentParams, logger *zap.Logger) error {
	scenario, err := store.GetScenario(ctx, params.ScenarioID)
	if err != nil || !scenario.Active {
		return fmt.Errorf("%w: %s", ErrScenarioNotFound, params.ScenarioID)
	}
	if params.CamperID == "" {
		return fmt.Errorf("camper ID is required")
	}

	assignment := model.Assignment{
		CamperID:   params.CamperID,
		BunkID:     params.BunkID,
		SessionID:  scenario.SessionID,
		ScenarioID: scenario.ID,
		Year:       scenario.Year,
		Locked:     params.Locked,
		UpdatedAt:  time.Now(),
	}

	if err := store.UpsertAssignment(ctx, assignment); err != nil {
		return fmt.Errorf("failed to upsert assignment: %w", err)
	}

	logger.Debug("scenario assignment upserted",
		zap.String("scenario_id", params.ScenarioID),
		zap.String("camper_id", params.CamperID),
		zap.String("bunk_id", params.BunkID),
		zap.Bool("locked", params.Locked))

	return nil
}
