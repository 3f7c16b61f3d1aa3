package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/summitpines/bunkmate/pkg/core/model"
)

// CreateScenario inserts a new scenario row
func (d *DB) CreateScenario(ctx context.Context, scenario model.Scenario) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO scenario (id, session_id, year, name, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, scenario.ID, scenario.SessionID, scenario.Year, scenario.Name, scenario.Description, scenario.Active)
	if err != nil {
		return fmt.Errorf("failed to insert scenario: %w", err)
	}

	return nil
}

// GetScenario retrieves a scenario by ID
func (d *DB) GetScenario(ctx context.Context, scenarioID string) (model.Scenario, error) {
	var s model.Scenario
	err := d.pool.QueryRow(ctx, `
		SELECT id, session_id, year, name, description, active, created_at, updated_at
		FROM scenario
		WHERE id = $1
	`, scenarioID).Scan(&s.ID, &s.SessionID, &s.Year, &s.Name, &s.Description, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Scenario{}, fmt.Errorf("scenario %s: %w", scenarioID, ErrNotFound)
	}
	if err != nil {
		return model.Scenario{}, fmt.Errorf("failed to query scenario: %w", err)
	}

	return s, nil
}

// ListScenarios retrieves all scenarios for a session (any year when zero)
func (d *DB) ListScenarios(ctx context.Context, sessionID string, year int) ([]model.Scenario, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, session_id, year, name, description, active, created_at, updated_at
		FROM scenario
		WHERE session_id = $1
		  AND ($2 = 0 OR year = $2)
		ORDER BY created_at, id
	`, sessionID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []model.Scenario
	for rows.Next() {
		var s model.Scenario
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Year, &s.Name, &s.Description, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenarios: %w", err)
	}

	return scenarios, nil
}

// UpdateScenario updates a scenario's mutable fields
func (d *DB) UpdateScenario(ctx context.Context, scenario model.Scenario) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE scenario
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`, scenario.ID, scenario.Name, scenario.Description)
	if err != nil {
		return fmt.Errorf("failed to update scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scenario %s: %w", scenario.ID, ErrNotFound)
	}

	return nil
}

// DeactivateScenario soft-deletes a scenario; assignment history is kept
func (d *DB) DeactivateScenario(ctx context.Context, scenarioID string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE scenario
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, scenarioID)
	if err != nil {
		return fmt.Errorf("failed to deactivate scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scenario %s: %w", scenarioID, ErrNotFound)
	}

	return nil
}
