package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/summitpines/bunkmate/pkg/core/model"
	"github.com/summitpines/bunkmate/pkg/db"
)

// ListAssignments retrieves assignment rows matching the filter
func (d *DB) ListAssignments(ctx context.Context, filter db.AssignmentFilter) ([]model.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT camper_id, bunk_id, session_id, scenario_id, year, locked, updated_at
		FROM assignment
		WHERE session_id = $1
		  AND scenario_id = $2
		  AND ($3 = 0 OR year = $3)
		ORDER BY camper_id
	`, filter.SessionID, filter.ScenarioID, filter.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		var bunkID *string
		if err := rows.Scan(&a.CamperID, &bunkID, &a.SessionID, &a.ScenarioID, &a.Year, &a.Locked, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if bunkID != nil {
			a.BunkID = *bunkID
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// UpsertAssignment inserts or updates a single assignment row
func (d *DB) UpsertAssignment(ctx context.Context, assignment model.Assignment) error {
	var bunkID *string
	if assignment.BunkID != "" {
		bunkID = &assignment.BunkID
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO assignment (camper_id, bunk_id, session_id, scenario_id, year, locked, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (camper_id, session_id, scenario_id, year) DO UPDATE SET
			bunk_id = EXCLUDED.bunk_id,
			locked = EXCLUDED.locked,
			updated_at = NOW()
	`, assignment.CamperID, bunkID, assignment.SessionID, assignment.ScenarioID, assignment.Year, assignment.Locked)
	if err != nil {
		return fmt.Errorf("failed to upsert assignment: %w", err)
	}

	return nil
}

// DeleteAssignments removes all assignment rows matching the filter and
// returns the number of rows removed
func (d *DB) DeleteAssignments(ctx context.Context, filter db.AssignmentFilter) (int, error) {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM assignment
		WHERE session_id = $1
		  AND scenario_id = $2
		  AND ($3 = 0 OR year = $3)
	`, filter.SessionID, filter.ScenarioID, filter.Year)
	if err != nil {
		return 0, fmt.Errorf("failed to delete assignments: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ReplaceAssignments swaps the full assignment set for the filter scope in
// one transaction. Readers never observe a partially applied result.
func (d *DB) ReplaceAssignments(ctx context.Context, filter db.AssignmentFilter, assignments []model.Assignment) (int, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM assignment
		WHERE session_id = $1
		  AND scenario_id = $2
		  AND ($3 = 0 OR year = $3)
	`, filter.SessionID, filter.ScenarioID, filter.Year)
	if err != nil {
		return 0, fmt.Errorf("failed to clear assignment scope: %w", err)
	}

	now := time.Now()
	for _, a := range assignments {
		var bunkID *string
		if a.BunkID != "" {
			bunkID = &a.BunkID
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (camper_id, bunk_id, session_id, scenario_id, year, locked, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, a.CamperID, bunkID, a.SessionID, a.ScenarioID, a.Year, a.Locked, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert assignment for camper %s: %w", a.CamperID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(assignments), nil
}
