package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/summitpines/bunkmate/pkg/db"
)

// SaveRun inserts or updates a terminal run record
func (d *DB) SaveRun(ctx context.Context, record db.RunRecord) error {
	var finishedAt *time.Time
	if !record.FinishedAt.IsZero() {
		finishedAt = &record.FinishedAt
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO run (id, session_id, scenario_id, status, payload, error_message, submitted_at, finished_at, applied)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			payload = EXCLUDED.payload,
			error_message = EXCLUDED.error_message,
			finished_at = EXCLUDED.finished_at,
			applied = EXCLUDED.applied
	`, record.ID, record.SessionID, record.ScenarioID, record.Status, record.Payload, record.ErrorMessage, record.SubmittedAt, finishedAt, record.Applied)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves a persisted run record by ID
func (d *DB) GetRun(ctx context.Context, runID string) (db.RunRecord, error) {
	var record db.RunRecord
	var finishedAt *time.Time
	err := d.pool.QueryRow(ctx, `
		SELECT id, session_id, scenario_id, status, payload, error_message, submitted_at, finished_at, applied
		FROM run
		WHERE id = $1
	`, runID).Scan(&record.ID, &record.SessionID, &record.ScenarioID, &record.Status, &record.Payload, &record.ErrorMessage, &record.SubmittedAt, &finishedAt, &record.Applied)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.RunRecord{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return db.RunRecord{}, fmt.Errorf("failed to query run: %w", err)
	}
	if finishedAt != nil {
		record.FinishedAt = *finishedAt
	}

	return record, nil
}
