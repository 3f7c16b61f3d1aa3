package postgres

import (
	"context"
	"fmt"

	"github.com/summitpines/bunkmate/pkg/core/model"
)

// ListPreferenceRequests retrieves all bunking requests for a session,
// including inactive ones; callers filter on Active
func (d *DB) ListPreferenceRequests(ctx context.Context, sessionID string) ([]model.PreferenceRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, session_id, requester_id, requestee_id, kind, direction, priority, confidence, source, active
		FROM preference_request
		WHERE session_id = $1
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preference requests: %w", err)
	}
	defer rows.Close()

	var requests []model.PreferenceRequest
	for rows.Next() {
		var r model.PreferenceRequest
		var requesteeID *string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.RequesterID, &requesteeID, &r.Kind, &r.Direction, &r.Priority, &r.Confidence, &r.Source, &r.Active); err != nil {
			return nil, fmt.Errorf("failed to scan preference request: %w", err)
		}
		if requesteeID != nil {
			r.RequesteeID = *requesteeID
		}
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preference requests: %w", err)
	}

	return requests, nil
}

// UpsertPreferenceRequests inserts or updates request rows in one transaction
func (d *DB) UpsertPreferenceRequests(ctx context.Context, requests []model.PreferenceRequest) error {
	if len(requests) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range requests {
		var requesteeID *string
		if r.RequesteeID != "" {
			requesteeID = &r.RequesteeID
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO preference_request (id, session_id, requester_id, requestee_id, kind, direction, priority, confidence, source, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				session_id = EXCLUDED.session_id,
				requester_id = EXCLUDED.requester_id,
				requestee_id = EXCLUDED.requestee_id,
				kind = EXCLUDED.kind,
				direction = EXCLUDED.direction,
				priority = EXCLUDED.priority,
				confidence = EXCLUDED.confidence,
				source = EXCLUDED.source,
				active = EXCLUDED.active
		`, r.ID, r.SessionID, r.RequesterID, requesteeID, r.Kind, r.Direction, r.Priority, r.Confidence, r.Source, r.Active)
		if err != nil {
			return fmt.Errorf("failed to upsert preference request %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
