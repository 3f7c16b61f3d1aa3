package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/summitpines/bunkmate/pkg/core/model"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// GetSession retrieves a session by ID
func (d *DB) GetSession(ctx context.Context, sessionID string) (model.Session, error) {
	var s model.Session
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, year, start_date::TEXT, end_date::TEXT
		FROM session
		WHERE id = $1
	`, sessionID).Scan(&s.ID, &s.Name, &s.Year, &s.Start, &s.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Session{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to query session: %w", err)
	}

	return s, nil
}

// ListSessions retrieves all sessions for a year (any year when zero)
func (d *DB) ListSessions(ctx context.Context, year int) ([]model.Session, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, year, start_date::TEXT, end_date::TEXT
		FROM session
		WHERE ($1 = 0 OR year = $1)
		ORDER BY start_date, id
	`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Name, &s.Year, &s.Start, &s.End); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// UpsertSession inserts or updates a session row
func (d *DB) UpsertSession(ctx context.Context, session model.Session) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO session (id, name, year, start_date, end_date)
		VALUES ($1, $2, $3, $4::DATE, $5::DATE)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			year = EXCLUDED.year,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date
	`, session.ID, session.Name, session.Year, session.Start, session.End)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}

// ListCampers retrieves all campers for a session
func (d *DB) ListCampers(ctx context.Context, sessionID string) ([]model.Camper, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, grade, age, category, session_id, bunk_id, group_key, locked
		FROM camper
		WHERE session_id = $1
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query campers: %w", err)
	}
	defer rows.Close()

	var campers []model.Camper
	for rows.Next() {
		var c model.Camper
		var bunkID *string
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Grade, &c.Age, &c.Category, &c.SessionID, &bunkID, &c.GroupKey, &c.Locked); err != nil {
			return nil, fmt.Errorf("failed to scan camper: %w", err)
		}
		if bunkID != nil {
			c.BunkID = *bunkID
		}
		campers = append(campers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campers: %w", err)
	}

	return campers, nil
}

// UpsertCampers inserts or updates camper rows in one transaction
func (d *DB) UpsertCampers(ctx context.Context, campers []model.Camper) error {
	if len(campers) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range campers {
		var bunkID *string
		if c.BunkID != "" {
			bunkID = &c.BunkID
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO camper (id, first_name, last_name, grade, age, category, session_id, bunk_id, group_key, locked)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				grade = EXCLUDED.grade,
				age = EXCLUDED.age,
				category = EXCLUDED.category,
				session_id = EXCLUDED.session_id,
				bunk_id = EXCLUDED.bunk_id,
				group_key = EXCLUDED.group_key,
				locked = EXCLUDED.locked
		`, c.ID, c.FirstName, c.LastName, c.Grade, c.Age, c.Category, c.SessionID, bunkID, c.GroupKey, c.Locked)
		if err != nil {
			return fmt.Errorf("failed to upsert camper %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBunks retrieves all bunks for a session
func (d *DB) ListBunks(ctx context.Context, sessionID string) ([]model.Bunk, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, session_id, category, min_capacity, max_capacity, locked
		FROM bunk
		WHERE session_id = $1
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bunks: %w", err)
	}
	defer rows.Close()

	var bunks []model.Bunk
	for rows.Next() {
		var b model.Bunk
		if err := rows.Scan(&b.ID, &b.Name, &b.SessionID, &b.Category, &b.MinCapacity, &b.MaxCapacity, &b.Locked); err != nil {
			return nil, fmt.Errorf("failed to scan bunk: %w", err)
		}
		bunks = append(bunks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bunks: %w", err)
	}

	return bunks, nil
}

// UpsertBunks inserts or updates bunk rows in one transaction
func (d *DB) UpsertBunks(ctx context.Context, bunks []model.Bunk) error {
	if len(bunks) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range bunks {
		_, err := tx.Exec(ctx, `
			INSERT INTO bunk (id, name, session_id, category, min_capacity, max_capacity, locked)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				session_id = EXCLUDED.session_id,
				category = EXCLUDED.category,
				min_capacity = EXCLUDED.min_capacity,
				max_capacity = EXCLUDED.max_capacity,
				locked = EXCLUDED.locked
		`, b.ID, b.Name, b.SessionID, b.Category, b.MinCapacity, b.MaxCapacity, b.Locked)
		if err != nil {
			return fmt.Errorf("failed to upsert bunk %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
