package services

import (
	"context"
	"fmt"

	"github.com/summitpines/bunkmate/pkg/core/model"
	"github.com/summitpines/bunkmate/pkg/db"
)

// SnapshotStore defines the read operations needed to load one scope's data.
type SnapshotStore interface {
	GetSession(ctx context.Context, sessionID string) (model.Session, error)
	ListCampers(ctx context.Context, sessionID string) ([]model.Camper, error)
	ListBunks(ctx context.Context, sessionID string) ([]model.Bunk, error)
	ListPreferenceRequests(ctx context.Context, sessionID string) ([]model.PreferenceRequest, error)
	ListAssignments(ctx context.Context, filter db.AssignmentFilter) ([]model.Assignment, error)
}

// SessionSnapshot is a read-only view of everything one optimization or
// validation pass needs: the session's roster, bunks, active preference
// requests, and the assignment rows of the targeted scope (production or
// one scenario).
type SessionSnapshot struct {
	Session     model.Session
	Campers     []model.Camper
	Bunks       []model.Bunk
	Requests    []model.PreferenceRequest
	Assignments []model.Assignment
}

// LoadSessionSnapshot reads one scope's data. Each camper's current bunk and
// lock flag are overlaid from the scope's assignment rows, so the optimizer
// and validator see the scenario's state rather than production's when a
// scenario is targeted.
func LoadSessionSnapshot(ctx context.Context, store SnapshotStore, sessionID, scenarioID string) (*SessionSnapshot, error) {
	session, err := store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	campers, err := store.ListCampers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campers: %w", err)
	}

	bunks, err := store.ListBunks(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bunks: %w", err)
	}

	requests, err := store.ListPreferenceRequests(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preference requests: %w", err)
	}

	assignments, err := store.ListAssignments(ctx, db.AssignmentFilter{
		SessionID:  sessionID,
		ScenarioID: scenarioID,
		Year:       session.Year,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	// The scope's assignment rows are authoritative: a camper's current
	// bunk and lock flag come from them, not from the roster mirror, so a
	// scenario's state never leaks production placements
	byCamper := make(map[string]model.Assignment, len(assignments))
	for _, a := range assignments {
		byCamper[a.CamperID] = a
	}
	for i := range campers {
		a, ok := byCamper[campers[i].ID]
		if ok {
			campers[i].BunkID = a.BunkID
			campers[i].Locked = a.Locked
		} else {
			campers[i].BunkID = ""
			campers[i].Locked = false
		}
	}

	return &SessionSnapshot{
		Session:     session,
		Campers:     campers,
		Bunks:       bunks,
		Requests:    requests,
		Assignments: assignments,
	}, nil
}
