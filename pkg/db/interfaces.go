package db

import (
	"context"
	"time"

	"github.com/summitpines/bunkmate/pkg/core/model"
)

// AssignmentFilter scopes assignment reads and deletes. An empty ScenarioID
// targets the production assignment set; a zero Year matches any year.
type AssignmentFilter struct {
	SessionID  string
	ScenarioID string
	Year       int
}

// RunRecord is the persisted form of a terminal optimizer run. The result
// payload is stored as JSON so completed runs survive restarts and stay
// retrievable byte-for-byte.
type RunRecord struct {
	ID           string
	SessionID    string
	ScenarioID   string
	Status       string
	Payload      []byte
	ErrorMessage string
	SubmittedAt  time.Time
	FinishedAt   time.Time
	Applied      bool
}

// RosterStore provides read access to the reference data owned by the
// external roster provider, plus the bulk writes the import pipeline uses.
type RosterStore interface {
	GetSession(ctx context.Context, sessionID string) (model.Session, error)
	ListSessions(ctx context.Context, year int) ([]model.Session, error)
	ListCampers(ctx context.Context, sessionID string) ([]model.Camper, error)
	ListBunks(ctx context.Context, sessionID string) ([]model.Bunk, error)

	UpsertSession(ctx context.Context, session model.Session) error
	UpsertCampers(ctx context.Context, campers []model.Camper) error
	UpsertBunks(ctx context.Context, bunks []model.Bunk) error
}

// PreferenceStore provides access to the structured preference requests
// produced by the intake pipeline.
type PreferenceStore interface {
	ListPreferenceRequests(ctx context.Context, sessionID string) ([]model.PreferenceRequest, error)
	UpsertPreferenceRequests(ctx context.Context, requests []model.PreferenceRequest) error
}

// AssignmentStore persists production and scenario assignment rows.
// ReplaceAssignments swaps the full scope in one transaction; it is the
// only write path the run-apply operation uses.
type AssignmentStore interface {
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
	UpsertAssignment(ctx context.Context, assignment model.Assignment) error
	DeleteAssignments(ctx context.Context, filter AssignmentFilter) (int, error)
	ReplaceAssignments(ctx context.Context, filter AssignmentFilter, assignments []model.Assignment) (int, error)
}

// ScenarioStore persists scenario metadata. Deletion is always soft:
// DeactivateScenario marks the scenario inactive without purging history.
type ScenarioStore interface {
	CreateScenario(ctx context.Context, scenario model.Scenario) error
	GetScenario(ctx context.Context, scenarioID string) (model.Scenario, error)
	ListScenarios(ctx context.Context, sessionID string, year int) ([]model.Scenario, error)
	UpdateScenario(ctx context.Context, scenario model.Scenario) error
	DeactivateScenario(ctx context.Context, scenarioID string) error
}

// RunStore retains terminal run records for later retrieval.
type RunStore interface {
	SaveRun(ctx context.Context, record RunRecord) error
	GetRun(ctx context.Context, runID string) (RunRecord, error)
}

// Database combines every store the application uses.
type Database interface {
	RosterStore
	PreferenceStore
	AssignmentStore
	ScenarioStore
	RunStore
}
