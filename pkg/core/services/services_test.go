package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/internal/config"
	"github.com/summitpines/bunkmate/pkg/core/assigner"
	"github.com/summitpines/bunkmate/pkg/core/model"
	"github.com/summitpines/bunkmate/pkg/core/validation"
	"github.com/summitpines/bunkmate/pkg/db"
)

type mockStore struct {
	sessions  map[string]model.Session
	campers   map[string][]model.Camper
	bunks     map[string][]model.Bunk
	requests  map[string][]model.PreferenceRequest
	scenarios map[string]model.Scenario

	assignments []model.Assignment

	// failUpserts forces UpsertAssignment to fail for the named campers
	failUpserts map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{
		sessions:  map[string]model.Session{},
		campers:   map[string][]model.Camper{},
		bunks:     map[string][]model.Bunk{},
		requests:  map[string][]model.PreferenceRequest{},
		scenarios: map[string]model.Scenario{},
	}
}

func (s *mockStore) GetSession(ctx context.Context, sessionID string) (model.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return model.Session{}, errors.New("not found")
	}
	return session, nil
}

func (s *mockStore) ListCampers(ctx context.Context, sessionID string) ([]model.Camper, error) {
	return s.campers[sessionID], nil
}

func (s *mockStore) ListBunks(ctx context.Context, sessionID string) ([]model.Bunk, error) {
	return s.bunks[sessionID], nil
}

func (s *mockStore) ListPreferenceRequests(ctx context.Context, sessionID string) ([]model.PreferenceRequest, error) {
	return s.requests[sessionID], nil
}

func (s *mockStore) ListAssignments(ctx context.Context, filter db.AssignmentFilter) ([]model.Assignment, error) {
	matched := []model.Assignment{}
	for _, a := range s.assignments {
		if s.matches(a, filter) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (s *mockStore) UpsertAssignment(ctx context.Context, assignment model.Assignment) error {
	if err, ok := s.failUpserts[assignment.CamperID]; ok {
		return err
	}
	for i, a := range s.assignments {
		if a.CamperID == assignment.CamperID &&
			a.SessionID == assignment.SessionID &&
			a.ScenarioID == assignment.ScenarioID &&
			a.Year == assignment.Year {
			s.assignments[i] = assignment
			return nil
		}
	}
	s.assignments = append(s.assignments, assignment)
	return nil
}

func (s *mockStore) DeleteAssignments(ctx context.Context, filter db.AssignmentFilter) (int, error) {
	kept := []model.Assignment{}
	deleted := 0
	for _, a := range s.assignments {
		if s.matches(a, filter) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	s.assignments = kept
	return deleted, nil
}

func (s *mockStore) matches(a model.Assignment, filter db.AssignmentFilter) bool {
	if a.SessionID != filter.SessionID || a.ScenarioID != filter.ScenarioID {
		return false
	}
	return filter.Year == 0 || a.Year == filter.Year
}

func (s *mockStore) UpsertSession(ctx context.Context, session model.Session) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *mockStore) UpsertCampers(ctx context.Context, campers []model.Camper) error {
	for _, camper := range campers {
		s.campers[camper.SessionID] = append(s.campers[camper.SessionID], camper)
	}
	return nil
}

func (s *mockStore) UpsertBunks(ctx context.Context, bunks []model.Bunk) error {
	for _, bunk := range bunks {
		s.bunks[bunk.SessionID] = append(s.bunks[bunk.SessionID], bunk)
	}
	return nil
}

func (s *mockStore) UpsertPreferenceRequests(ctx context.Context, requests []model.PreferenceRequest) error {
	for _, request := range requests {
		s.requests[request.SessionID] = append(s.requests[request.SessionID], request)
	}
	return nil
}

func (s *mockStore) CreateScenario(ctx context.Context, scenario model.Scenario) error {
	s.scenarios[scenario.ID] = scenario
	return nil
}

func (s *mockStore) GetScenario(ctx context.Context, scenarioID string) (model.Scenario, error) {
	scenario, ok := s.scenarios[scenarioID]
	if !ok {
		return model.Scenario{}, errors.New("not found")
	}
	return scenario, nil
}

func (s *mockStore) ListScenarios(ctx context.Context, sessionID string, year int) ([]model.Scenario, error) {
	scenarios := []model.Scenario{}
	for _, scenario := range s.scenarios {
		if scenario.SessionID == sessionID && (year == 0 || scenario.Year == year) {
			scenarios = append(scenarios, scenario)
		}
	}
	return scenarios, nil
}

func (s *mockStore) UpdateScenario(ctx context.Context, scenario model.Scenario) error {
	if _, ok := s.scenarios[scenario.ID]; !ok {
		return errors.New("not found")
	}
	s.scenarios[scenario.ID] = scenario
	return nil
}

func (s *mockStore) DeactivateScenario(ctx context.Context, scenarioID string) error {
	scenario, ok := s.scenarios[scenarioID]
	if !ok {
		return errors.New("not found")
	}
	scenario.Active = false
	s.scenarios[scenarioID] = scenario
	return nil
}

func seededStore() *mockStore {
	store := newMockStore()
	store.sessions["s1"] = model.Session{ID: "s1", Name: "Session One", Year: 2026}
	store.campers["s1"] = []model.Camper{
		{ID: "c1", FirstName: "Ada", Category: "girls", SessionID: "s1", BunkID: "stale"},
		{ID: "c2", FirstName: "Bea", Category: "girls", SessionID: "s1", BunkID: "stale", Locked: true},
	}
	store.bunks["s1"] = []model.Bunk{
		{ID: "b1", Name: "Maple", SessionID: "s1", Category: "girls", MaxCapacity: 4},
		{ID: "b2", Name: "Oak", SessionID: "s1", Category: "girls", MaxCapacity: 4},
	}
	return store
}

func TestLoadSessionSnapshot_ProductionOverlay(t *testing.T) {
	store := seededStore()
	store.assignments = []model.Assignment{
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", Year: 2026, Locked: true},
	}

	snapshot, err := LoadSessionSnapshot(context.Background(), store, "s1", model.ProductionScenario)
	require.NoError(t, err)

	// c1 takes its bunk and lock from the assignment row, c2 has no row
	// and is cleared even though the roster mirror disagrees
	require.Len(t, snapshot.Campers, 2)
	assert.Equal(t, "b1", snapshot.Campers[0].BunkID)
	assert.True(t, snapshot.Campers[0].Locked)
	assert.Equal(t, "", snapshot.Campers[1].BunkID)
	assert.False(t, snapshot.Campers[1].Locked)
	assert.Len(t, snapshot.Assignments, 1)
}

func TestLoadSessionSnapshot_ScenarioIsolation(t *testing.T) {
	store := seededStore()
	store.assignments = []model.Assignment{
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", Year: 2026},
		{CamperID: "c1", BunkID: "b2", SessionID: "s1", ScenarioID: "sc1", Year: 2026},
	}

	production, err := LoadSessionSnapshot(context.Background(), store, "s1", model.ProductionScenario)
	require.NoError(t, err)
	scenario, err := LoadSessionSnapshot(context.Background(), store, "s1", "sc1")
	require.NoError(t, err)

	assert.Equal(t, "b1", production.Campers[0].BunkID)
	assert.Equal(t, "b2", scenario.Campers[0].BunkID)
}

func TestLoadSessionSnapshot_UnknownSession(t *testing.T) {
	store := newMockStore()

	_, err := LoadSessionSnapshot(context.Background(), store, "ghost", model.ProductionScenario)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCreateScenario_Plain(t *testing.T) {
	store := seededStore()

	result, err := CreateScenario(context.Background(), store, CreateScenarioParams{
		SessionID:   "s1",
		Name:        "Plan B",
		Description: "what if Maple closes",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Scenario.ID)
	assert.Equal(t, "s1", result.Scenario.SessionID)
	assert.Equal(t, 2026, result.Scenario.Year)
	assert.True(t, result.Scenario.Active)
	assert.Equal(t, 0, result.CopiedRows)
	assert.Empty(t, store.assignments)
}

func TestCreateScenario_CopyFromProduction(t *testing.T) {
	store := seededStore()
	store.assignments = []model.Assignment{
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", Year: 2026, Locked: true},
		{CamperID: "c2", BunkID: "b2", SessionID: "s1", Year: 2026},
	}

	result, err := CreateScenario(context.Background(), store, CreateScenarioParams{
		SessionID:          "s1",
		Name:               "Plan B",
		CopyFromProduction: true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, result.CopiedRows)

	copies, err := store.ListAssignments(context.Background(), db.AssignmentFilter{
		SessionID: "s1", ScenarioID: result.Scenario.ID, Year: 2026,
	})
	require.NoError(t, err)
	require.Len(t, copies, 2)
	assert.True(t, copies[0].Locked)

	// production rows are untouched
	production, err := store.ListAssignments(context.Background(), db.AssignmentFilter{
		SessionID: "s1", ScenarioID: model.ProductionScenario, Year: 2026,
	})
	require.NoError(t, err)
	assert.Len(t, production, 2)
}

func TestCreateScenario_CopyFromScenario(t *testing.T) {
	store := seededStore()
	store.scenarios["source"] = model.Scenario{ID: "source", SessionID: "s1", Year: 2026, Active: true}
	store.assignments = []model.Assignment{
		{CamperID: "c1", BunkID: "b2", SessionID: "s1", ScenarioID: "source", Year: 2026},
	}

	result, err := CreateScenario(context.Background(), store, CreateScenarioParams{
		SessionID:          "s1",
		Name:               "Plan C",
		CopyFromScenarioID: "source",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, result.CopiedRows)

	copies, err := store.ListAssignments(context.Background(), db.AssignmentFilter{
		SessionID: "s1", ScenarioID: result.Scenario.ID, Year: 2026,
	})
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, "b2", copies[0].BunkID)
}

func TestCreateScenario_InvalidParams(t *testing.T) {
	store := seededStore()
	logger := zap.NewNop()

	_, err := CreateScenario(context.Background(), store, CreateScenarioParams{
		SessionID: "s1",
	}, logger)
	assert.ErrorContains(t, err, "name is required")

	_, err = CreateScenario(context.Background(), store, CreateScenarioParams{
		SessionID:          "s1",
		Name:               "Plan B",
		CopyFromProduction: true,
		CopyFromScenarioID: "source",
	}, logger)
	assert.ErrorContains(t, err, "cannot copy from both")

	_, err = CreateScenario(context.Background(), store, CreateScenarioParams{
		SessionID: "ghost",
		Name:      "Plan B",
	}, logger)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = CreateScenario(context.Background(), store, CreateScenarioParams{
		SessionID:          "s1",
		Name:               "Plan B",
		CopyFromScenarioID: "missing",
	}, logger)
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestCreateScenario_PartialBatchFailure(t *testing.T) {
	store := seededStore()
	store.assignments = []model.Assignment{
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", Year: 2026},
		{CamperID: "c2", BunkID: "b2", SessionID: "s1", Year: 2026},
	}
	store.failUpserts = map[string]error{"c2": errors.New("connection reset")}

	result, err := CreateScenario(context.Background(), store, CreateScenarioParams{
		SessionID:          "s1",
		Name:               "Plan B",
		CopyFromProduction: true,
	}, zap.NewNop())

	var batchErr *PartialBatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Succeeded)
	require.Len(t, batchErr.Failures, 1)
	assert.Equal(t, "c2", batchErr.Failures[0].CamperID)
	assert.Contains(t, err.Error(), "1 rows copied, 1 failed")

	// the successful row is kept alongside the error
	require.NotNil(t, result)
	assert.Equal(t, 1, result.CopiedRows)
}

func TestListScenarios_FiltersInactive(t *testing.T) {
	store := seededStore()
	store.scenarios["live"] = model.Scenario{ID: "live", SessionID: "s1", Year: 2026, Active: true}
	store.scenarios["dead"] = model.Scenario{ID: "dead", SessionID: "s1", Year: 2026, Active: false}

	scenarios, err := ListScenarios(context.Background(), store, "s1", 2026)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "live", scenarios[0].ID)
}

func TestUpdateScenario(t *testing.T) {
	store := seededStore()
	store.scenarios["sc1"] = model.Scenario{
		ID: "sc1", SessionID: "s1", Year: 2026, Name: "Plan B", Active: true,
	}

	updated, err := UpdateScenario(context.Background(), store, UpdateScenarioParams{
		ScenarioID:  "sc1",
		Description: "tweaked",
	}, zap.NewNop())
	require.NoError(t, err)

	// absent name keeps the old one, description is always replaced
	assert.Equal(t, "Plan B", updated.Name)
	assert.Equal(t, "tweaked", updated.Description)

	store.scenarios["dead"] = model.Scenario{ID: "dead", SessionID: "s1", Active: false}
	_, err = UpdateScenario(context.Background(), store, UpdateScenarioParams{ScenarioID: "dead"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestDeleteScenario_SoftDelete(t *testing.T) {
	store := seededStore()
	store.scenarios["sc1"] = model.Scenario{ID: "sc1", SessionID: "s1", Year: 2026, Active: true}
	store.assignments = []model.Assignment{
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", ScenarioID: "sc1", Year: 2026},
	}

	err := DeleteScenario(context.Background(), store, "sc1", zap.NewNop())
	require.NoError(t, err)

	assert.False(t, store.scenarios["sc1"].Active)
	// assignment rows survive the soft delete
	assert.Len(t, store.assignments, 1)
}

func TestClearScenario_ScopedDelete(t *testing.T) {
	store := seededStore()
	store.scenarios["sc1"] = model.Scenario{ID: "sc1", SessionID: "s1", Year: 2026, Active: true}
	store.assignments = []model.Assignment{
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", ScenarioID: "sc1", Year: 2026},
		{CamperID: "c2", BunkID: "b2", SessionID: "s1", ScenarioID: "sc1", Year: 2026},
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", Year: 2026},
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", ScenarioID: "other", Year: 2026},
	}

	deleted, err := ClearScenario(context.Background(), store, "sc1", 2026, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	// production and other scenarios keep their rows
	assert.Len(t, store.assignments, 2)
	for _, a := range store.assignments {
		assert.NotEqual(t, "sc1", a.ScenarioID)
	}
}

func TestUpsertScenarioAssignment(t *testing.T) {
	store := seededStore()
	store.scenarios["sc1"] = model.Scenario{ID: "sc1", SessionID: "s1", Year: 2026, Active: true}

	err := UpsertScenarioAssignment(context.Background(), store, UpsertScenarioAssignmentParams{
		ScenarioID: "sc1",
		CamperID:   "c1",
		BunkID:     "b1",
		Locked:     true,
	}, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, store.assignments, 1)
	assert.Equal(t, "b1", store.assignments[0].BunkID)
	assert.True(t, store.assignments[0].Locked)
	assert.Equal(t, "sc1", store.assignments[0].ScenarioID)
	assert.Equal(t, 2026, store.assignments[0].Year)

	// an empty bunk unassigns without deleting the row
	err = UpsertScenarioAssignment(context.Background(), store, UpsertScenarioAssignmentParams{
		ScenarioID: "sc1",
		CamperID:   "c1",
	}, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, store.assignments, 1)
	assert.Equal(t, "", store.assignments[0].BunkID)
	assert.False(t, store.assignments[0].Locked)
}

func TestUpsertScenarioAssignment_Invalid(t *testing.T) {
	store := seededStore()
	store.scenarios["sc1"] = model.Scenario{ID: "sc1", SessionID: "s1", Year: 2026, Active: true}

	err := UpsertScenarioAssignment(context.Background(), store, UpsertScenarioAssignmentParams{
		ScenarioID: "sc1",
	}, zap.NewNop())
	assert.ErrorContains(t, err, "camper ID is required")

	err = UpsertScenarioAssignment(context.Background(), store, UpsertScenarioAssignmentParams{
		ScenarioID: "missing",
		CamperID:   "c1",
	}, zap.NewNop())
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestValidateAssignments(t *testing.T) {
	store := seededStore()
	store.bunks["s1"] = []model.Bunk{
		{ID: "b1", Name: "Maple", SessionID: "s1", Category: "girls", MaxCapacity: 1},
	}
	store.assignments = []model.Assignment{
		{CamperID: "c1", BunkID: "b1", SessionID: "s1", Year: 2026},
		{CamperID: "c2", BunkID: "b1", SessionID: "s1", Year: 2026},
	}

	report, err := ValidateAssignments(context.Background(), store, "s1", model.ProductionScenario,
		validation.Thresholds{SpreadThreshold: 3}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Stats.TotalCampers)
	assert.Equal(t, 2, report.Stats.AssignedCampers)
	assert.Equal(t, 1, report.Stats.BunksOver)
	assert.Equal(t, 1, report.Stats.Errors)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, validation.SeverityError, report.Issues[0].Severity)
}

func TestSolverWeights(t *testing.T) {
	t.Run("empty config keeps defaults", func(t *testing.T) {
		assert.Equal(t, assigner.DefaultWeights(), SolverWeights(&config.Config{}))
	})

	t.Run("configured values override defaults", func(t *testing.T) {
		weights := SolverWeights(&config.Config{
			SolverWeights: config.SolverWeights{
				PositiveBonus:   5.0,
				SpreadThreshold: 3,
			},
		})

		assert.Equal(t, 5.0, weights.PositiveBonus)
		assert.Equal(t, 3, weights.SpreadThreshold)
		assert.Equal(t, assigner.DefaultWeights().NegativePenalty, weights.NegativePenalty)
	})
}

func TestExpandSessionDates(t *testing.T) {
	logger := zap.NewNop()

	t.Run("single occurrence keeps the rule name", func(t *testing.T) {
		windows, err := ExpandSessionDates([]config.SessionRule{
			{Name: "Main Camp", RRule: "FREQ=YEARLY;BYMONTH=6;BYMONTHDAY=20;COUNT=1", Days: 14},
		}, 2026, logger)
		require.NoError(t, err)

		require.Len(t, windows, 1)
		assert.Equal(t, "Main Camp", windows[0].Name)
		assert.Equal(t, time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC), windows[0].Start)
		assert.Equal(t, time.Date(2026, time.July, 3, 0, 0, 0, 0, time.UTC), windows[0].End)
	})

	t.Run("multiple occurrences are numbered and sorted", func(t *testing.T) {
		windows, err := ExpandSessionDates([]config.SessionRule{
			{Name: "Session", RRule: "FREQ=MONTHLY;BYMONTH=6,7;BYMONTHDAY=1;COUNT=2", Days: 7},
		}, 2026, logger)
		require.NoError(t, err)

		require.Len(t, windows, 2)
		assert.Equal(t, "Session 1", windows[0].Name)
		assert.Equal(t, "Session 2", windows[1].Name)
		assert.True(t, windows[0].Start.Before(windows[1].Start))
	})

	t.Run("invalid rrule is rejected", func(t *testing.T) {
		_, err := ExpandSessionDates([]config.SessionRule{
			{Name: "Broken", RRule: "FREQ=SOMETIMES", Days: 7},
		}, 2026, logger)
		assert.ErrorContains(t, err, "failed to parse rrule")
	})
}

type mockRosterSource struct {
	campers  []model.Camper
	bunks    []model.Bunk
	requests []model.PreferenceRequest
}

func (s *mockRosterSource) ListCampers(cfg *config.Config) ([]model.Camper, error) {
	return s.campers, nil
}

func (s *mockRosterSource) ListBunks(cfg *config.Config) ([]model.Bunk, error) {
	return s.bunks, nil
}

func (s *mockRosterSource) ListPreferenceRequests(cfg *config.Config) ([]model.PreferenceRequest, error) {
	return s.requests, nil
}

type mockImportStore struct {
	sessions    []model.Session
	campers     []model.Camper
	bunks       []model.Bunk
	requests    []model.PreferenceRequest
	assignments []model.Assignment
}

func (s *mockImportStore) UpsertSession(ctx context.Context, session model.Session) error {
	s.sessions = append(s.sessions, session)
	return nil
}

func (s *mockImportStore) UpsertCampers(ctx context.Context, campers []model.Camper) error {
	s.campers = append(s.campers, campers...)
	return nil
}

func (s *mockImportStore) UpsertBunks(ctx context.Context, bunks []model.Bunk) error {
	s.bunks = append(s.bunks, bunks...)
	return nil
}

func (s *mockImportStore) UpsertPreferenceRequests(ctx context.Context, requests []model.PreferenceRequest) error {
	s.requests = append(s.requests, requests...)
	return nil
}

func (s *mockImportStore) UpsertAssignment(ctx context.Context, assignment model.Assignment) error {
	s.assignments = append(s.assignments, assignment)
	return nil
}

func TestImportRoster(t *testing.T) {
	cfg := &config.Config{
		SessionRules: []config.SessionRule{
			{Name: "Alpha", RRule: "FREQ=YEARLY;BYMONTH=6;BYMONTHDAY=20;COUNT=1", Days: 14},
		},
	}
	source := &mockRosterSource{
		campers: []model.Camper{
			{ID: "c1", SessionID: "2026-alpha", BunkID: "b1", Locked: true},
			{ID: "c2", SessionID: "2025-alpha"},
			{ID: "c3", SessionID: "2026-alpha"},
		},
		bunks: []model.Bunk{
			{ID: "b1", SessionID: "2026-alpha", MaxCapacity: 4},
		},
		requests: []model.PreferenceRequest{
			{ID: "r1", SessionID: "2026-alpha", RequesterID: "c1", Kind: model.KindBunkWith, Active: true},
			{ID: "r2", SessionID: "2024-alpha", RequesterID: "c2", Kind: model.KindBunkWith, Active: true},
		},
	}
	store := &mockImportStore{}

	result, err := ImportRoster(context.Background(), source, store, cfg, 2026, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, &ImportResult{Sessions: 1, Campers: 2, Bunks: 1, Requests: 1, Assignments: 1}, result)

	require.Len(t, store.sessions, 1)
	assert.Equal(t, "2026-alpha", store.sessions[0].ID)
	assert.Equal(t, "Alpha", store.sessions[0].Name)
	assert.Equal(t, "2026-06-20", store.sessions[0].Start)
	assert.Equal(t, "2026-07-03", store.sessions[0].End)

	// rows outside the target year's sessions are skipped, not failed
	require.Len(t, store.campers, 2)
	assert.Equal(t, "c1", store.campers[0].ID)
	require.Len(t, store.requests, 1)
	assert.Equal(t, "r1", store.requests[0].ID)

	// only the camper imported with a bunk seeds a production row, and the
	// sheet's lock flag rides along
	require.Len(t, store.assignments, 1)
	assert.Equal(t, model.Assignment{
		CamperID:   "c1",
		BunkID:     "b1",
		SessionID:  "2026-alpha",
		ScenarioID: model.ProductionScenario,
		Year:       2026,
		Locked:     true,
		UpdatedAt:  store.assignments[0].UpdatedAt,
	}, store.assignments[0])
}

func TestImportRoster_SeededPlacementVisibleToValidation(t *testing.T) {
	cfg := &config.Config{
		SessionRules: []config.SessionRule{
			{Name: "Alpha", RRule: "FREQ=YEARLY;BYMONTH=6;BYMONTHDAY=20;COUNT=1", Days: 14},
		},
	}
	source := &mockRosterSource{
		campers: []model.Camper{
			{ID: "c1", SessionID: "2026-alpha", Category: "girls", BunkID: "b1", Locked: true},
		},
		bunks: []model.Bunk{
			{ID: "b1", SessionID: "2026-alpha", Category: "girls", MaxCapacity: 4},
		},
	}
	store := newMockStore()

	_, err := ImportRoster(context.Background(), source, store, cfg, 2026, zap.NewNop())
	require.NoError(t, err)

	report, err := ValidateAssignments(context.Background(), store, "2026-alpha",
		model.ProductionScenario, validation.Thresholds{SpreadThreshold: 3}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stats.AssignedCampers)
	assert.Equal(t, 0, report.Stats.UnassignedCampers)
	assert.Equal(t, 0, report.Stats.Errors)

	// the lock flag seeded from the sheet survives the snapshot overlay
	snapshot, err := LoadSessionSnapshot(context.Background(), store, "2026-alpha", model.ProductionScenario)
	require.NoError(t, err)
	require.Len(t, snapshot.Campers, 1)
	assert.Equal(t, "b1", snapshot.Campers[0].BunkID)
	assert.True(t, snapshot.Campers[0].Locked)
}

func TestSessionIDFor(t *testing.T) {
	assert.Equal(t, "2026-main-camp", sessionIDFor("Main Camp", 2026))
	assert.Equal(t, "2026-session-2", sessionIDFor("Session 2", 2026))
	assert.Equal(t, "2026-als-week", sessionIDFor("Al's Week!", 2026))
}
