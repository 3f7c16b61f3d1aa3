package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/pkg/core/model"
	"github.com/summitpines/bunkmate/pkg/db"
)

// Runner executes one optimization against a scope. The services layer
// provides the implementation that loads the scope's data, builds the model
// and invokes the engine.
type Runner interface {
	// Optimize returns the result, or an *InfeasibleError (or any other
	// error) that fails the run with its message
	Optimize(ctx context.Context, params SubmitParams) (*Result, error)
}

// Store is the persistence surface the manager needs: scope validation,
// assignment writes for apply, and terminal-run retention.
type Store interface {
	GetSession(ctx context.Context, sessionID string) (model.Session, error)
	GetScenario(ctx context.Context, scenarioID string) (model.Scenario, error)
	ListAssignments(ctx context.Context, filter db.AssignmentFilter) ([]model.Assignment, error)
	ReplaceAssignments(ctx context.Context, filter db.AssignmentFilter, assignments []model.Assignment) (int, error)
	SaveRun(ctx context.Context, record db.RunRecord) error
}

// Options bound the run budget and the watchdog margin.
type Options struct {
	// MinBudget and MaxBudget bound TimeLimitSeconds (defaults 1s and 600s)
	MinBudget time.Duration
	MaxBudget time.Duration

	// WatchdogMargin is added to the budget before a non-responding run is
	// forcibly failed (default 10s)
	WatchdogMargin time.Duration
}

func (o *Options) fill() {
	if o.MinBudget == 0 {
		o.MinBudget = time.Second
	}
	if o.MaxBudget == 0 {
		o.MaxBudget = 600 * time.Second
	}
	if o.WatchdogMargin == 0 {
		o.WatchdogMargin = 10 * time.Second
	}
}

type scope struct {
	sessionID  string
	scenarioID string
}

// Manager owns the asynchronous run lifecycle: submit, poll, cancel and
// apply. It holds a lease per (session, scenario) scope so at most one run
// is in flight per scope, and it guarantees that optimizer failures surface
// as a terminal failed run, never as a dangling running one.
type Manager struct {
	mu     sync.Mutex
	runs   map[string]*run
	leases map[scope]string

	runner Runner
	store  Store
	logger *zap.Logger
	opts   Options
}

// NewManager creates a run manager.
func NewManager(runner Runner, store Store, logger *zap.Logger, opts Options) *Manager {
	opts.fill()
	return &Manager{
		runs:   make(map[string]*run),
		leases: make(map[scope]string),
		runner: runner,
		store:  store,
		logger: logger,
		opts:   opts,
	}
}

// Submit validates the parameters, acquires the scope lease and starts the
// optimizer in the background. It returns the run ID immediately; callers
// poll with Get.
func (m *Manager) Submit(ctx context.Context, params SubmitParams) (string, error) {
	budget := time.Duration(params.TimeLimitSeconds) * time.Second
	if budget < m.opts.MinBudget || budget > m.opts.MaxBudget {
		return "", fmt.Errorf("%w: time limit %ds is outside [%s, %s]",
			ErrInvalidParameter, params.TimeLimitSeconds, m.opts.MinBudget, m.opts.MaxBudget)
	}

	session, err := m.store.GetSession(ctx, params.SessionID)
	if err != nil {
		return "", fmt.Errorf("%w: unknown session %s", ErrInvalidParameter, params.SessionID)
	}

	if params.ScenarioID != "" {
		scenario, err := m.store.GetScenario(ctx, params.ScenarioID)
		if err != nil || !scenario.Active {
			return "", fmt.Errorf("%w: unknown or inactive scenario %s", ErrInvalidParameter, params.ScenarioID)
		}
	}

	key := scope{sessionID: params.SessionID, scenarioID: params.ScenarioID}

	m.mu.Lock()
	defer m.mu.Unlock()

	if active, held := m.leases[key]; held {
		return "", fmt.Errorf("%w (run %s)", ErrConcurrentRunConflict, active)
	}

	r := &run{
		Run: Run{
			ID:          uuid.NewString(),
			SessionID:   params.SessionID,
			ScenarioID:  params.ScenarioID,
			Year:        session.Year,
			Status:      StatusPending,
			Params:      params,
			SubmittedAt: time.Now(),
		},
	}

	m.leases[key] = r.ID
	m.runs[r.ID] = r

	m.logger.Info("run submitted",
		zap.String("run_id", r.ID),
		zap.String("session_id", params.SessionID),
		zap.String("scenario_id", params.ScenarioID),
		zap.Int("time_limit_seconds", params.TimeLimitSeconds))

	go m.execute(r, budget)

	return r.ID, nil
}

// Get returns an immutable snapshot of the run.
func (m *Manager) Get(runID string) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.runs[runID]
	if !ok {
		return Run{}, ErrRunNotFound
	}
	return r.snapshot(), nil
}

// Cancel requests cooperative cancellation of a pending or running run.
// The engine stops at its next checkpoint and returns its best-found-so-far
// assignment; the run completes as feasible, or fails if nothing was found.
// Cancellation of a terminal run is a no-op.
func (m *Manager) Cancel(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.runs[runID]
	if !ok {
		return ErrRunNotFound
	}
	if r.Status.Terminal() {
		return nil
	}

	r.canceled = true
	if r.cancel != nil {
		r.cancel()
	}

	m.logger.Info("run cancellation requested", zap.String("run_id", runID))
	return nil
}

// Apply copies a completed run's assignments into the target assignment
// store. It is idempotent per run: the first call writes, every later call
// fails with ErrAlreadyApplied. The write replaces the full scope in a
// single transaction, preserving per-camper lock flags from the existing
// rows.
func (m *Manager) Apply(ctx context.Context, runID string) (int, error) {
	m.mu.Lock()
	r, ok := m.runs[runID]
	if !ok {
		m.mu.Unlock()
		return 0, ErrRunNotFound
	}
	if r.Status != StatusCompleted {
		m.mu.Unlock()
		return 0, fmt.Errorf("%w: run %s is %s", ErrRunNotCompleted, runID, r.Status)
	}
	if r.Applied || r.applying {
		m.mu.Unlock()
		return 0, fmt.Errorf("%w: run %s", ErrAlreadyApplied, runID)
	}
	r.applying = true
	result := r.snapshot().Result
	filter := db.AssignmentFilter{SessionID: r.SessionID, ScenarioID: r.ScenarioID, Year: r.Year}
	m.mu.Unlock()

	count, err := m.writeAssignments(ctx, filter, result)

	m.mu.Lock()
	defer m.mu.Unlock()
	r.applying = false
	if err != nil {
		return 0, fmt.Errorf("failed to apply run %s: %w", runID, err)
	}

	r.Applied = true
	r.AppliedAt = time.Now()
	m.persist(r)

	m.logger.Info("run applied",
		zap.String("run_id", runID),
		zap.Int("applied_count", count))

	return count, nil
}

// writeAssignments builds the replacement rows for the scope and swaps them
// in one transaction.
func (m *Manager) writeAssignments(ctx context.Context, filter db.AssignmentFilter, result *Result) (int, error) {
	existing, err := m.store.ListAssignments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to read existing assignments: %w", err)
	}
	lockedByID := make(map[string]bool, len(existing))
	for _, a := range existing {
		lockedByID[a.CamperID] = a.Locked
	}

	camperIDs := make([]string, 0, len(result.Assignments)+len(result.Unassigned))
	for camperID := range result.Assignments {
		camperIDs = append(camperIDs, camperID)
	}
	camperIDs = append(camperIDs, result.Unassigned...)
	sort.Strings(camperIDs)

	rows := make([]model.Assignment, 0, len(camperIDs))
	for _, camperID := range camperIDs {
		rows = append(rows, model.Assignment{
			CamperID:   camperID,
			BunkID:     result.Assignments[camperID],
			SessionID:  filter.SessionID,
			ScenarioID: filter.ScenarioID,
			Year:       filter.Year,
			Locked:     lockedByID[camperID],
		})
	}

	return m.store.ReplaceAssignments(ctx, filter, rows)
}

// execute drives one run to a terminal state. The optimizer gets its own
// detached context so the run outlives the submitting request; a watchdog
// forcibly fails the run if the engine has not returned within
// budget + margin.
func (m *Manager) execute(r *run, budget time.Duration) {
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.mu.Lock()
	if r.canceled {
		m.finishLocked(r, nil, errors.New("canceled before start"))
		m.mu.Unlock()
		return
	}
	r.Status = StatusRunning
	r.StartedAt = time.Now()
	r.cancel = cancel
	r.watchdog = time.AfterFunc(budget+m.opts.WatchdogMargin, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if r.Status.Terminal() {
			return
		}
		m.logger.Warn("run watchdog fired", zap.String("run_id", r.ID))
		cancel()
		m.finishLocked(r, nil, fmt.Errorf("run exceeded its time budget of %s plus margin", budget))
	})
	m.mu.Unlock()

	result, err := m.runner.Optimize(runCtx, r.Params)

	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Status.Terminal() {
		// Watchdog got there first
		return
	}
	m.finishLocked(r, result, err)
}

// finishLocked records the terminal state, releases the scope lease,
// persists the record, and triggers auto-apply when requested.
// Callers must hold m.mu.
func (m *Manager) finishLocked(r *run, result *Result, err error) {
	r.FinishedAt = time.Now()
	if r.watchdog != nil {
		r.watchdog.Stop()
	}

	if err != nil {
		r.Status = StatusFailed
		r.ErrorMessage = err.Error()
		m.logger.Warn("run failed",
			zap.String("run_id", r.ID),
			zap.String("error", r.ErrorMessage))
	} else {
		r.Status = StatusCompleted
		r.Result = result
		m.logger.Info("run completed",
			zap.String("run_id", r.ID),
			zap.Float64("objective", result.Summary.ObjectiveValue),
			zap.Int("assigned", result.Summary.AssignedCount),
			zap.Int("unassigned", result.Summary.UnassignedCount))
	}

	delete(m.leases, scope{sessionID: r.SessionID, scenarioID: r.ScenarioID})
	m.persist(r)

	if r.Status == StatusCompleted && r.Params.ApplyResults {
		go func() {
			if _, err := m.Apply(context.Background(), r.ID); err != nil {
				m.logger.Error("auto-apply failed",
					zap.String("run_id", r.ID),
					zap.Error(err))
			}
		}()
	}
}

// persist saves the terminal run record. Retention is best-effort: a store
// failure is logged, the in-memory record remains authoritative.
func (m *Manager) persist(r *run) {
	if !r.Status.Terminal() {
		return
	}

	record := db.RunRecord{
		ID:           r.ID,
		SessionID:    r.SessionID,
		ScenarioID:   r.ScenarioID,
		Status:       string(r.Status),
		ErrorMessage: r.ErrorMessage,
		SubmittedAt:  r.SubmittedAt,
		FinishedAt:   r.FinishedAt,
		Applied:      r.Applied,
	}
	if r.Result != nil {
		payload, err := json.Marshal(r.Result)
		if err != nil {
			m.logger.Error("failed to encode run result", zap.String("run_id", r.ID), zap.Error(err))
		} else {
			record.Payload = payload
		}
	}

	if err := m.store.SaveRun(context.Background(), record); err != nil {
		m.logger.Error("failed to persist run record", zap.String("run_id", r.ID), zap.Error(err))
	}
}
