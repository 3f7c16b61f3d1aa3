package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/internal/config"
	"github.com/summitpines/bunkmate/pkg/core/assigner"
	"github.com/summitpines/bunkmate/pkg/core/assigner/criteria"
	"github.com/summitpines/bunkmate/pkg/core/model"
	"github.com/summitpines/bunkmate/pkg/core/runs"
	"github.com/summitpines/bunkmate/pkg/core/validation"
)

const (
	// Criterion weights for the construction pass. Capacity dominates so
	// the greedy pass always produces a valid starting point; preferences
	// come next so requested pairs land together before bunks fill.

	WeightCapacityAffinity    = 3.0
	WeightPreferenceAffinity  = 2.0
	WeightGradeSpreadAffinity = 1.0
	WeightAgeCohortAffinity   = 0.5
)

// SolverWeights maps configured overrides onto the default objective
// weights. Every entry point that scores or audits an assignment set reads
// its thresholds from here, so the optimizer's sanity pass and standalone
// validation always reach the same verdicts.
func SolverWeights(cfg *config.Config) assigner.Weights {
	weights := assigner.DefaultWeights()
	if cfg.SolverWeights.PositiveBonus > 0 {
		weights.PositiveBonus = cfg.SolverWeights.PositiveBonus
	}
	if cfg.SolverWeights.NegativePenalty > 0 {
		weights.NegativePenalty = cfg.SolverWeights.NegativePenalty
	}
	if cfg.SolverWeights.SpreadThreshold > 0 {
		weights.SpreadThreshold = cfg.SolverWeights.SpreadThreshold
	}
	if cfg.SolverWeights.SpreadPenalty > 0 {
		weights.SpreadPenalty = cfg.SolverWeights.SpreadPenalty
	}
	if cfg.SolverWeights.CohortBonus > 0 {
		weights.CohortBonus = cfg.SolverWeights.CohortBonus
	}
	if cfg.SolverWeights.CohortPenalty > 0 {
		weights.CohortPenalty = cfg.SolverWeights.CohortPenalty
	}
	return weights
}

// Optimizer implements runs.Runner: it loads the target scope, builds the
// model and drives the engine, returning the result the run manager stores.
type Optimizer struct {
	store   SnapshotStore
	weights assigner.Weights
	logger  *zap.Logger
}

// NewOptimizer creates an Optimizer with the given solver weights.
func NewOptimizer(store SnapshotStore, weights assigner.Weights, logger *zap.Logger) *Optimizer {
	return &Optimizer{
		store:   store,
		weights: weights,
		logger:  logger,
	}
}

// Optimize runs one optimization for the run manager. Infeasible models and
// exhausted budgets come back as errors so the run fails with a
// human-readable message; optimal and feasible outcomes come back as a
// result carrying the assignment, the per-category objective breakdown and
// a validation sanity pass.
func (o *Optimizer) Optimize(ctx context.Context, params runs.SubmitParams) (*runs.Result, error) {
	snapshot, err := LoadSessionSnapshot(ctx, o.store, params.SessionID, params.ScenarioID)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("building model",
		zap.String("session_id", params.SessionID),
		zap.String("scenario_id", params.ScenarioID),
		zap.Int("campers", len(snapshot.Campers)),
		zap.Int("bunks", len(snapshot.Bunks)),
		zap.Int("requests", len(snapshot.Requests)))

	m := assigner.BuildModel(assigner.BuildInput{
		Campers:      snapshot.Campers,
		Bunks:        snapshot.Bunks,
		Requests:     snapshot.Requests,
		RespectLocks: params.RespectLocks,
		Weights:      o.weights,
	})

	outcome := assigner.Solve(ctx, m, assigner.SolveOptions{
		Budget: time.Duration(params.TimeLimitSeconds) * time.Second,
		Criteria: []assigner.Criterion{
			criteria.NewCapacityCriterion(WeightCapacityAffinity),
			criteria.NewPreferenceCriterion(WeightPreferenceAffinity),
			criteria.NewGradeSpreadCriterion(WeightGradeSpreadAffinity),
			criteria.NewAgeCohortCriterion(WeightAgeCohortAffinity),
		},
	})

	switch outcome.Status {
	case assigner.StatusInfeasible:
		return nil, &runs.InfeasibleError{
			Cause:      string(outcome.Cause),
			Diagnostic: outcome.Diagnostic,
		}
	case assigner.StatusNoSolution:
		return nil, fmt.Errorf("time budget exhausted before any valid assignment was found")
	}

	// Sanity pass: re-derive every check over the proposed assignment so
	// the stored result carries an independent verdict
	report := validation.Validate(validation.Input{
		Campers:     snapshot.Campers,
		Bunks:       snapshot.Bunks,
		Requests:    snapshot.Requests,
		Assignments: assignmentRows(snapshot, outcome, params),
		Thresholds:  validation.Thresholds{SpreadThreshold: o.weights.SpreadThreshold},
	})

	o.logger.Info("optimization finished",
		zap.String("solver_status", string(outcome.Status)),
		zap.Float64("objective", outcome.Objective),
		zap.Int("iterations", outcome.Iterations),
		zap.Int("validation_errors", report.Stats.Errors))

	return &runs.Result{
		Assignments: outcome.Assignments,
		Unassigned:  outcome.Unassigned,
		Summary: runs.Summary{
			SolverStatus:    outcome.Status,
			ObjectiveValue:  outcome.Objective,
			Contributions:   outcome.Contributions,
			AssignedCount:   len(outcome.Assignments),
			UnassignedCount: len(outcome.Unassigned),
			Validation:      report,
		},
	}, nil
}

// assignmentRows converts an engine outcome into assignment rows for the
// validation pass.
func assignmentRows(snapshot *SessionSnapshot, outcome *assigner.Outcome, params runs.SubmitParams) []model.Assignment {
	rows := make([]model.Assignment, 0, len(snapshot.Campers))
	for _, c := range snapshot.Campers {
		rows = append(rows, model.Assignment{
			CamperID:   c.ID,
			BunkID:     outcome.Assignments[c.ID],
			SessionID:  params.SessionID,
			ScenarioID: params.ScenarioID,
			Year:       snapshot.Session.Year,
		})
	}
	return rows
}
