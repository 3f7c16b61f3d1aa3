package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/internal/config"
	"github.com/summitpines/bunkmate/pkg/core/model"
)

// RosterSource reads the raw roster from the external provider.
type RosterSource interface {
	ListCampers(cfg *config.Config) ([]model.Camper, error)
	ListBunks(cfg *config.Config) ([]model.Bunk, error)
	ListPreferenceRequests(cfg *config.Config) ([]model.PreferenceRequest, error)
}

// ImportStore receives the imported roster rows.
type ImportStore interface {
	UpsertSession(ctx context.Context, session model.Session) error
	UpsertCampers(ctx context.Context, campers []model.Camper) error
	UpsertBunks(ctx context.Context, bunks []model.Bunk) error
	UpsertPreferenceRequests(ctx context.Context, requests []model.PreferenceRequest) error
	UpsertAssignment(ctx context.Context, assignment model.Assignment) error
}

// ImportResult summarizes what an import run brought in.
type ImportResult struct {
	Sessions    int
	Campers     int
	Bunks       int
	Requests    int
	Assignments int
}

// ImportRoster pulls campers, bunks and bunking requests from the roster
// source and upserts them into the store. Sessions are derived from the
// configured session rules for the given year; rows referencing a session
// outside that year are skipped rather than failed, so one sheet can carry
// several years of roster data.
func ImportRoster(
	ctx context.Context,
	source RosterSource,
	store ImportStore,
	cfg *config.Config,
	year int,
	logger *zap.Logger,
) (*ImportResult, error) {
	logger.Info("Importing roster", zap.Int("year", year))

	windows, err := ExpandSessionDates(cfg.SessionRules, year, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to expand session dates: %w", err)
	}

	sessionIDs := make(map[string]bool, len(windows))
	result := &ImportResult{}

	for _, window := range windows {
		session := model.Session{
			ID:    sessionIDFor(window.Name, year),
			Name:  window.Name,
			Year:  year,
			Start: window.Start.Format("2006-01-02"),
			End:   window.End.Format("2006-01-02"),
		}
		if err := store.UpsertSession(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to upsert session %s: %w", session.ID, err)
		}
		sessionIDs[session.ID] = true
		result.Sessions++
	}

	campers, err := source.ListCampers(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read campers: %w", err)
	}
	campers = filterCampers(campers, sessionIDs)
	if err := store.UpsertCampers(ctx, campers); err != nil {
		return nil, fmt.Errorf("failed to upsert campers: %w", err)
	}
	result.Campers = len(campers)

	// Campers imported with a bunk seed the production assignment set, so
	// sheet-sourced placements and their lock flags are visible to the
	// optimizer and validator from the first run
	now := time.Now()
	for _, camper := range campers {
		if camper.BunkID == "" {
			continue
		}
		assignment := model.Assignment{
			CamperID:   camper.ID,
			BunkID:     camper.BunkID,
			SessionID:  camper.SessionID,
			ScenarioID: model.ProductionScenario,
			Year:       year,
			Locked:     camper.Locked,
			UpdatedAt:  now,
		}
		if err := store.UpsertAssignment(ctx, assignment); err != nil {
			return nil, fmt.Errorf("failed to seed assignment for camper %s: %w", camper.ID, err)
		}
		result.Assignments++
	}

	bunks, err := source.ListBunks(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read bunks: %w", err)
	}
	bunks = filterBunks(bunks, sessionIDs)
	if err := store.UpsertBunks(ctx, bunks); err != nil {
		return nil, fmt.Errorf("failed to upsert bunks: %w", err)
	}
	result.Bunks = len(bunks)

	requests, err := source.ListPreferenceRequests(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read requests: %w", err)
	}
	requests = filterRequests(requests, sessionIDs)
	if err := store.UpsertPreferenceRequests(ctx, requests); err != nil {
		return nil, fmt.Errorf("failed to upsert requests: %w", err)
	}
	result.Requests = len(requests)

	logger.Info("Roster import complete",
		zap.Int("sessions", result.Sessions),
		zap.Int("campers", result.Campers),
		zap.Int("bunks", result.Bunks),
		zap.Int("requests", result.Requests),
		zap.Int("assignments", result.Assignments))

	return result, nil
}

// sessionIDFor builds a stable session ID from the session name and year so
// repeated imports land on the same row.
func sessionIDFor(name string, year int) string {
	return fmt.Sprintf("%d-%s", year, slugify(name))
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '-')
		}
	}
	return string(out)
}

func filterCampers(campers []model.Camper, sessionIDs map[string]bool) []model.Camper {
	kept := make([]model.Camper, 0, len(campers))
	for _, camper := range campers {
		if sessionIDs[camper.SessionID] {
			kept = append(kept, camper)
		}
	}
	return kept
}

func filterBunks(bunks []model.Bunk, sessionIDs map[string]bool) []model.Bunk {
	kept := make([]model.Bunk, 0, len(bunks))
	for _, bunk := range bunks {
		if sessionIDs[bunk.SessionID] {
			kept = append(kept, bunk)
		}
	}
	return kept
}

func filterRequests(requests []model.PreferenceRequest, sessionIDs map[string]bool) []model.PreferenceRequest {
	kept := make([]model.PreferenceRequest, 0, len(requests))
	for _, request := range requests {
		if sessionIDs[request.SessionID] {
			kept = append(kept, request)
		}
	}
	return kept
}
