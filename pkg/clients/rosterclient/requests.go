package rosterclient

import (
	"fmt"
	"strconv"

	"github.com/summitpines/bunkmate/internal/config"
	"github.com/summitpines/bunkmate/pkg/core/model"
)

// Expected column names in the requests sheet
var requestFields = []string{
	"Unique ID",
	"Session ID",
	"Requester ID",
	"Requestee ID",
	"Kind",
	"Direction",
	"Priority",
	"Confidence",
	"Source",
	"Active",
}

// ListPreferenceRequests retrieves and parses bunking requests from the configured spreadsheet
func (c *Client) ListPreferenceRequests(cfg *config.Config) ([]model.PreferenceRequest, error) {
	values, err := c.GetValues(cfg.RosterSheetID, cfg.RequestsTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get request data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("requests sheet is empty")
	}

	requests, err := parsePreferenceRequests(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse requests: %w", err)
	}

	return requests, nil
}

// parsePreferenceRequests converts raw spreadsheet data into PreferenceRequest structs
func parsePreferenceRequests(raw [][]interface{}) ([]model.PreferenceRequest, error) {
	getField, err := buildFieldGetter(raw, requestFields)
	if err != nil {
		return nil, err
	}

	requests := make([]model.PreferenceRequest, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField("Unique ID", row)
		if id == "" {
			continue
		}

		kind := model.PreferenceKind(getField("Kind", row))
		switch kind {
		case model.KindBunkWith, model.KindNotBunkWith, model.KindAgeCohort:
		default:
			return nil, fmt.Errorf("invalid request kind %q in row %d", kind, i)
		}

		direction := model.CohortDirection(getField("Direction", row))
		switch direction {
		case model.DirectionOlder, model.DirectionYounger, model.DirectionNone:
		default:
			return nil, fmt.Errorf("invalid cohort direction %q in row %d", direction, i)
		}

		if kind == model.KindAgeCohort && direction == model.DirectionNone {
			return nil, fmt.Errorf("age cohort request in row %d is missing a direction", i)
		}

		priority, err := parseIntCell(getField("Priority", row))
		if err != nil {
			return nil, fmt.Errorf("invalid priority in row %d: %w", i, err)
		}
		if priority < 1 {
			priority = 1
		}

		confidence, err := parseFloatCell(getField("Confidence", row))
		if err != nil {
			return nil, fmt.Errorf("invalid confidence in row %d: %w", i, err)
		}
		if confidence <= 0 || confidence > 1 {
			confidence = 1
		}

		request := model.PreferenceRequest{
			ID:          id,
			SessionID:   getField("Session ID", row),
			RequesterID: getField("Requester ID", row),
			RequesteeID: getField("Requestee ID", row),
			Kind:        kind,
			Direction:   direction,
			Priority:    priority,
			Confidence:  confidence,
			Source:      getField("Source", row),
			Active:      parseBoolCell(getField("Active", row)),
		}

		requests = append(requests, request)
	}

	return requests, nil
}

// parseFloatCell parses a float cell, treating blank as zero
func parseFloatCell(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
