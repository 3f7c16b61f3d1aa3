package rosterclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/summitpines/bunkmate/internal/config"
	"github.com/summitpines/bunkmate/pkg/core/model"
)

// Expected column names in the campers sheet
var camperFields = []string{
	"Unique ID",
	"First name",
	"Last name",
	"Grade",
	"Age",
	"Category",
	"Session ID",
	"Bunk ID",
	"Group key",
	"Locked",
}

// Expected column names in the bunks sheet
var bunkFields = []string{
	"Unique ID",
	"Name",
	"Session ID",
	"Category",
	"Min capacity",
	"Max capacity",
	"Locked",
}

// ListCampers retrieves and parses campers from the configured spreadsheet
func (c *Client) ListCampers(cfg *config.Config) ([]model.Camper, error) {
	values, err := c.GetValues(cfg.RosterSheetID, cfg.CampersTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get camper data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("campers sheet is empty")
	}

	campers, err := parseCampers(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse campers: %w", err)
	}

	return campers, nil
}

// ListBunks retrieves and parses bunks from the configured spreadsheet
func (c *Client) ListBunks(cfg *config.Config) ([]model.Bunk, error) {
	values, err := c.GetValues(cfg.RosterSheetID, cfg.BunksTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get bunk data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("bunks sheet is empty")
	}

	bunks, err := parseBunks(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bunks: %w", err)
	}

	return bunks, nil
}

// parseCampers converts raw spreadsheet data into Camper structs
func parseCampers(raw [][]interface{}) ([]model.Camper, error) {
	getField, err := buildFieldGetter(raw, camperFields)
	if err != nil {
		return nil, err
	}

	campers := make([]model.Camper, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField("Unique ID", row)
		// Skip empty rows (rows with no ID)
		if id == "" {
			continue
		}

		grade, err := parseIntCell(getField("Grade", row))
		if err != nil {
			return nil, fmt.Errorf("invalid grade for camper in row %d: %w", i, err)
		}

		age, err := parseIntCell(getField("Age", row))
		if err != nil {
			return nil, fmt.Errorf("invalid age for camper in row %d: %w", i, err)
		}

		camper := model.Camper{
			ID:        id,
			FirstName: getField("First name", row),
			LastName:  getField("Last name", row),
			Grade:     grade,
			Age:       age,
			Category:  getField("Category", row),
			SessionID: getField("Session ID", row),
			BunkID:    getField("Bunk ID", row),
			GroupKey:  getField("Group key", row),
			Locked:    parseBoolCell(getField("Locked", row)),
		}

		campers = append(campers, camper)
	}

	return campers, nil
}

// parseBunks converts raw spreadsheet data into Bunk structs
func parseBunks(raw [][]interface{}) ([]model.Bunk, error) {
	getField, err := buildFieldGetter(raw, bunkFields)
	if err != nil {
		return nil, err
	}

	bunks := make([]model.Bunk, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField("Unique ID", row)
		if id == "" {
			continue
		}

		minCapacity, err := parseIntCell(getField("Min capacity", row))
		if err != nil {
			return nil, fmt.Errorf("invalid min capacity for bunk in row %d: %w", i, err)
		}

		maxCapacity, err := parseIntCell(getField("Max capacity", row))
		if err != nil {
			return nil, fmt.Errorf("invalid max capacity for bunk in row %d: %w", i, err)
		}

		if maxCapacity < 1 {
			return nil, fmt.Errorf("bunk in row %d must have max capacity of at least 1", i)
		}
		if minCapacity > maxCapacity {
			return nil, fmt.Errorf("bunk in row %d has min capacity above max capacity", i)
		}

		bunk := model.Bunk{
			ID:          id,
			Name:        getField("Name", row),
			SessionID:   getField("Session ID", row),
			Category:    getField("Category", row),
			MinCapacity: minCapacity,
			MaxCapacity: maxCapacity,
			Locked:      parseBoolCell(getField("Locked", row)),
		}

		bunks = append(bunks, bunk)
	}

	return bunks, nil
}

// buildFieldGetter maps required field names to column indexes from the header
// row and returns a row accessor. Missing required fields are an error.
func buildFieldGetter(raw [][]interface{}, fields []string) (func(string, []interface{}) string, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	headerRow := raw[0]

	for _, field := range fields {
		index := -1
		for i, cell := range headerRow {
			if cellStr, ok := cell.(string); ok && cellStr == field {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok {
			return ""
		}
		if index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return strings.TrimSpace(str)
		}
		return ""
	}

	return getField, nil
}

// parseIntCell parses an integer cell, treating blank as zero
func parseIntCell(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// parseBoolCell parses a spreadsheet boolean cell ("TRUE", "yes", "1")
func parseBoolCell(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}
