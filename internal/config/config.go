package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// SessionRule defines a recurrence rule used to expand the calendar dates of
// a camp session within a year.
type SessionRule struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule" validate:"required"`
	Days  int    `yaml:"days" validate:"required,min=1"`
}

// SolverWeights tunes the objective terms used by the assignment engine.
type SolverWeights struct {
	PositiveBonus   float64 `yaml:"positiveBonus,omitempty" validate:"omitempty,gt=0"`
	NegativePenalty float64 `yaml:"negativePenalty,omitempty" validate:"omitempty,gt=0"`
	SpreadThreshold int     `yaml:"spreadThreshold,omitempty" validate:"omitempty,min=0"`
	SpreadPenalty   float64 `yaml:"spreadPenalty,omitempty" validate:"omitempty,gt=0"`
	CohortBonus     float64 `yaml:"cohortBonus,omitempty" validate:"omitempty,gt=0"`
	CohortPenalty   float64 `yaml:"cohortPenalty,omitempty" validate:"omitempty,gt=0"`
}

// RunLimits bounds the time budget accepted for optimization runs.
type RunLimits struct {
	MinBudgetSeconds int `yaml:"minBudgetSeconds,omitempty" validate:"omitempty,min=1"`
	MaxBudgetSeconds int `yaml:"maxBudgetSeconds,omitempty" validate:"omitempty,min=1"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL   string        `yaml:"databaseURL" validate:"required"`
	RosterSheetID string        `yaml:"rosterSheetID" validate:"required"`
	CampersTab    string        `yaml:"campersTab" validate:"required"`
	BunksTab      string        `yaml:"bunksTab" validate:"required"`
	RequestsTab   string        `yaml:"requestsTab" validate:"required"`
	SessionRules  []SessionRule `yaml:"sessionRules,omitempty" validate:"dive"`
	SolverWeights SolverWeights `yaml:"solverWeights,omitempty"`
	RunLimits     RunLimits     `yaml:"runLimits,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from bunkmate_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.SessionRules {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in sessionRules[%d]: %w", i, err)
		}
	}

	if cfg.RunLimits.MinBudgetSeconds > 0 && cfg.RunLimits.MaxBudgetSeconds > 0 &&
		cfg.RunLimits.MinBudgetSeconds > cfg.RunLimits.MaxBudgetSeconds {
		return fmt.Errorf("runLimits: minBudgetSeconds must not exceed maxBudgetSeconds")
	}

	return nil
}

// findConfigFile searches for bunkmate_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "bunkmate_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
