package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/internal/config"
)

// SessionWindow is a concrete date range produced by expanding a session rule
// within a single year.
type SessionWindow struct {
	Name  string
	Start time.Time
	End   time.Time
}

// ExpandSessionDates expands the configured session recurrence rules into
// concrete session windows for the given year. Each occurrence of a rule
// becomes one window whose length is the rule's configured day count.
func ExpandSessionDates(rules []config.SessionRule, year int, logger *zap.Logger) ([]SessionWindow, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	windows := make([]SessionWindow, 0, len(rules))
	for i, rule := range rules {
		parsed, err := rrule.StrToRRule(rule.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for session rule %d (%s): %w", i, rule.Name, err)
		}

		parsed.DTStart(yearStart)
		occurrences := parsed.Between(yearStart, yearEnd, true)
		for j, occurrence := range occurrences {
			name := rule.Name
			if len(occurrences) > 1 {
				name = fmt.Sprintf("%s %d", rule.Name, j+1)
			}
			windows = append(windows, SessionWindow{
				Name:  name,
				Start: occurrence,
				End:   occurrence.AddDate(0, 0, rule.Days-1),
			})
		}

		logger.Debug("Expanded session rule",
			zap.String("name", rule.Name),
			zap.String("rrule", rule.RRule),
			zap.Int("occurrences", len(occurrences)))
	}

	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Start.Equal(windows[j].Start) {
			return windows[i].Name < windows[j].Name
		}
		return windows[i].Start.Before(windows[j].Start)
	})

	return windows, nil
}
