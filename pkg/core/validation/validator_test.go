package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitpines/bunkmate/pkg/core/model"
)

func assigned(camperID, bunkID string) model.Assignment {
	return model.Assignment{CamperID: camperID, BunkID: bunkID}
}

func TestValidate_CleanAssignment(t *testing.T) {
	report := Validate(Input{
		Campers: []model.Camper{
			{ID: "c1", Grade: 5},
			{ID: "c2", Grade: 5},
		},
		Bunks: []model.Bunk{{ID: "b1", Name: "Pine", MaxCapacity: 4}},
		Assignments: []model.Assignment{
			assigned("c1", "b1"),
			assigned("c2", "b1"),
		},
		Thresholds: Thresholds{SpreadThreshold: 1},
	})

	assert.Empty(t, report.Issues)
	assert.Equal(t, 2, report.Stats.AssignedCampers)
	assert.Equal(t, 0, report.Stats.UnassignedCampers)
	assert.Equal(t, 1.0, report.Stats.SatisfactionRate)
}

func TestValidate_UnassignedCamperWarning(t *testing.T) {
	report := Validate(Input{
		Campers: []model.Camper{{ID: "c1", FirstName: "Ada", LastName: "Bell"}},
		Bunks:   []model.Bunk{{ID: "b1", MaxCapacity: 4}},
	})

	require.Len(t, report.Issues, 1)
	assert.Equal(t, SeverityWarning, report.Issues[0].Severity)
	assert.Equal(t, CategoryCamperUnassigned, report.Issues[0].Category)
	assert.Equal(t, 1, report.Stats.UnassignedCampers)
}

func TestValidate_UnknownBunkCountsAsUnassigned(t *testing.T) {
	report := Validate(Input{
		Campers:     []model.Camper{{ID: "c1"}},
		Bunks:       []model.Bunk{{ID: "b1", MaxCapacity: 4}},
		Assignments: []model.Assignment{assigned("c1", "ghost")},
	})

	assert.Equal(t, 1, report.Stats.UnassignedCampers)
}

func TestValidate_CapacityClassification(t *testing.T) {
	report := Validate(Input{
		Campers: []model.Camper{
			{ID: "c1"}, {ID: "c2"}, {ID: "c3"}, {ID: "c4"},
		},
		Bunks: []model.Bunk{
			{ID: "over", Name: "Over", MinCapacity: 0, MaxCapacity: 1},
			{ID: "at", Name: "At", MinCapacity: 0, MaxCapacity: 1},
			{ID: "under", Name: "Under", MinCapacity: 2, MaxCapacity: 4},
			{ID: "empty", Name: "Empty", MinCapacity: 2, MaxCapacity: 4},
		},
		Assignments: []model.Assignment{
			assigned("c1", "over"),
			assigned("c2", "over"),
			assigned("c3", "at"),
			assigned("c4", "under"),
		},
	})

	assert.Equal(t, 1, report.Stats.BunksOver)
	assert.Equal(t, 1, report.Stats.BunksAt)
	assert.Equal(t, 1, report.Stats.BunksUnder)

	// Over-capacity is the only error; empty bunks are never under-minimum
	assert.Equal(t, 1, report.Stats.Errors)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, SeverityError, report.Issues[0].Severity)
}

func TestValidate_NegativeViolatedOnlyWhenShared(t *testing.T) {
	base := Input{
		Campers: []model.Camper{{ID: "c1"}, {ID: "c2"}},
		Bunks: []model.Bunk{
			{ID: "b1", MaxCapacity: 4},
			{ID: "b2", MaxCapacity: 4},
		},
		Requests: []model.PreferenceRequest{
			{ID: "r1", RequesterID: "c2", RequesteeID: "c1", Kind: model.KindNotBunkWith, Active: true},
		},
	}

	together := base
	together.Assignments = []model.Assignment{assigned("c1", "b1"), assigned("c2", "b1")}
	report := Validate(together)
	assert.Equal(t, 1, report.Stats.NegativeViolated)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, CategoryNegativeViolated, report.Issues[0].Category)
	assert.Equal(t, SeverityError, report.Issues[0].Severity)

	apart := base
	apart.Assignments = []model.Assignment{assigned("c1", "b1"), assigned("c2", "b2")}
	report = Validate(apart)
	assert.Equal(t, 0, report.Stats.NegativeViolated)
	assert.Equal(t, 0, report.Stats.Errors)
}

func TestValidate_PositiveSatisfactionRate(t *testing.T) {
	report := Validate(Input{
		Campers: []model.Camper{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}, {ID: "c4"}},
		Bunks: []model.Bunk{
			{ID: "b1", MaxCapacity: 4},
			{ID: "b2", MaxCapacity: 4},
		},
		Requests: []model.PreferenceRequest{
			{ID: "r1", RequesterID: "c1", RequesteeID: "c2", Kind: model.KindBunkWith, Active: true},
			{ID: "r2", RequesterID: "c3", RequesteeID: "c4", Kind: model.KindBunkWith, Active: true},
		},
		Assignments: []model.Assignment{
			assigned("c1", "b1"),
			assigned("c2", "b1"),
			assigned("c3", "b1"),
			assigned("c4", "b2"),
		},
	})

	assert.Equal(t, 2, report.Stats.PositiveRequests)
	assert.Equal(t, 1, report.Stats.PositiveSatisfied)
	assert.Equal(t, 0.5, report.Stats.SatisfactionRate)
}

func TestValidate_DuplicateRequestsCountOnce(t *testing.T) {
	report := Validate(Input{
		Campers: []model.Camper{{ID: "c1"}, {ID: "c2"}},
		Bunks:   []model.Bunk{{ID: "b1", MaxCapacity: 4}, {ID: "b2", MaxCapacity: 4}},
		Requests: []model.PreferenceRequest{
			{ID: "r1", RequesterID: "c1", RequesteeID: "c2", Kind: model.KindBunkWith, Active: true},
			{ID: "r2", RequesterID: "c2", RequesteeID: "c1", Kind: model.KindBunkWith, Active: true},
		},
		Assignments: []model.Assignment{assigned("c1", "b1"), assigned("c2", "b2")},
	})

	assert.Equal(t, 1, report.Stats.PositiveRequests)
}

func TestValidate_SpreadExceeded(t *testing.T) {
	report := Validate(Input{
		Campers: []model.Camper{
			{ID: "c1", Grade: 3},
			{ID: "c2", Grade: 6},
		},
		Bunks:       []model.Bunk{{ID: "b1", Name: "Oak", MaxCapacity: 4}},
		Assignments: []model.Assignment{assigned("c1", "b1"), assigned("c2", "b1")},
		Thresholds:  Thresholds{SpreadThreshold: 1},
	})

	require.Len(t, report.Issues, 1)
	assert.Equal(t, CategorySpreadExceeded, report.Issues[0].Category)
	assert.Equal(t, SeverityWarning, report.Issues[0].Severity)
}

func TestValidate_CohortPreference(t *testing.T) {
	tests := []struct {
		name      string
		direction model.CohortDirection
		otherAge  int
		satisfied bool
	}{
		{"older satisfied", model.DirectionOlder, 12, true},
		{"older violated", model.DirectionOlder, 8, false},
		{"younger satisfied", model.DirectionYounger, 8, true},
		{"same age counts as satisfied", model.DirectionOlder, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(Input{
				Campers: []model.Camper{
					{ID: "c1", Age: 10},
					{ID: "c2", Age: tt.otherAge},
				},
				Bunks: []model.Bunk{{ID: "b1", MaxCapacity: 4}},
				Requests: []model.PreferenceRequest{
					{ID: "r1", RequesterID: "c1", Kind: model.KindAgeCohort, Direction: tt.direction, Active: true},
				},
				Assignments: []model.Assignment{assigned("c1", "b1"), assigned("c2", "b1")},
			})

			assert.Equal(t, 1, report.Stats.CohortRequests)
			if tt.satisfied {
				assert.Equal(t, 1, report.Stats.CohortSatisfied)
			} else {
				assert.Equal(t, 0, report.Stats.CohortSatisfied)
			}
		})
	}
}

func TestValidate_FriendGroupSplit(t *testing.T) {
	report := Validate(Input{
		Campers: []model.Camper{
			{ID: "c1", GroupKey: "g1"},
			{ID: "c2", GroupKey: "g1"},
			{ID: "c3", GroupKey: "g1"},
		},
		Bunks: []model.Bunk{{ID: "b1", MaxCapacity: 4}, {ID: "b2", MaxCapacity: 4}},
		Assignments: []model.Assignment{
			assigned("c1", "b1"),
			assigned("c2", "b1"),
			assigned("c3", "b2"),
		},
	})

	assert.Equal(t, 1, report.Stats.FriendGroups)
	assert.Equal(t, 0, report.Stats.IntactFriendGroups)

	var found bool
	for _, issue := range report.Issues {
		if issue.Category == CategoryFriendGroupSplit {
			found = true
			assert.Contains(t, issue.Message, "2 of 3")
		}
	}
	assert.True(t, found)
}

func TestValidate_Idempotent(t *testing.T) {
	input := Input{
		Campers: []model.Camper{
			{ID: "c1", Grade: 3}, {ID: "c2", Grade: 6}, {ID: "c3"},
		},
		Bunks: []model.Bunk{{ID: "b1", MaxCapacity: 2}},
		Requests: []model.PreferenceRequest{
			{ID: "r1", RequesterID: "c1", RequesteeID: "c3", Kind: model.KindBunkWith, Active: true},
		},
		Assignments: []model.Assignment{assigned("c1", "b1"), assigned("c2", "b1")},
		Thresholds:  Thresholds{SpreadThreshold: 1},
	}

	first := Validate(input)
	second := Validate(input)

	assert.Equal(t, first, second)
}

func TestValidate_IssueOrdering(t *testing.T) {
	report := Validate(Input{
		Campers: []model.Camper{
			{ID: "c1"}, {ID: "c2"}, {ID: "c3"},
		},
		Bunks: []model.Bunk{{ID: "b1", Name: "Full", MaxCapacity: 1}},
		Requests: []model.PreferenceRequest{
			{ID: "r1", RequesterID: "c1", RequesteeID: "c2", Kind: model.KindNotBunkWith, Active: true},
		},
		Assignments: []model.Assignment{
			assigned("c1", "b1"),
			assigned("c2", "b1"),
		},
	})

	require.GreaterOrEqual(t, len(report.Issues), 2)
	// Errors come before warnings
	assert.Equal(t, SeverityError, report.Issues[0].Severity)
	for i := 1; i < len(report.Issues); i++ {
		prev, cur := report.Issues[i-1], report.Issues[i]
		if prev.Severity == cur.Severity {
			assert.LessOrEqual(t, string(prev.Category), string(cur.Category))
		}
	}
}

func TestCapacityStatusOf(t *testing.T) {
	assert.Equal(t, CapacityOver, CapacityStatusOf(5, 2, 4))
	assert.Equal(t, CapacityAt, CapacityStatusOf(4, 2, 4))
	assert.Equal(t, CapacityUnder, CapacityStatusOf(1, 2, 4))
	assert.Equal(t, CapacityWithin, CapacityStatusOf(3, 2, 4))
	// An empty bunk is never under its minimum
	assert.Equal(t, CapacityWithin, CapacityStatusOf(0, 2, 4))
}
