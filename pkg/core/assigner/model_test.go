package assigner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitpines/bunkmate/pkg/core/model"
)

func TestBuildModel_EligibilityByCategory(t *testing.T) {
	m := BuildModel(BuildInput{
		Campers: []model.Camper{
			{ID: "c1", Category: "boys"},
			{ID: "c2", Category: "girls"},
		},
		Bunks: []model.Bunk{
			{ID: "b1", Category: "boys", MaxCapacity: 4},
			{ID: "b2", Category: "", MaxCapacity: 4},
		},
		Weights: DefaultWeights(),
	})

	require.Len(t, m.Campers, 2)

	// c1 may use the boys bunk and the any-category bunk
	assert.Equal(t, []int{0, 1}, m.Campers[0].Eligible)
	// c2 may only use the any-category bunk
	assert.Equal(t, []int{1}, m.Campers[1].Eligible)
}

func TestBuildModel_LockedBunkExcluded(t *testing.T) {
	m := BuildModel(BuildInput{
		Campers: []model.Camper{{ID: "c1"}},
		Bunks: []model.Bunk{
			{ID: "b1", MaxCapacity: 4, Locked: true},
			{ID: "b2", MaxCapacity: 4},
		},
		Weights: DefaultWeights(),
	})

	require.Len(t, m.Campers, 1)
	assert.Equal(t, []int{1}, m.Campers[0].Eligible)
}

func TestBuildModel_UnassignableCamper(t *testing.T) {
	m := BuildModel(BuildInput{
		Campers: []model.Camper{{ID: "c1", Category: "girls"}},
		Bunks:   []model.Bunk{{ID: "b1", Category: "boys", MaxCapacity: 4}},
		Weights: DefaultWeights(),
	})

	assert.Empty(t, m.Campers)
	require.Len(t, m.Unassignable, 1)
	assert.Equal(t, "c1", m.Unassignable[0].ID)
}

func TestBuildModel_RespectLocksPinsCamper(t *testing.T) {
	m := BuildModel(BuildInput{
		Campers: []model.Camper{
			{ID: "c1", BunkID: "b1", Locked: true},
			{ID: "c2"},
		},
		Bunks:        []model.Bunk{{ID: "b1", MaxCapacity: 4}},
		RespectLocks: true,
		Weights:      DefaultWeights(),
	})

	// c1 is fixed, only c2 is searched
	require.Len(t, m.Campers, 1)
	assert.Equal(t, "c2", m.Campers[0].Camper.ID)
	assert.Equal(t, 0, m.Fixed["c1"])
	require.Len(t, m.Bunks[0].FixedOccupants, 1)
	assert.Empty(t, m.LockConflicts)
}

func TestBuildModel_LocksIgnoredWhenDisabled(t *testing.T) {
	m := BuildModel(BuildInput{
		Campers: []model.Camper{{ID: "c1", BunkID: "b1", Locked: true}},
		Bunks:   []model.Bunk{{ID: "b1", MaxCapacity: 4}},
		Weights: DefaultWeights(),
	})

	require.Len(t, m.Campers, 1)
	assert.Empty(t, m.Fixed)
}

func TestBuildModel_LockConflicts(t *testing.T) {
	tests := []struct {
		name    string
		campers []model.Camper
		bunks   []model.Bunk
	}{
		{
			name:    "unknown bunk",
			campers: []model.Camper{{ID: "c1", BunkID: "missing", Locked: true}},
			bunks:   []model.Bunk{{ID: "b1", MaxCapacity: 4}},
		},
		{
			name:    "closed bunk",
			campers: []model.Camper{{ID: "c1", BunkID: "b1", Locked: true}},
			bunks:   []model.Bunk{{ID: "b1", MaxCapacity: 4, Locked: true}},
		},
		{
			name:    "category mismatch",
			campers: []model.Camper{{ID: "c1", Category: "girls", BunkID: "b1", Locked: true}},
			bunks:   []model.Bunk{{ID: "b1", Category: "boys", MaxCapacity: 4}},
		},
		{
			name: "over max capacity",
			campers: []model.Camper{
				{ID: "c1", BunkID: "b1", Locked: true},
				{ID: "c2", BunkID: "b1", Locked: true},
			},
			bunks: []model.Bunk{{ID: "b1", MaxCapacity: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildModel(BuildInput{
				Campers:      tt.campers,
				Bunks:        tt.bunks,
				RespectLocks: true,
				Weights:      DefaultWeights(),
			})
			assert.NotEmpty(t, m.LockConflicts)
		})
	}
}

func TestBuildModel_DuplicateRequestsCollapse(t *testing.T) {
	requests := []model.PreferenceRequest{
		{ID: "r1", RequesterID: "c1", RequesteeID: "c2", Kind: model.KindBunkWith, Priority: 1, Confidence: 0.5, Active: true},
		{ID: "r2", RequesterID: "c2", RequesteeID: "c1", Kind: model.KindBunkWith, Priority: 2, Confidence: 1.0, Active: true},
		{ID: "r3", RequesterID: "c1", RequesteeID: "c2", Kind: model.KindBunkWith, Priority: 1, Confidence: 1.0, Active: true},
	}

	m := BuildModel(BuildInput{
		Campers:  []model.Camper{{ID: "c1"}, {ID: "c2"}},
		Bunks:    []model.Bunk{{ID: "b1", MaxCapacity: 4}},
		Requests: requests,
		Weights:  DefaultWeights(),
	})

	// Three intake rows collapse to one edge carrying the strongest scale
	require.Len(t, m.PositiveEdges, 1)
	assert.Equal(t, DefaultWeights().PositiveBonus*2.0, m.PositiveEdges[0].Weight)
}

func TestBuildModel_NegativeRequestSymmetric(t *testing.T) {
	m := BuildModel(BuildInput{
		Campers: []model.Camper{{ID: "c1"}, {ID: "c2"}},
		Bunks:   []model.Bunk{{ID: "b1", MaxCapacity: 4}},
		Requests: []model.PreferenceRequest{
			{ID: "r1", RequesterID: "c2", RequesteeID: "c1", Kind: model.KindNotBunkWith, Priority: 1, Confidence: 1, Active: true},
			{ID: "r2", RequesterID: "c1", RequesteeID: "c2", Kind: model.KindNotBunkWith, Priority: 1, Confidence: 1, Active: true},
		},
		Weights: DefaultWeights(),
	})

	// Both directions collapse to a single unordered edge
	require.Len(t, m.NegativeEdges, 1)
	assert.Equal(t, "c1", m.NegativeEdges[0].AID)
	assert.Equal(t, "c2", m.NegativeEdges[0].BID)
}

func TestBuildModel_InactiveAndDanglingRequestsIgnored(t *testing.T) {
	m := BuildModel(BuildInput{
		Campers: []model.Camper{{ID: "c1"}, {ID: "c2"}},
		Bunks:   []model.Bunk{{ID: "b1", MaxCapacity: 4}},
		Requests: []model.PreferenceRequest{
			{ID: "r1", RequesterID: "c1", RequesteeID: "c2", Kind: model.KindBunkWith, Priority: 1, Confidence: 1, Active: false},
			{ID: "r2", RequesterID: "c1", RequesteeID: "ghost", Kind: model.KindBunkWith, Priority: 1, Confidence: 1, Active: true},
			{ID: "r3", RequesterID: "c1", RequesteeID: "c1", Kind: model.KindBunkWith, Priority: 1, Confidence: 1, Active: true},
		},
		Weights: DefaultWeights(),
	})

	assert.Empty(t, m.PositiveEdges)
}

func TestBuildModel_CohortKeepsStrongestRequest(t *testing.T) {
	m := BuildModel(BuildInput{
		Campers: []model.Camper{{ID: "c1", Age: 10}},
		Bunks:   []model.Bunk{{ID: "b1", MaxCapacity: 4}},
		Requests: []model.PreferenceRequest{
			{ID: "r1", RequesterID: "c1", Kind: model.KindAgeCohort, Direction: model.DirectionYounger, Priority: 1, Confidence: 1, Active: true},
			{ID: "r2", RequesterID: "c1", Kind: model.KindAgeCohort, Direction: model.DirectionOlder, Priority: 3, Confidence: 1, Active: true},
		},
		Weights: DefaultWeights(),
	})

	require.Len(t, m.Cohorts, 1)
	assert.Equal(t, model.DirectionOlder, m.Cohorts[0].Direction)
	assert.Equal(t, 3.0, m.Cohorts[0].Weight)
	assert.Equal(t, 10, m.Cohorts[0].Age)
}
