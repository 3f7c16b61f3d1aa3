package model

import "time"

// ProductionScenario is the scenario ID used for the live assignment set.
// An empty scenario ID on an assignment row means the row belongs to production.
const ProductionScenario = ""

// Camper represents a session attendee eligible for bunk assignment.
// Camper records are owned by the roster provider and are read-only
// during an optimization run.
type Camper struct {
	ID        string
	FirstName string
	LastName  string

	// Grade is the school grade the camper is entering (used for spread checks)
	Grade int

	// Age in whole years at session start (used for age-cohort preferences)
	Age int

	// Category is the eligibility category (e.g. "boys", "girls") that must
	// match the bunk's category for placement
	Category string

	SessionID string

	// BunkID is the camper's current bunk in the production assignment set
	// (empty if unassigned)
	BunkID string

	// GroupKey identifies the camper's declared friend group
	// (empty string for campers not in a group)
	GroupKey string

	// Locked pins the camper to their current bunk against optimizer changes
	Locked bool
}

// Bunk represents a living-group unit with occupancy bounds.
type Bunk struct {
	ID        string
	Name      string
	SessionID string

	// Category is the eligibility category this bunk accepts.
	// An empty category accepts campers of any category.
	Category string

	// MinCapacity is the minimum occupancy for the bunk to be viable
	MinCapacity int

	// MaxCapacity is the maximum occupancy
	MaxCapacity int

	// Locked closes the bunk to optimizer-driven placement
	Locked bool
}

// Session is the time-scoped grouping of campers and bunks being assigned together.
type Session struct {
	ID    string
	Name  string
	Year  int
	Start string
	End   string
}

// PreferenceKind is the tagged variant for structured bunking requests.
// Raw free-text requests are parsed upstream; by the time a request reaches
// this package it carries exactly one of these kinds.
type PreferenceKind string

const (
	// KindBunkWith is a positive request: requester wants to share a bunk with requestee
	KindBunkWith PreferenceKind = "bunk_with"

	// KindNotBunkWith is a negative request: the two campers must be kept apart
	KindNotBunkWith PreferenceKind = "not_bunk_with"

	// KindAgeCohort is a directional preference about bunkmate ages
	// (no requestee; Direction carries the preferred side)
	KindAgeCohort PreferenceKind = "age_cohort"
)

// CohortDirection is the preferred side for an age-cohort request.
type CohortDirection string

const (
	DirectionOlder   CohortDirection = "older"
	DirectionYounger CohortDirection = "younger"
	DirectionNone    CohortDirection = ""
)

// PreferenceRequest is a structured bunking request produced by the intake
// pipeline. Multiple raw requests between the same pair collapse to one
// evaluated edge per kind before weighting.
type PreferenceRequest struct {
	ID          string
	SessionID   string
	RequesterID string

	// RequesteeID is empty for age-cohort requests
	RequesteeID string

	Kind      PreferenceKind
	Direction CohortDirection

	// Priority is the staff-assigned weight (1 = normal, higher = stronger)
	Priority int

	// Confidence is the intake parser's confidence in [0, 1]; it scales the
	// request's contribution to the objective
	Confidence float64

	// Source records where the request came from (e.g. "form", "phone", "staff")
	Source string

	// Active is false for superseded requests, which are ignored everywhere
	Active bool
}

// Assignment maps one camper to a bunk (or to no bunk) within a scenario.
// A row with an empty BunkID records an explicit unassignment without
// deleting the audit trail.
type Assignment struct {
	CamperID   string
	BunkID     string
	SessionID  string
	ScenarioID string
	Year       int

	// Locked pins this row against optimizer-driven change
	Locked bool

	UpdatedAt time.Time
}

// Scenario is a named, isolated copy of an assignment set used for
// what-if planning. Production is the implicit default scenario.
type Scenario struct {
	ID          string
	SessionID   string
	Year        int
	Name        string
	Description string

	// Active is false once the scenario is soft-deleted
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
