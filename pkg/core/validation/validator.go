package validation

import (
	"fmt"
	"sort"

	"github.com/summitpines/bunkmate/pkg/core/model"
)

// Thresholds configures the soft-rule boundaries the validator checks
// against. They mirror the optimizer's weights but are supplied
// independently: the validator never trusts solver state.
type Thresholds struct {
	// SpreadThreshold is the allowed grade gap within a bunk
	SpreadThreshold int
}

// Input is everything one validation pass reads. Validation is a pure
// function of this input; it performs no writes and holds no locks, so any
// number of passes may run concurrently.
type Input struct {
	Campers     []model.Camper
	Bunks       []model.Bunk
	Requests    []model.PreferenceRequest
	Assignments []model.Assignment
	Thresholds  Thresholds
}

// Validate audits an assignment set against the full rule set and returns a
// deterministic, ordered issue list plus aggregate statistics.
//
// Every check is re-derived from first principles: the verdicts are
// identical whether the assignments came from the optimizer, the production
// baseline, or a hand-edited scenario. Calling Validate twice on unchanged
// input yields an identical report.
func Validate(in Input) *Report {
	report := &Report{}

	bunkByID := make(map[string]model.Bunk, len(in.Bunks))
	for _, b := range in.Bunks {
		bunkByID[b.ID] = b
	}
	camperByID := make(map[string]model.Camper, len(in.Campers))
	for _, c := range in.Campers {
		camperByID[c.ID] = c
	}

	// Resolve the effective bunk per camper. An assignment row with an
	// empty bunk is an explicit unassignment; a row pointing at an unknown
	// bunk counts as unassigned too.
	bunkOf := make(map[string]string, len(in.Assignments))
	for _, a := range in.Assignments {
		if _, known := camperByID[a.CamperID]; !known {
			continue
		}
		if a.BunkID == "" {
			bunkOf[a.CamperID] = ""
			continue
		}
		if _, known := bunkByID[a.BunkID]; !known {
			bunkOf[a.CamperID] = ""
			continue
		}
		bunkOf[a.CamperID] = a.BunkID
	}

	occupants := make(map[string][]model.Camper)
	for _, c := range in.Campers {
		if bunkID := bunkOf[c.ID]; bunkID != "" {
			occupants[bunkID] = append(occupants[bunkID], c)
		}
	}

	checkUnassigned(in, bunkOf, report)
	checkCapacity(in, occupants, report)
	checkRequests(in, bunkOf, camperByID, occupants, report)
	checkSpread(in, occupants, report)
	checkFriendGroups(in, bunkOf, report)

	finalize(report)
	return report
}

// checkUnassigned reports every camper without an effective bunk.
func checkUnassigned(in Input, bunkOf map[string]string, report *Report) {
	report.Stats.TotalCampers = len(in.Campers)

	for _, c := range in.Campers {
		if bunkOf[c.ID] != "" {
			report.Stats.AssignedCampers++
			continue
		}
		report.Stats.UnassignedCampers++
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityWarning,
			Category:  CategoryCamperUnassigned,
			Message:   fmt.Sprintf("%s %s has no bunk assignment", c.FirstName, c.LastName),
			CamperIDs: []string{c.ID},
		})
	}
}

// checkCapacity classifies every bunk's occupancy against its bounds.
// Over-capacity is an error even for hand-edited sets; the breach is
// reported, never rejected.
func checkCapacity(in Input, occupants map[string][]model.Camper, report *Report) {
	for _, b := range in.Bunks {
		count := len(occupants[b.ID])

		switch CapacityStatusOf(count, b.MinCapacity, b.MaxCapacity) {
		case CapacityOver:
			report.Stats.BunksOver++
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityError,
				Category: CategoryCapacity,
				Message:  fmt.Sprintf("bunk %s holds %d campers, above its maximum of %d", b.Name, count, b.MaxCapacity),
				BunkID:   b.ID,
			})
		case CapacityAt:
			report.Stats.BunksAt++
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityInfo,
				Category: CategoryCapacity,
				Message:  fmt.Sprintf("bunk %s is at its maximum of %d campers", b.Name, b.MaxCapacity),
				BunkID:   b.ID,
			})
		case CapacityUnder:
			report.Stats.BunksUnder++
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityWarning,
				Category: CategoryCapacity,
				Message:  fmt.Sprintf("bunk %s holds %d campers, below its minimum of %d", b.Name, count, b.MinCapacity),
				BunkID:   b.ID,
			})
		}
	}
}

// checkRequests evaluates every deduplicated preference edge. A negative
// request is violated if and only if the two campers share a bunk,
// regardless of which side made the request.
func checkRequests(in Input, bunkOf map[string]string, camperByID map[string]model.Camper, occupants map[string][]model.Camper, report *Report) {
	type pair struct{ a, b string }
	positive := make(map[pair]bool)
	negative := make(map[pair]bool)
	cohorts := make(map[string]model.CohortDirection)

	for _, req := range in.Requests {
		if !req.Active {
			continue
		}
		switch req.Kind {
		case model.KindBunkWith, model.KindNotBunkWith:
			if _, ok := camperByID[req.RequesterID]; !ok {
				continue
			}
			if _, ok := camperByID[req.RequesteeID]; !ok {
				continue
			}
			if req.RequesterID == req.RequesteeID {
				continue
			}
			a, b := req.RequesterID, req.RequesteeID
			if b < a {
				a, b = b, a
			}
			if req.Kind == model.KindBunkWith {
				positive[pair{a, b}] = true
			} else {
				negative[pair{a, b}] = true
			}
		case model.KindAgeCohort:
			if _, ok := camperByID[req.RequesterID]; !ok {
				continue
			}
			if req.Direction != model.DirectionNone {
				cohorts[req.RequesterID] = req.Direction
			}
		}
	}

	sortedPairs := func(m map[pair]bool) []pair {
		pairs := make([]pair, 0, len(m))
		for p := range m {
			pairs = append(pairs, p)
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].a != pairs[j].a {
				return pairs[i].a < pairs[j].a
			}
			return pairs[i].b < pairs[j].b
		})
		return pairs
	}

	for _, p := range sortedPairs(positive) {
		report.Stats.PositiveRequests++
		bunkA, bunkB := bunkOf[p.a], bunkOf[p.b]
		if bunkA != "" && bunkA == bunkB {
			report.Stats.PositiveSatisfied++
			continue
		}
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityWarning,
			Category:  CategoryPositiveUnsatisfied,
			Message:   fmt.Sprintf("%s and %s asked to bunk together but are apart", displayName(camperByID[p.a]), displayName(camperByID[p.b])),
			CamperIDs: []string{p.a, p.b},
		})
	}

	for _, p := range sortedPairs(negative) {
		report.Stats.NegativeRequests++
		bunkA, bunkB := bunkOf[p.a], bunkOf[p.b]
		if bunkA == "" || bunkA != bunkB {
			continue
		}
		report.Stats.NegativeViolated++
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityError,
			Category:  CategoryNegativeViolated,
			Message:   fmt.Sprintf("%s and %s must be kept apart but share a bunk", displayName(camperByID[p.a]), displayName(camperByID[p.b])),
			CamperIDs: []string{p.a, p.b},
			BunkID:    bunkA,
		})
	}

	cohortIDs := make([]string, 0, len(cohorts))
	for id := range cohorts {
		cohortIDs = append(cohortIDs, id)
	}
	sort.Strings(cohortIDs)

	for _, id := range cohortIDs {
		bunkID := bunkOf[id]
		if bunkID == "" {
			continue
		}
		report.Stats.CohortRequests++
		if cohortSatisfied(camperByID[id], cohorts[id], occupants[bunkID]) {
			report.Stats.CohortSatisfied++
			continue
		}
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityWarning,
			Category:  CategoryAgeCohortViolated,
			Message:   fmt.Sprintf("%s prefers %s bunkmates but every bunkmate is on the other side", displayName(camperByID[id]), cohorts[id]),
			CamperIDs: []string{id},
			BunkID:    bunkID,
		})
	}
}

// cohortSatisfied applies the directional rule: satisfied with at least one
// bunkmate strictly on the preferred side, or when no bunkmate is strictly
// on the conflicting side (same-age bunkmates count as satisfied).
func cohortSatisfied(camper model.Camper, direction model.CohortDirection, occupants []model.Camper) bool {
	bunkmates := 0
	conflicting := 0

	for _, other := range occupants {
		if other.ID == camper.ID {
			continue
		}
		bunkmates++
		switch direction {
		case model.DirectionOlder:
			if other.Age > camper.Age {
				return true
			}
			if other.Age < camper.Age {
				conflicting++
			}
		case model.DirectionYounger:
			if other.Age < camper.Age {
				return true
			}
			if other.Age > camper.Age {
				conflicting++
			}
		}
	}

	return bunkmates == 0 || conflicting < bunkmates
}

// checkSpread reports bunks whose grade gap exceeds the threshold.
func checkSpread(in Input, occupants map[string][]model.Camper, report *Report) {
	for _, b := range in.Bunks {
		occ := occupants[b.ID]
		if len(occ) < 2 {
			continue
		}
		minGrade, maxGrade := occ[0].Grade, occ[0].Grade
		for _, c := range occ[1:] {
			if c.Grade < minGrade {
				minGrade = c.Grade
			}
			if c.Grade > maxGrade {
				maxGrade = c.Grade
			}
		}
		if maxGrade-minGrade > in.Thresholds.SpreadThreshold {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityWarning,
				Category: CategorySpreadExceeded,
				Message: fmt.Sprintf("bunk %s spans grades %d-%d, wider than the allowed gap of %d",
					b.Name, minGrade, maxGrade, in.Thresholds.SpreadThreshold),
				BunkID: b.ID,
			})
		}
	}
}

// checkFriendGroups measures how much of each declared friend group shares a
// single bunk, reporting groups that are split.
func checkFriendGroups(in Input, bunkOf map[string]string, report *Report) {
	groups := make(map[string][]model.Camper)
	for _, c := range in.Campers {
		if c.GroupKey != "" {
			groups[c.GroupKey] = append(groups[c.GroupKey], c)
		}
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		report.Stats.FriendGroups++

		counts := make(map[string]int)
		for _, c := range members {
			if bunkID := bunkOf[c.ID]; bunkID != "" {
				counts[bunkID]++
			}
		}
		largest := 0
		for _, n := range counts {
			if n > largest {
				largest = n
			}
		}

		if largest == len(members) {
			report.Stats.IntactFriendGroups++
			continue
		}

		ids := make([]string, 0, len(members))
		for _, c := range members {
			ids = append(ids, c.ID)
		}
		sort.Strings(ids)

		fraction := float64(largest) / float64(len(members))
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityWarning,
			Category:  CategoryFriendGroupSplit,
			Message:   fmt.Sprintf("friend group %q is split: %d of %d members share the largest bunk (%.0f%%)", key, largest, len(members), fraction*100),
			CamperIDs: ids,
		})
	}
}

// finalize orders the issue list deterministically and fills the derived
// statistics.
func finalize(report *Report) {
	rank := map[Severity]int{SeverityError: 0, SeverityWarning: 1, SeverityInfo: 2}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		a, b := report.Issues[i], report.Issues[j]
		if rank[a.Severity] != rank[b.Severity] {
			return rank[a.Severity] < rank[b.Severity]
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.BunkID != b.BunkID {
			return a.BunkID < b.BunkID
		}
		return a.Message < b.Message
	})

	for _, issue := range report.Issues {
		switch issue.Severity {
		case SeverityError:
			report.Stats.Errors++
		case SeverityWarning:
			report.Stats.Warnings++
		case SeverityInfo:
			report.Stats.Infos++
		}
	}

	if report.Stats.PositiveRequests == 0 {
		report.Stats.SatisfactionRate = 1.0
	} else {
		report.Stats.SatisfactionRate = float64(report.Stats.PositiveSatisfied) / float64(report.Stats.PositiveRequests)
	}
}

func displayName(c model.Camper) string {
	if c.FirstName == "" && c.LastName == "" {
		return c.ID
	}
	return c.FirstName + " " + c.LastName
}
