// Package schema validates the fully assembled entity set before
// emission. All violations are collected so one run reports every
// structural problem at once; any violation blocks emission entirely.
package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/oradba/solahist/internal/domain/model"
)

// ErrSchema wraps any validation failure for errors.Is checks.
var ErrSchema = errors.New("schema validation failed")

// Violation describes one failed constraint.
type Violation struct {
	Collection string
	ID         string
	Message    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s[%s]: %s", v.Collection, v.ID, v.Message)
}

// Validate checks referential integrity and range constraints over the
// dataset and returns every violation found.
func Validate(ds *model.Dataset) []Violation {
	var vs []Violation
	add := func(collection, id, format string, args ...interface{}) {
		vs = append(vs, Violation{Collection: collection, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	races := make(map[string]model.Race, len(ds.Races))
	years := make(map[int]string)
	for _, r := range ds.Races {
		if _, dup := races[r.ID]; dup {
			add("races", r.ID, "duplicate race id")
		}
		races[r.ID] = r
		if r.Year < 1 {
			add("races", r.ID, "year %d below 1", r.Year)
		}
		if prev, dup := years[r.Year]; dup {
			add("races", r.ID, "year %d already covered by %s", r.Year, prev)
		}
		years[r.Year] = r.ID
	}

	legs := make(map[string]model.Leg, len(ds.Legs))
	legNumbers := make(map[string][]int)
	for _, l := range ds.Legs {
		if _, dup := legs[l.ID]; dup {
			add("legs", l.ID, "duplicate leg id")
		}
		legs[l.ID] = l
		if _, ok := races[l.RaceID]; !ok {
			add("legs", l.ID, "unknown race_id %q", l.RaceID)
		}
		if l.LegNumber < 1 {
			add("legs", l.ID, "leg_number %d below 1", l.LegNumber)
		}
		if l.DistanceKM <= 0 {
			add("legs", l.ID, "distance_km %v not positive", l.DistanceKM)
		}
		legNumbers[l.RaceID] = append(legNumbers[l.RaceID], l.LegNumber)
	}
	for raceID, nums := range legNumbers {
		sort.Ints(nums)
		for i, n := range nums {
			if n != i+1 {
				add("legs", raceID, "leg numbers not contiguous: want %d, have %d", i+1, n)
				break
			}
		}
	}

	teams := make(map[string]model.Team, len(ds.Teams))
	for _, t := range ds.Teams {
		if _, dup := teams[t.ID]; dup {
			add("teams", t.ID, "duplicate team id")
		}
		teams[t.ID] = t
		race, ok := races[t.RaceID]
		if !ok {
			add("teams", t.ID, "unknown race_id %q", t.RaceID)
		} else if t.Year != race.Year {
			add("teams", t.ID, "year %d does not match race year %d", t.Year, race.Year)
		}
		if t.Name == "" {
			add("teams", t.ID, "empty team name")
		}
	}

	runners := make(map[string]struct{}, len(ds.Runners))
	for _, r := range ds.Runners {
		if _, dup := runners[r.ID]; dup {
			add("runners", r.ID, "duplicate runner id")
		}
		runners[r.ID] = struct{}{}
		if r.ID == "" {
			add("runners", r.ID, "empty runner id")
		}
	}

	resultIDs := make(map[string]struct{}, len(ds.Results))
	for _, res := range ds.Results {
		if _, dup := resultIDs[res.ID]; dup {
			add("results", res.ID, "duplicate result id")
		}
		resultIDs[res.ID] = struct{}{}
		if _, ok := runners[res.RunnerID]; !ok {
			add("results", res.ID, "unknown runner_id %q", res.RunnerID)
		}
		if _, ok := teams[res.TeamID]; !ok {
			add("results", res.ID, "unknown team_id %q", res.TeamID)
		}
		if _, ok := legs[res.LegID]; !ok {
			add("results", res.ID, "unknown leg_id %q", res.LegID)
		}
		if _, ok := races[res.RaceID]; !ok {
			add("results", res.ID, "unknown race_id %q", res.RaceID)
		}
		if res.TimeSeconds <= 0 {
			add("results", res.ID, "time_seconds %d not positive", res.TimeSeconds)
		}
		if res.PaceSecPerKM <= 0 {
			add("results", res.ID, "pace_sec_per_km %d not positive", res.PaceSecPerKM)
		}
	}

	prevCum := make(map[string]int64)
	prevLeg := make(map[string]int)
	ordered := make([]model.TeamStanding, len(ds.Standings))
	copy(ordered, ds.Standings)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].TeamID != ordered[j].TeamID {
			return ordered[i].TeamID < ordered[j].TeamID
		}
		return ordered[i].LegNumber < ordered[j].LegNumber
	})
	for _, st := range ordered {
		key := st.TeamID
		if _, ok := teams[st.TeamID]; !ok {
			add("team_standings", st.TeamID, "unknown team_id")
		}
		if _, ok := legs[st.LegID]; !ok {
			add("team_standings", st.TeamID, "unknown leg_id %q", st.LegID)
		}
		if st.CumulativeRank < 1 {
			add("team_standings", st.TeamID, "cumulative_rank %d below 1 at leg %d", st.CumulativeRank, st.LegNumber)
		}
		if prev, ok := prevCum[key]; ok && prevLeg[key] < st.LegNumber && st.CumulativeTimeSeconds < prev {
			add("team_standings", st.TeamID, "cumulative time decreased at leg %d", st.LegNumber)
		}
		prevCum[key] = st.CumulativeTimeSeconds
		prevLeg[key] = st.LegNumber
	}

	return vs
}
