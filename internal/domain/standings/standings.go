// Package standings turns per-leg results into cumulative team
// standings and ranks.
//
// Ranking rules, applied uniformly:
//   - Individual leg rank: competition ranking by time ascending within
//     one (race, leg); equal times share a rank.
//   - Cumulative team rank: a strict total order per leg boundary by
//     cumulative time ascending, ties broken by team name ascending,
//     then team id ascending.
//   - A team without a result at a boundary is DNS: it contributes no
//     time, keeps its previous cumulative, is flagged, and stays in the
//     ranking. A team that has not completed any leg yet ranks behind
//     every team with elapsed time.
package standings

import (
	"sort"

	"github.com/oradba/solahist/internal/domain/metric"
	"github.com/oradba/solahist/internal/domain/model"
)

// Aggregator computes standings for one assembled entity set.
type Aggregator struct{}

// New creates an Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// RankLegResults fills Result.LegRank in place for every (race, leg)
// group.
func (a *Aggregator) RankLegResults(results []model.Result) {
	groups := make(map[string][]int)
	for i, res := range results {
		key := res.RaceID + "|" + res.LegID
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		sort.Slice(idxs, func(x, y int) bool {
			rx, ry := results[idxs[x]], results[idxs[y]]
			if rx.TimeSeconds != ry.TimeSeconds {
				return rx.TimeSeconds < ry.TimeSeconds
			}
			return rx.RunnerID < ry.RunnerID
		})

		rank := 0
		var prev int64 = -1
		for pos, i := range idxs {
			if results[i].TimeSeconds != prev {
				rank = pos + 1
				prev = results[i].TimeSeconds
			}
			results[i].LegRank = rank
		}
	}
}

// Build computes one TeamStanding per (team, leg boundary) and fills
// each team's final rank, time and pace in place. Legs and teams may
// span several races; grouping is by race id.
func (a *Aggregator) Build(legs []model.Leg, teams []model.Team, results []model.Result) []model.TeamStanding {
	legsByRace := make(map[string][]model.Leg)
	for _, leg := range legs {
		legsByRace[leg.RaceID] = append(legsByRace[leg.RaceID], leg)
	}
	for _, rl := range legsByRace {
		sort.Slice(rl, func(i, j int) bool { return rl[i].LegNumber < rl[j].LegNumber })
	}

	teamIdxByRace := make(map[string][]int)
	for i, t := range teams {
		teamIdxByRace[t.RaceID] = append(teamIdxByRace[t.RaceID], i)
	}

	// legTime[teamID][legID] = that team's leg time.
	legTime := make(map[string]map[string]int64)
	for _, res := range results {
		m := legTime[res.TeamID]
		if m == nil {
			m = make(map[string]int64)
			legTime[res.TeamID] = m
		}
		m[res.LegID] = res.TimeSeconds
	}

	raceIDs := make([]string, 0, len(legsByRace))
	for id := range legsByRace {
		raceIDs = append(raceIDs, id)
	}
	sort.Strings(raceIDs)

	var out []model.TeamStanding
	for _, raceID := range raceIDs {
		out = append(out, a.buildRace(raceID, legsByRace[raceID], teams, teamIdxByRace[raceID], legTime)...)
	}
	return out
}

// cumState tracks one team's running total while walking leg boundaries.
type cumState struct {
	teamIdx   int
	cum       int64
	completed int
	dns       bool // at the current boundary
}

func (a *Aggregator) buildRace(raceID string, legs []model.Leg, teams []model.Team, teamIdxs []int, legTime map[string]map[string]int64) []model.TeamStanding {
	states := make([]*cumState, 0, len(teamIdxs))
	for _, i := range teamIdxs {
		states = append(states, &cumState{teamIdx: i})
	}

	var totalKM float64
	for _, leg := range legs {
		totalKM += leg.DistanceKM
	}

	var out []model.TeamStanding
	for _, leg := range legs {
		for _, st := range states {
			team := teams[st.teamIdx]
			if t, ok := legTime[team.ID][leg.ID]; ok {
				st.cum += t
				st.completed++
				st.dns = false
			} else {
				st.dns = true
			}
		}

		ranked := make([]*cumState, len(states))
		copy(ranked, states)
		sort.Slice(ranked, func(x, y int) bool {
			sx, sy := ranked[x], ranked[y]
			// Teams that have not run at all sort behind everyone.
			if (sx.completed == 0) != (sy.completed == 0) {
				return sy.completed == 0
			}
			if sx.cum != sy.cum {
				return sx.cum < sy.cum
			}
			tx, ty := teams[sx.teamIdx], teams[sy.teamIdx]
			if tx.Name != ty.Name {
				return tx.Name < ty.Name
			}
			return tx.ID < ty.ID
		})

		for pos, st := range ranked {
			team := teams[st.teamIdx]
			out = append(out, model.TeamStanding{
				TeamID:                team.ID,
				RaceID:                raceID,
				LegID:                 leg.ID,
				LegNumber:             leg.LegNumber,
				CumulativeTimeSeconds: st.cum,
				CumulativeRank:        pos + 1,
				DNS:                   st.dns,
			})

			if leg.LegNumber == legs[len(legs)-1].LegNumber && st.completed > 0 {
				teams[st.teamIdx].RankFinal = pos + 1
				teams[st.teamIdx].TimeFinalSeconds = st.cum
				if totalKM > 0 && st.completed == len(legs) {
					teams[st.teamIdx].PaceFinalSecPerKM = metric.Pace(st.cum, totalKM)
				}
			}
		}
	}
	return out
}
