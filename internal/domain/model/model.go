// Package model contains domain models passed between pipeline stages.
package model

// HistoryRow is one typed row from the race history source, one per
// runner-leg-year. LegTime stays raw; the metric stage owns its
// interpretation.
type HistoryRow struct {
	SourceRow  int     // 1-based physical row in the source sheet
	Year       int
	TeamName   string
	BibNumber  int     // 0 when the source has no bib column
	LegNumber  int
	LegName    string  // optional stage name
	FirstName  string
	LastName   string
	LegTime    string  // raw time cell: clock string, day fraction, or seconds
	DistanceKM float64
	RaceDate   string  // optional ISO date of the race day
}

// ContactRow is one typed row from the contacts source.
type ContactRow struct {
	SourceRow int
	RunnerID  string // explicit id column; empty when the source only has names
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Company   string
	External  bool
	Active    bool
}

// Runner is a canonical runner profile. The id is a pure function of the
// normalized name plus collision order.
type Runner struct {
	ID         string `json:"runner_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company,omitempty"`
	IsExternal bool   `json:"is_external"`
	Active     bool   `json:"active"`
	Email      string `json:"email,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
}

// Race is one edition of the relay, one per distinct source year.
type Race struct {
	ID        string `json:"race_id"`
	Year      int    `json:"year"`
	Date      string `json:"date,omitempty"`
	EventName string `json:"event_name"`
	NumTeams  int    `json:"num_teams"`
}

// Leg is one stage of a race. Legs are race-scoped because distances
// change between editions.
type Leg struct {
	ID         string  `json:"leg_id"`
	RaceID     string  `json:"race_id"`
	LegNumber  int     `json:"leg_number"`
	Name       string  `json:"name,omitempty"`
	DistanceKM float64 `json:"distance_km"`
}

// Team is a participating team. Team names are only unique within a
// year, so the id is race-scoped. Final rank/time/pace are filled by the
// aggregator from the last leg boundary.
type Team struct {
	ID                string `json:"team_id"`
	RaceID            string `json:"race_id"`
	Name              string `json:"name"`
	Year              int    `json:"year"`
	BibNumber         int    `json:"bib_number,omitempty"`
	RankFinal         int    `json:"rank_final,omitempty"`
	TimeFinalSeconds  int64  `json:"time_final_seconds,omitempty"`
	PaceFinalSecPerKM int64  `json:"pace_final_sec_per_km,omitempty"`
}

// Result is one runner's run of one leg in one year.
type Result struct {
	ID           string `json:"result_id"`
	RunnerID     string `json:"runner_id"`
	TeamID       string `json:"team_id"`
	LegID        string `json:"leg_id"`
	RaceID       string `json:"race_id"`
	TimeSeconds  int64  `json:"time_seconds"`
	PaceSecPerKM int64  `json:"pace_sec_per_km"`
	LegRank      int    `json:"leg_rank"`
}

// TeamStanding is a team's cumulative state at one leg boundary.
// DNS marks a boundary where the team had no result; the cumulative
// carries over unchanged and the team is still ranked.
type TeamStanding struct {
	TeamID                string `json:"team_id"`
	RaceID                string `json:"race_id"`
	LegID                 string `json:"leg_id"`
	LegNumber             int    `json:"leg_number"`
	CumulativeTimeSeconds int64  `json:"cumulative_time_seconds"`
	CumulativeRank        int    `json:"cumulative_rank"`
	DNS                   bool   `json:"dns"`
}

// Dataset is the fully assembled entity set of one pipeline run.
type Dataset struct {
	Runners   []Runner
	Races     []Race
	Legs      []Leg
	Teams     []Team
	Results   []Result
	Standings []TeamStanding
}
