package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oradba/solahist/internal/adapters/tabular"
	"github.com/oradba/solahist/internal/domain/contacts"
	"github.com/oradba/solahist/internal/domain/identity"
	"github.com/oradba/solahist/internal/domain/metric"
	"github.com/oradba/solahist/internal/domain/model"
	"github.com/oradba/solahist/pkg/logger"
)

// resultNamespace seeds deterministic UUIDv5 result ids so re-runs over
// identical input emit identical ids.
var resultNamespace = uuid.MustParse("8f3c6c2a-5d0e-49b8-9d6a-0f6f2f1d4a11")

// assemble walks the history rows in source order and builds races,
// legs, teams, runners and results. The identity resolver and the
// metric deriver live only for this pass, so every run starts clean.
func (p *Pipeline) assemble(ctx context.Context, rows []model.HistoryRow) (*model.Dataset, error) {
	resolver := identity.NewResolver()
	deriver := metric.NewDeriver(metric.WithMaxLegSeconds(p.maxLegSeconds))

	ds := &model.Dataset{}
	raceIdx := make(map[int]int)           // year -> index into ds.Races
	legIdx := make(map[string]int)         // raceID|legNumber -> index into ds.Legs
	teamIdx := make(map[string]int)        // raceID|teamName -> index into ds.Teams
	runnerIdx := make(map[string]int)      // runnerID -> index into ds.Runners
	teamsPerRace := make(map[string]int)   // raceID -> ordinal counter
	resultSeen := make(map[string]bool)    // resultID -> dedupe guard

	p.resolver = resolver

	for _, row := range rows {
		race := p.ensureRace(ds, raceIdx, row)
		leg := p.ensureLeg(ctx, ds, legIdx, race, row)
		team := p.ensureTeam(ds, teamIdx, teamsPerRace, race, row)

		res, err := resolver.ResolveHistory(row.Year, row.TeamName, row.FirstName, row.LastName)
		if err != nil {
			if errors.Is(err, identity.ErrBlankName) {
				p.run.RowRejected("blank_name")
				p.log.Warn(ctx, "row excluded: blank name after normalization",
					logger.Int("row", row.SourceRow),
					logger.String("first_name", row.FirstName),
					logger.String("last_name", row.LastName))
				continue
			}
			return nil, err
		}
		if res.Collision {
			p.run.Collision()
			p.log.Info(ctx, "identity collision disambiguated",
				logger.String("runner_id", res.ID), logger.Int("row", row.SourceRow))
		}
		if _, ok := runnerIdx[res.ID]; !ok {
			runnerIdx[res.ID] = len(ds.Runners)
			ds.Runners = append(ds.Runners, model.Runner{
				ID:        res.ID,
				FirstName: row.FirstName,
				LastName:  row.LastName,
			})
		}

		timeSec, pace, err := deriver.Derive(row.LegTime, ds.Legs[leg].DistanceKM)
		if err != nil {
			if errors.Is(err, metric.ErrInvalidDistance) {
				// Structural: the leg definition is broken, not the row.
				return nil, fmt.Errorf("leg %s (race %s): %w", ds.Legs[leg].ID, ds.Races[race].ID, err)
			}
			p.run.RowRejected("bad_time")
			p.log.Warn(ctx, "row excluded: bad time value",
				logger.Int("row", row.SourceRow),
				logger.String("value", row.LegTime), logger.Error(err))
			continue
		}

		resultID := uuid.NewSHA1(resultNamespace,
			[]byte(ds.Races[race].ID+"|"+ds.Legs[leg].ID+"|"+ds.Teams[team].ID+"|"+res.ID)).String()
		if resultSeen[resultID] {
			p.run.RowRejected("duplicate_result")
			p.log.Warn(ctx, "row excluded: duplicate result", logger.Int("row", row.SourceRow))
			continue
		}
		resultSeen[resultID] = true

		ds.Results = append(ds.Results, model.Result{
			ID:           resultID,
			RunnerID:     res.ID,
			TeamID:       ds.Teams[team].ID,
			LegID:        ds.Legs[leg].ID,
			RaceID:       ds.Races[race].ID,
			TimeSeconds:  timeSec,
			PaceSecPerKM: pace,
		})
	}

	for i := range ds.Races {
		ds.Races[i].NumTeams = teamsPerRace[ds.Races[i].ID]
	}
	return ds, nil
}

func (p *Pipeline) ensureRace(ds *model.Dataset, raceIdx map[int]int, row model.HistoryRow) int {
	if i, ok := raceIdx[row.Year]; ok {
		if ds.Races[i].Date == "" && row.RaceDate != "" {
			ds.Races[i].Date = row.RaceDate
		}
		return i
	}
	i := len(ds.Races)
	raceIdx[row.Year] = i
	ds.Races = append(ds.Races, model.Race{
		ID:        fmt.Sprintf("sola-%d", row.Year),
		Year:      row.Year,
		Date:      row.RaceDate,
		EventName: p.eventName,
	})
	return i
}

func (p *Pipeline) ensureLeg(ctx context.Context, ds *model.Dataset, legIdx map[string]int, race int, row model.HistoryRow) int {
	raceID := ds.Races[race].ID
	key := fmt.Sprintf("%s|%d", raceID, row.LegNumber)
	if i, ok := legIdx[key]; ok {
		if row.DistanceKM > 0 && ds.Legs[i].DistanceKM > 0 && row.DistanceKM != ds.Legs[i].DistanceKM {
			p.log.Warn(ctx, "conflicting leg distance, keeping first",
				logger.String("leg_id", ds.Legs[i].ID),
				logger.Float64("kept", ds.Legs[i].DistanceKM),
				logger.Float64("ignored", row.DistanceKM))
		}
		if ds.Legs[i].Name == "" && row.LegName != "" {
			ds.Legs[i].Name = row.LegName
		}
		return i
	}
	i := len(ds.Legs)
	legIdx[key] = i
	ds.Legs = append(ds.Legs, model.Leg{
		ID:         fmt.Sprintf("%s-leg-%02d", raceID, row.LegNumber),
		RaceID:     raceID,
		LegNumber:  row.LegNumber,
		Name:       row.LegName,
		DistanceKM: row.DistanceKM,
	})
	return i
}

func (p *Pipeline) ensureTeam(ds *model.Dataset, teamIdx map[string]int, teamsPerRace map[string]int, race int, row model.HistoryRow) int {
	raceID := ds.Races[race].ID
	key := raceID + "|" + row.TeamName
	if i, ok := teamIdx[key]; ok {
		return i
	}

	// Ids follow first-appearance order. The bib column is optional, so
	// a bib is data on the team record, never part of its id.
	teamsPerRace[raceID]++
	i := len(ds.Teams)
	teamIdx[key] = i
	ds.Teams = append(ds.Teams, model.Team{
		ID:        fmt.Sprintf("%s-team-%03d", raceID, teamsPerRace[raceID]),
		RaceID:    raceID,
		Name:      row.TeamName,
		Year:      ds.Races[race].Year,
		BibNumber: row.BibNumber,
	})
	return i
}

// mergeContacts loads the contacts source and overlays it on the
// runner set built from race history.
func (p *Pipeline) mergeContacts(ctx context.Context, ds *model.Dataset) error {
	rows, rep, err := tabular.LoadContacts(p.contactsPath, p.contactsSheet)
	if err != nil {
		return err
	}
	p.recordLoad(ctx, "contacts", rep)

	merged, mrep := contacts.Merge(ds.Runners, rows, p.resolver)
	ds.Runners = merged

	p.run.OrphansKept(mrep.OrphansKept)
	p.run.OrphansDropped(mrep.OrphansDropped)
	p.run.RowsRejected("bad_contact", mrep.Rejected)
	for _, w := range mrep.Warnings {
		p.log.Warn(ctx, "contact merge", logger.String("detail", w))
	}
	p.log.Info(ctx, "contacts merged",
		logger.Int("matched", mrep.Matched),
		logger.Int("orphans_kept", mrep.OrphansKept),
		logger.Int("orphans_dropped", mrep.OrphansDropped))
	return nil
}
