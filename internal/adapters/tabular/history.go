package tabular

import (
	"fmt"

	"github.com/oradba/solahist/internal/domain/model"
)

// historyColumns declares the race history sheet schema.
var historyColumns = []Column{
	{Name: "year", Required: true, Aliases: []string{"jahr"}},
	{Name: "team", Required: true, Aliases: []string{"team_name", "teamname"}},
	{Name: "leg", Required: true, Aliases: []string{"leg_number", "stage", "strecke"}},
	{Name: "first_name", Required: true, Aliases: []string{"firstname", "vorname"}},
	{Name: "last_name", Required: true, Aliases: []string{"lastname", "nachname"}},
	{Name: "time", Required: true, Aliases: []string{"leg_time", "zeit"}},
	{Name: "distance", Required: true, Aliases: []string{"distance_km", "km", "distanz"}},
	{Name: "bib", Aliases: []string{"bib_number", "startnummer"}},
	{Name: "leg_name", Aliases: []string{"stage_name", "streckenname"}},
	{Name: "date", Aliases: []string{"race_date", "datum"}},
}

// RowError records one excluded row and why.
type RowError struct {
	Row int
	Err error
}

func (e RowError) String() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

// Report summarizes one sheet load.
type Report struct {
	Loaded       int
	SkippedBlank int
	RowErrors    []RowError
}

// LoadHistory reads the race history table into typed rows, preserving
// source order. Rows with blank key fields are skipped and counted;
// rows with unparsable numeric cells become row errors and are
// excluded.
func LoadHistory(path, sheet string) ([]model.HistoryRow, *Report, error) {
	t, err := ReadTable(path, sheet)
	if err != nil {
		return nil, nil, err
	}

	b, err := t.bind(historyColumns)
	if err != nil {
		return nil, nil, err
	}

	rep := &Report{}
	var rows []model.HistoryRow
	for i, rec := range t.Records {
		rowNum := t.RowNum(i)

		year := b.cell(rec, "year")
		team := b.cell(rec, "team")
		first := b.cell(rec, "first_name")
		last := b.cell(rec, "last_name")
		if year == "" && team == "" && first == "" && last == "" {
			rep.SkippedBlank++
			continue
		}
		if col := b.firstBlankRequired(rec); col != "" {
			rep.RowErrors = append(rep.RowErrors, RowError{Row: rowNum, Err: fmt.Errorf("column %q: empty value", col)})
			continue
		}

		row := model.HistoryRow{
			SourceRow: rowNum,
			TeamName:  team,
			LegName:   b.cell(rec, "leg_name"),
			FirstName: first,
			LastName:  last,
			LegTime:   b.cell(rec, "time"),
			RaceDate:  b.cell(rec, "date"),
		}

		var convErr error
		if row.Year, convErr = b.intCell(rec, "year"); convErr == nil {
			if row.LegNumber, convErr = b.intCell(rec, "leg"); convErr == nil {
				if row.BibNumber, convErr = b.intCell(rec, "bib"); convErr == nil {
					row.DistanceKM, convErr = b.floatCell(rec, "distance")
				}
			}
		}
		if convErr != nil {
			rep.RowErrors = append(rep.RowErrors, RowError{Row: rowNum, Err: convErr})
			continue
		}

		rows = append(rows, row)
		rep.Loaded++
	}
	return rows, rep, nil
}
