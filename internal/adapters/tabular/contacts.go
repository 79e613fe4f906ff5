package tabular

import (
	"errors"

	"github.com/oradba/solahist/internal/domain/model"
)

// contactColumns declares the contacts sheet schema. The active flag is
// the only hard requirement; identity may come from an explicit id or
// from name columns.
var contactColumns = []Column{
	{Name: "runner_id", Aliases: []string{"id", "runner"}},
	{Name: "first_name", Aliases: []string{"firstname", "vorname"}},
	{Name: "last_name", Aliases: []string{"lastname", "nachname"}},
	{Name: "email", Aliases: []string{"mail", "e_mail"}},
	{Name: "mobile", Aliases: []string{"phone", "mobile_number", "telefon"}},
	{Name: "company", Aliases: []string{"firma"}},
	{Name: "external", Aliases: []string{"is_external", "extern"}},
	{Name: "active", Required: true, Aliases: []string{"is_active", "aktiv"}},
}

// LoadContacts reads the contacts table into typed rows.
func LoadContacts(path, sheet string) ([]model.ContactRow, *Report, error) {
	t, err := ReadTable(path, sheet)
	if err != nil {
		return nil, nil, err
	}

	b, err := t.bind(contactColumns)
	if err != nil {
		return nil, nil, err
	}

	rep := &Report{}
	var rows []model.ContactRow
	for i, rec := range t.Records {
		rowNum := t.RowNum(i)

		row := model.ContactRow{
			SourceRow: rowNum,
			RunnerID:  b.cell(rec, "runner_id"),
			FirstName: b.cell(rec, "first_name"),
			LastName:  b.cell(rec, "last_name"),
			Email:     b.cell(rec, "email"),
			Mobile:    b.cell(rec, "mobile"),
			Company:   b.cell(rec, "company"),
		}
		if row.RunnerID == "" && row.FirstName == "" && row.LastName == "" && row.Email == "" {
			rep.SkippedBlank++
			continue
		}
		if row.RunnerID == "" && (row.FirstName == "" || row.LastName == "") {
			rep.RowErrors = append(rep.RowErrors, RowError{Row: rowNum, Err: errors.New("no runner_id and incomplete name")})
			continue
		}

		var convErr error
		if row.External, convErr = b.boolCell(rec, "external"); convErr == nil {
			row.Active, convErr = b.boolCell(rec, "active")
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
