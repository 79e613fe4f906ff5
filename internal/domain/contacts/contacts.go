// Package contacts overlays the contacts sheet onto runner records.
//
// Join key is the explicit runner id column when the source has one,
// otherwise the id the identity resolver derives from the contact's name
// fields. Fields present in a contact row always overwrite the
// race-derived defaults. A contact with no race history is kept as an
// orphan runner when marked active, otherwise dropped with a warning.
package contacts

import (
	"fmt"

	"github.com/oradba/solahist/internal/domain/model"
)

// IDResolver supplies the fallback join key for rows without an id.
type IDResolver interface {
	ResolveContact(first, last string) (string, error)
}

// Report summarizes one merge for the run log.
type Report struct {
	Matched        int
	OrphansKept    int
	OrphansDropped int
	Rejected       int
	Warnings       []string
}

// Merge applies contact rows to the runner set, returning the merged
// runners. Runners without a contact row pass through untouched; order
// of existing runners is preserved and orphans append in source order.
func Merge(runners []model.Runner, rows []model.ContactRow, resolver IDResolver) ([]model.Runner, Report) {
	var rep Report

	byID := make(map[string]int, len(runners))
	out := make([]model.Runner, len(runners))
	copy(out, runners)
	for i, r := range out {
		byID[r.ID] = i
	}

	for _, row := range rows {
		id := row.RunnerID
		if id == "" {
			resolved, err := resolver.ResolveContact(row.FirstName, row.LastName)
			if err != nil {
				rep.Rejected++
				rep.Warnings = append(rep.Warnings,
					fmt.Sprintf("contacts row %d: unusable name %q %q", row.SourceRow, row.FirstName, row.LastName))
				continue
			}
			id = resolved
		}

		if i, ok := byID[id]; ok {
			apply(&out[i], row)
			rep.Matched++
			continue
		}

		if !row.Active {
			rep.OrphansDropped++
			rep.Warnings = append(rep.Warnings,
				fmt.Sprintf("contacts row %d: no race history for %q, inactive, dropped", row.SourceRow, id))
			continue
		}

		// Active contact without race history: someone on the roster
		// who has not run yet.
		orphan := model.Runner{
			ID:        id,
			FirstName: row.FirstName,
			LastName:  row.LastName,
		}
		apply(&orphan, row)
		byID[id] = len(out)
		out = append(out, orphan)
		rep.OrphansKept++
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("contacts row %d: no race history for %q, active, kept", row.SourceRow, id))
	}

	return out, rep
}

// apply overwrites runner fields the contact row carries. String fields
// count as present when non-empty; the two flags always come from the
// contacts source, which owns them.
func apply(r *model.Runner, row model.ContactRow) {
	if row.Email != "" {
		r.Email = row.Email
	}
	if row.Mobile != "" {
		r.Mobile = row.Mobile
	}
	if row.Company != "" {
		r.Company = row.Company
	}
	r.IsExternal = row.External
	r.Active = row.Active
}
