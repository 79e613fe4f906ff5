// Package overlay reads the externally maintained runner override file
// and applies it to runner records at read time.
//
// The overlay is owned by the consuming layer, not by the pipeline: a
// run never reads it while generating entities, and applying it never
// mutates the emitted artifact. The file is a JSON object keyed by
// runner_id whose values patch individual fields.
package overlay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oradba/solahist/internal/domain/model"
)

// Patch holds the overridable runner fields. Pointers distinguish
// "absent" from zero values.
type Patch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Company   *string `json:"company,omitempty"`
	Email     *string `json:"email,omitempty"`
	Mobile    *string `json:"mobile,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// Overrides maps runner_id to its patch.
type Overrides map[string]Patch

// Load reads the override file. A missing file is not an error: the
// pipeline and its consumers must work without any overrides.
func Load(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Overrides{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read overrides %s: %w", path, err)
	}

	var ov Overrides
	if err := json.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return ov, nil
}

// Apply returns a patched copy of the runner slice. Override keys that
// match no runner are ignored; the input slice is never modified.
func (ov Overrides) Apply(runners []model.Runner) []model.Runner {
	out := make([]model.Runner, len(runners))
	copy(out, runners)
	if len(ov) == 0 {
		return out
	}

	for i := range out {
		p, ok := ov[out[i].ID]
		if !ok {
			continue
		}
		if p.FirstName != nil {
			out[i].FirstName = *p.FirstName
		}
		if p.LastName != nil {
			out[i].LastName = *p.LastName
		}
		if p.Company != nil {
			out[i].Company = *p.Company
		}
		if p.Email != nil {
			out[i].Email = *p.Email
		}
		if p.Mobile != nil {
			out[i].Mobile = *p.Mobile
		}
		if p.Active != nil {
			out[i].Active = *p.Active
		}
	}
	return out
}
