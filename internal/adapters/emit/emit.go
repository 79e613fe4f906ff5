// Package emit serializes the entity collections to the output
// artifact: one JSON file per collection plus a manifest, written to a
// temporary directory and swapped into place so consumers never observe
// a partial artifact.
//
// Output is deterministic: collections are sorted by their keys and
// struct field order fixes the JSON field order, so re-running the
// pipeline on unchanged input produces byte-identical files.
package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/oradba/solahist/internal/domain/model"
)

// Collection file names, the contract with the reporting layer.
const (
	RunnersFile   = "runners.json"
	RacesFile     = "races.json"
	LegsFile      = "legs.json"
	TeamsFile     = "teams.json"
	ResultsFile   = "results.json"
	StandingsFile = "team_standings.json"
	ManifestFile  = "manifest.json"
)

// Manifest describes the emitted artifact. It carries no timestamps so
// identical input yields an identical manifest.
type Manifest struct {
	Collections []CollectionInfo `json:"collections"`
}

// CollectionInfo is one manifest entry.
type CollectionInfo struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Count int    `json:"count"`
}

// Emitter writes datasets to an output directory.
type Emitter struct {
	outDir string
}

// New creates an Emitter targeting outDir.
func New(outDir string) *Emitter {
	return &Emitter{outDir: outDir}
}

// Write emits the dataset. The previous artifact, if any, is replaced
// wholesale; on error the previous artifact stays untouched.
func (e *Emitter) Write(_ context.Context, ds *model.Dataset) error {
	sortDataset(ds)

	parent := filepath.Dir(filepath.Clean(e.outDir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrEmit, err)
	}
	tmp, err := os.MkdirTemp(parent, ".solahist-out-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmit, err)
	}
	defer os.RemoveAll(tmp)

	files := []struct {
		name  string
		file  string
		count int
		data  interface{}
	}{
		{"runners", RunnersFile, len(ds.Runners), ds.Runners},
		{"races", RacesFile, len(ds.Races), ds.Races},
		{"legs", LegsFile, len(ds.Legs), ds.Legs},
		{"teams", TeamsFile, len(ds.Teams), ds.Teams},
		{"results", ResultsFile, len(ds.Results), ds.Results},
		{"team_standings", StandingsFile, len(ds.Standings), ds.Standings},
	}

	manifest := Manifest{}
	for _, f := range files {
		if err := writeJSON(filepath.Join(tmp, f.file), f.data); err != nil {
			return err
		}
		manifest.Collections = append(manifest.Collections, CollectionInfo{
			Name: f.name, File: f.file, Count: f.count,
		})
	}
	if err := writeJSON(filepath.Join(tmp, ManifestFile), manifest); err != nil {
		return err
	}

	return e.swap(tmp)
}

// swap replaces the output directory with the freshly written one.
func (e *Emitter) swap(tmp string) error {
	old := e.outDir + ".old"
	if _, err := os.Stat(e.outDir); err == nil {
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("%w: %v", ErrEmit, err)
		}
		if err := os.Rename(e.outDir, old); err != nil {
			return fmt.Errorf("%w: %v", ErrEmit, err)
		}
	}
	if err := os.Rename(tmp, e.outDir); err != nil {
		// Try to restore the previous artifact.
		if _, statErr := os.Stat(old); statErr == nil {
			_ = os.Rename(old, e.outDir)
		}
		return fmt.Errorf("%w: %v", ErrEmit, err)
	}
	_ = os.RemoveAll(old)
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEmit, filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEmit, filepath.Base(path), err)
	}
	return nil
}

func sortDataset(ds *model.Dataset) {
	sort.Slice(ds.Runners, func(i, j int) bool { return ds.Runners[i].ID < ds.Runners[j].ID })
	sort.Slice(ds.Races, func(i, j int) bool { return ds.Races[i].ID < ds.Races[j].ID })
	sort.Slice(ds.Legs, func(i, j int) bool {
		if ds.Legs[i].RaceID != ds.Legs[j].RaceID {
			return ds.Legs[i].RaceID < ds.Legs[j].RaceID
		}
		return ds.Legs[i].LegNumber < ds.Legs[j].LegNumber
	})
	sort.Slice(ds.Teams, func(i, j int) bool { return ds.Teams[i].ID < ds.Teams[j].ID })
	sort.Slice(ds.Results, func(i, j int) bool { return ds.Results[i].ID < ds.Results[j].ID })
	sort.Slice(ds.Standings, func(i, j int) bool {
		si, sj := ds.Standings[i], ds.Standings[j]
		if si.RaceID != sj.RaceID {
			return si.RaceID < sj.RaceID
		}
		if si.LegNumber != sj.LegNumber {
			return si.LegNumber < sj.LegNumber
		}
		return si.TeamID < sj.TeamID
	})
}
