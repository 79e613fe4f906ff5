package schema_test

import (
	"testing"

	"github.com/oradba/solahist/internal/domain/model"
	"github.com/oradba/solahist/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func validDataset() *model.Dataset {
	return &model.Dataset{
		Runners: []model.Runner{{ID: "anna.mueller", FirstName: "Anna", LastName: "Müller"}},
		Races:   []model.Race{{ID: "sola-2024", Year: 2024, EventName: "SOLA"}},
		Legs: []model.Leg{
			{ID: "sola-2024-leg-01", RaceID: "sola-2024", LegNumber: 1, DistanceKM: 5.0},
			{ID: "sola-2024-leg-02", RaceID: "sola-2024", LegNumber: 2, DistanceKM: 7.5},
		},
		Teams: []model.Team{{ID: "sola-2024-team-001", RaceID: "sola-2024", Name: "Falcons", Year: 2024}},
		Results: []model.Result{{
			ID: "res-1", RunnerID: "anna.mueller", TeamID: "sola-2024-team-001",
			LegID: "sola-2024-leg-01", RaceID: "sola-2024",
			TimeSeconds: 1330, PaceSecPerKM: 266, LegRank: 1,
		}},
		Standings: []model.TeamStanding{
			{TeamID: "sola-2024-team-001", RaceID: "sola-2024", LegID: "sola-2024-leg-01", LegNumber: 1, CumulativeTimeSeconds: 1330, CumulativeRank: 1},
			{TeamID: "sola-2024-team-001", RaceID: "sola-2024", LegID: "sola-2024-leg-02", LegNumber: 2, CumulativeTimeSeconds: 1330, CumulativeRank: 1, DNS: true},
		},
	}
}

func TestValidate(t *testing.T) {
	Convey("Given a fully consistent dataset", t, func() {
		ds := validDataset()

		Convey("Then validation reports nothing", func() {
			So(schema.Validate(ds), ShouldBeEmpty)
		})
	})

	Convey("Given referential breakage", t, func() {
		Convey("When a result references an unknown runner", func() {
			ds := validDataset()
			ds.Results[0].RunnerID = "ghost.runner"

			vs := schema.Validate(ds)

			So(len(vs), ShouldEqual, 1)
			So(vs[0].Collection, ShouldEqual, "results")
			So(vs[0].Message, ShouldContainSubstring, "unknown runner_id")
		})

		Convey("When a leg references an unknown race", func() {
			ds := validDataset()
			ds.Legs[0].RaceID = "sola-1999"

			vs := schema.Validate(ds)

			So(len(vs), ShouldBeGreaterThanOrEqualTo, 1)
			So(vs[0].Collection, ShouldEqual, "legs")
		})

		Convey("When every reference is broken at once", func() {
			ds := validDataset()
			ds.Results[0].RunnerID = "ghost"
			ds.Results[0].TeamID = "ghost"
			ds.Results[0].LegID = "ghost"
			ds.Results[0].RaceID = "ghost"

			Convey("Then all violations are collected", func() {
				So(len(schema.Validate(ds)), ShouldEqual, 4)
			})
		})
	})

	Convey("Given range and structure violations", t, func() {
		Convey("When a leg has zero distance", func() {
			ds := validDataset()
			ds.Legs[1].DistanceKM = 0

			vs := schema.Validate(ds)

			So(len(vs), ShouldEqual, 1)
			So(vs[0].Message, ShouldContainSubstring, "distance_km")
		})

		Convey("When leg numbers have a gap", func() {
			ds := validDataset()
			ds.Legs[1].LegNumber = 3

			vs := schema.Validate(ds)

			So(len(vs), ShouldEqual, 1)
			So(vs[0].Message, ShouldContainSubstring, "not contiguous")
		})

		Convey("When a race carries a zero year", func() {
			ds := validDataset()
			ds.Races[0].Year = 0
			ds.Teams[0].Year = 0

			vs := schema.Validate(ds)

			So(len(vs), ShouldEqual, 1)
			So(vs[0].Collection, ShouldEqual, "races")
			So(vs[0].Message, ShouldContainSubstring, "year 0")
		})

		Convey("When two races cover the same year", func() {
			ds := validDataset()
			ds.Races = append(ds.Races, model.Race{ID: "sola-2024b", Year: 2024, EventName: "SOLA"})

			vs := schema.Validate(ds)

			So(len(vs), ShouldEqual, 1)
			So(vs[0].Message, ShouldContainSubstring, "already covered")
		})

		Convey("When a result has a non-positive time", func() {
			ds := validDataset()
			ds.Results[0].TimeSeconds = 0

			vs := schema.Validate(ds)

			So(len(vs), ShouldEqual, 1)
			So(vs[0].Message, ShouldContainSubstring, "time_seconds")
		})

		Convey("When a team's year conflicts with its race", func() {
			ds := validDataset()
			ds.Teams[0].Year = 2023

			vs := schema.Validate(ds)

			So(len(vs), ShouldEqual, 1)
			So(vs[0].Message, ShouldContainSubstring, "does not match race year")
		})

		Convey("When a cumulative time decreases between boundaries", func() {
			ds := validDataset()
			ds.Standings[1].CumulativeTimeSeconds = 1000

			vs := schema.Validate(ds)

			So(len(vs), ShouldEqual, 1)
			So(vs[0].Message, ShouldContainSubstring, "decreased")
		})
	})
}
