package tabular_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oradba/solahist/internal/adapters/tabular"
	. "github.com/smartystreets/goconvey/convey"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadHistory(t *testing.T) {
	Convey("Given a well-formed history CSV", t, func() {
		path := writeCSV(t, "history.csv",
			"Year,Team,Leg,First Name,Last Name,Time,Distance\n"+
				"2024,Falcons,1,Anna,Müller,00:22:10,5.0\n"+
				"2024,Falcons,2,Beat,Frei,00:20:00,5.0\n")

		rows, rep, err := tabular.LoadHistory(path, "")

		Convey("Then every data row loads in source order", func() {
			So(err, ShouldBeNil)
			So(rep.Loaded, ShouldEqual, 2)
			So(len(rows), ShouldEqual, 2)
			So(rows[0].SourceRow, ShouldEqual, 2)
			So(rows[0].TeamName, ShouldEqual, "Falcons")
			So(rows[0].LegTime, ShouldEqual, "00:22:10")
			So(rows[0].DistanceKM, ShouldEqual, 5.0)
			So(rows[1].LegNumber, ShouldEqual, 2)
		})

		Convey("And headers matched case-insensitively", func() {
			So(rows[0].FirstName, ShouldEqual, "Anna")
			So(rows[0].LastName, ShouldEqual, "Müller")
		})
	})

	Convey("Given a history CSV with blank separator rows", t, func() {
		path := writeCSV(t, "history.csv",
			"year,team,leg,first_name,last_name,time,distance\n"+
				",,,,,,\n"+
				"2024,Falcons,1,Anna,Müller,00:22:10,5.0\n")

		rows, rep, err := tabular.LoadHistory(path, "")

		Convey("Then blank rows are skipped and counted, not reported", func() {
			So(err, ShouldBeNil)
			So(rep.SkippedBlank, ShouldEqual, 1)
			So(rep.Loaded, ShouldEqual, 1)
			So(len(rep.RowErrors), ShouldEqual, 0)
			So(len(rows), ShouldEqual, 1)
		})
	})

	Convey("Given a history CSV missing a required column", t, func() {
		path := writeCSV(t, "history.csv",
			"year,team,leg,first_name,last_name,time\n"+
				"2024,Falcons,1,Anna,Müller,00:22:10\n")

		_, _, err := tabular.LoadHistory(path, "")

		Convey("Then the load is fatal", func() {
			So(err, ShouldWrap, tabular.ErrMissingColumn)
			So(err.Error(), ShouldContainSubstring, "distance")
		})
	})

	Convey("Given a history CSV with a blank required cell", t, func() {
		path := writeCSV(t, "history.csv",
			"year,team,leg,first_name,last_name,time,distance\n"+
				",Falcons,1,Anna,Frei,00:22:10,5.0\n"+
				"2024,Falcons,2,Beat,Frei,00:20:00,\n"+
				"2024,Falcons,1,Anna,Müller,00:22:10,5.0\n")

		rows, rep, err := tabular.LoadHistory(path, "")

		Convey("Then those rows are excluded with row errors, not zero-filled", func() {
			So(err, ShouldBeNil)
			So(rep.Loaded, ShouldEqual, 1)
			So(len(rep.RowErrors), ShouldEqual, 2)
			So(rep.RowErrors[0].Row, ShouldEqual, 2)
			So(rep.RowErrors[0].Err.Error(), ShouldContainSubstring, `"year"`)
			So(rep.RowErrors[1].Row, ShouldEqual, 3)
			So(rep.RowErrors[1].Err.Error(), ShouldContainSubstring, `"distance"`)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].Year, ShouldEqual, 2024)
		})
	})

	Convey("Given a history CSV with an unparsable numeric cell", t, func() {
		path := writeCSV(t, "history.csv",
			"year,team,leg,first_name,last_name,time,distance\n"+
				"twentytwentyfour,Falcons,1,Anna,Müller,00:22:10,5.0\n"+
				"2024,Falcons,1,Anna,Müller,00:22:10,5.0\n")

		rows, rep, err := tabular.LoadHistory(path, "")

		Convey("Then the bad row is excluded and the run continues", func() {
			So(err, ShouldBeNil)
			So(rep.Loaded, ShouldEqual, 1)
			So(len(rep.RowErrors), ShouldEqual, 1)
			So(rep.RowErrors[0].Row, ShouldEqual, 2)
			So(len(rows), ShouldEqual, 1)
		})
	})

	Convey("Given a history CSV with extra unmapped columns", t, func() {
		path := writeCSV(t, "history.csv",
			"year,team,leg,first_name,last_name,time,distance,shoe_size\n"+
				"2024,Falcons,1,Anna,Müller,00:22:10,5.0,41\n")

		rows, _, err := tabular.LoadHistory(path, "")

		Convey("Then extras are ignored", func() {
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
		})
	})

	Convey("Given a German-locale decimal comma distance", t, func() {
		path := writeCSV(t, "history.csv",
			"year,team,leg,first_name,last_name,time,distance\n"+
				"2024,Falcons,1,Anna,Müller,00:22:10,\"7,6\"\n")

		rows, _, err := tabular.LoadHistory(path, "")

		So(err, ShouldBeNil)
		So(rows[0].DistanceKM, ShouldEqual, 7.6)
	})

	Convey("Given a missing file", t, func() {
		_, _, err := tabular.LoadHistory(filepath.Join(t.TempDir(), "nope.csv"), "")

		So(err, ShouldWrap, tabular.ErrOpenSource)
	})
}

func TestLoadContacts(t *testing.T) {
	Convey("Given a well-formed contacts CSV", t, func() {
		path := writeCSV(t, "contacts.csv",
			"first_name,last_name,email,mobile,company,external,active\n"+
				"Anna,Müller,anna@example.org,+41 79 000 00 00,Acme AG,no,yes\n"+
				"Clara,Weber,clara@example.org,,Other AG,yes,no\n")

		rows, rep, err := tabular.LoadContacts(path, "")

		Convey("Then flags parse from spreadsheet-style values", func() {
			So(err, ShouldBeNil)
			So(rep.Loaded, ShouldEqual, 2)
			So(rows[0].Active, ShouldBeTrue)
			So(rows[0].External, ShouldBeFalse)
			So(rows[1].Active, ShouldBeFalse)
			So(rows[1].External, ShouldBeTrue)
		})
	})

	Convey("Given a contacts CSV without the active column", t, func() {
		path := writeCSV(t, "contacts.csv",
			"first_name,last_name,email\n"+
				"Anna,Müller,anna@example.org\n")

		_, _, err := tabular.LoadContacts(path, "")

		So(err, ShouldWrap, tabular.ErrMissingColumn)
	})

	Convey("Given a contacts row with neither id nor full name", t, func() {
		path := writeCSV(t, "contacts.csv",
			"runner_id,first_name,last_name,active\n"+
				",Anna,,yes\n")

		rows, rep, err := tabular.LoadContacts(path, "")

		Convey("Then the row is excluded with a row error", func() {
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 0)
			So(len(rep.RowErrors), ShouldEqual, 1)
		})
	})

	Convey("Given a contacts row with a malformed flag", t, func() {
		path := writeCSV(t, "contacts.csv",
			"first_name,last_name,active\n"+
				"Anna,Müller,perhaps\n")

		rows, rep, err := tabular.LoadContacts(path, "")

		So(err, ShouldBeNil)
		So(len(rows), ShouldEqual, 0)
		So(len(rep.RowErrors), ShouldEqual, 1)
	})
}
