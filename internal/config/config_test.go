package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oradba/solahist/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOLA_CONFIG", "")

	Convey("Given no file and no environment", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.HistorySheet, ShouldEqual, "history")
			So(cfg.ContactsSheet, ShouldEqual, "contacts")
			So(cfg.OutputDir, ShouldEqual, "data/processed")
			So(cfg.MaxLegSeconds, ShouldEqual, 6*60*60)
			So(cfg.EventName, ShouldEqual, "SOLA")
			So(cfg.HistoryPath, ShouldEqual, "")
		})
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOLA_CONFIG", "")
	t.Setenv("SOLA_HISTORY_PATH", "/data/history.xlsx")
	t.Setenv("SOLA_OUTPUT_DIR", "/data/out")
	t.Setenv("SOLA_LOG_LEVEL", "debug")

	Convey("Given SOLA_ environment variables", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.HistoryPath, ShouldEqual, "/data/history.xlsx")
			So(cfg.OutputDir, ShouldEqual, "/data/out")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.EventName, ShouldEqual, "SOLA")
		})
	})
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sola.yaml")
	content := "history_path: /data/history.csv\nmax_leg_seconds: 7200\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOLA_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.HistoryPath, ShouldEqual, "/data/history.csv")
			So(cfg.MaxLegSeconds, ShouldEqual, 7200)
			So(cfg.OutputDir, ShouldEqual, "data/processed")
		})
	})
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sola.yaml")
	if err := os.WriteFile(path, []byte("history_path: /data/history.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SOLA_CONFIG", path)
	t.Setenv("SOLA_HISTORY_PATH", "/elsewhere/history.csv")

	Convey("Given a file and a contradicting env var", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins", func() {
			So(err, ShouldBeNil)
			So(cfg.HistoryPath, ShouldEqual, "/elsewhere/history.csv")
		})
	})
}

func TestLoadErrors(t *testing.T) {
	Convey("Given a config file that does not exist", t, func() {
		t.Setenv("SOLA_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

		_, err := config.Load(context.Background())

		So(err, ShouldWrap, config.ErrLoadConfig)
	})
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("SOLA_CONFIG", "")

	Convey("Given a non-positive leg time ceiling", t, func() {
		t.Setenv("SOLA_MAX_LEG_SECONDS", "0")

		_, err := config.Load(context.Background())

		So(err, ShouldWrap, config.ErrInvalidConfig)
	})
}

func TestLoadEmptyOutputDir(t *testing.T) {
	t.Setenv("SOLA_CONFIG", "")
	t.Setenv("SOLA_OUTPUT_DIR", "")

	Convey("Given an explicitly emptied output dir", t, func() {
		_, err := config.Load(context.Background())

		So(err, ShouldWrap, config.ErrInvalidConfig)
	})
}
