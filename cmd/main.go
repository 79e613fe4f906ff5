// Command solahist runs the race history transformation pipeline: it
// reads the raw history and contacts spreadsheets and writes the
// normalized entity collections the dashboard consumes.
//
// Configuration comes from defaults, an optional YAML file named by
// SOLA_CONFIG, and SOLA_* environment variables; the flags below
// override all of them.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/oradba/solahist/internal/app"
	"github.com/oradba/solahist/internal/config"
	"github.com/oradba/solahist/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	historyFlag := flag.String("history", "", "race history source (.xlsx or .csv)")
	contactsFlag := flag.String("contacts", "", "contacts source (.xlsx or .csv)")
	outFlag := flag.String("out", "", "output directory for the artifact")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	log := logger.Get()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if *historyFlag != "" {
		cfg.HistoryPath = *historyFlag
	}
	if *contactsFlag != "" {
		cfg.ContactsPath = *contactsFlag
	}
	if *outFlag != "" {
		cfg.OutputDir = *outFlag
	}
	if cfg.HistoryPath == "" {
		os.Stderr.WriteString("no history source: set -history or SOLA_HISTORY_PATH\n")
		return 1
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithHistorySource(cfg.HistoryPath, cfg.HistorySheet),
		app.WithOutputDir(cfg.OutputDir),
		app.WithEventName(cfg.EventName),
		app.WithMaxLegSeconds(int64(cfg.MaxLegSeconds)),
		app.WithLogger(log.Named("pipeline")),
	}
	if cfg.ContactsPath != "" {
		opts = append(opts, app.WithContactsSource(cfg.ContactsPath, cfg.ContactsSheet))
	}

	ds, err := app.New(opts...).Run(ctx)
	if err != nil {
		log.Error(ctx, "pipeline aborted, no artifact written", logger.Error(err))
		return 1
	}

	log.Info(ctx, "artifact written",
		logger.String("output_dir", cfg.OutputDir),
		logger.Int("runners", len(ds.Runners)),
		logger.Int("races", len(ds.Races)),
		logger.Int("legs", len(ds.Legs)),
		logger.Int("teams", len(ds.Teams)),
		logger.Int("results", len(ds.Results)),
		logger.Int("team_standings", len(ds.Standings)))
	return 0
}
