// Package config defines pipeline configuration structures and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and SOLA_* env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains one pipeline invocation's configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// HistoryPath points to the race history source (.xlsx or .csv).
	HistoryPath string `koanf:"history_path"`

	// HistorySheet names the worksheet inside an xlsx history source.
	// Ignored for CSV inputs.
	HistorySheet string `koanf:"history_sheet"`

	// ContactsPath points to the contacts source (.xlsx or .csv).
	// Optional; when empty the contact merge stage is skipped.
	ContactsPath string `koanf:"contacts_path"`

	// ContactsSheet names the worksheet inside an xlsx contacts source.
	ContactsSheet string `koanf:"contacts_sheet"`

	// OutputDir receives the emitted entity collections.
	OutputDir string `koanf:"output_dir"`

	// MaxLegSeconds is the sanity ceiling for a single leg time.
	// Times above it are rejected as row-level data errors.
	MaxLegSeconds int `koanf:"max_leg_seconds"`

	// EventName labels emitted Race records, e.g. "SOLA".
	EventName string `koanf:"event_name"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		HistorySheet:  "history",
		ContactsSheet: "contacts",
		OutputDir:     "data/processed",
		MaxLegSeconds: 6 * 60 * 60,
		EventName:     "SOLA",
	}
}
