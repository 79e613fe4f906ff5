// Package app wires the pipeline stages together: load, resolve
// identities, merge contacts, derive metrics, aggregate standings,
// validate, emit. Data flows strictly forward; a run either produces a
// complete valid artifact or nothing.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/oradba/solahist/internal/adapters/emit"
	"github.com/oradba/solahist/internal/adapters/tabular"
	"github.com/oradba/solahist/internal/domain/identity"
	"github.com/oradba/solahist/internal/domain/metric"
	"github.com/oradba/solahist/internal/domain/model"
	"github.com/oradba/solahist/internal/domain/schema"
	"github.com/oradba/solahist/internal/domain/standings"
	"github.com/oradba/solahist/pkg/logger"
	"github.com/oradba/solahist/pkg/metrics"
)

// Pipeline is the batch transformation job. Construct one per run.
type Pipeline struct {
	historyPath   string
	historySheet  string
	contactsPath  string
	contactsSheet string
	outputDir     string
	eventName     string
	maxLegSeconds int64

	log logger.Logger
	run *metrics.Run

	// resolver is created by assemble and reused as the contact merge
	// fallback join key so both stages share one naming state.
	resolver *identity.Resolver
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithHistorySource sets the race history source file and sheet.
func WithHistorySource(path, sheet string) Option {
	return func(p *Pipeline) {
		p.historyPath = path
		p.historySheet = sheet
	}
}

// WithContactsSource sets the contacts source file and sheet. Without
// it the contact merge stage is skipped.
func WithContactsSource(path, sheet string) Option {
	return func(p *Pipeline) {
		p.contactsPath = path
		p.contactsSheet = sheet
	}
}

// WithOutputDir sets the artifact directory.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) {
		if dir != "" {
			p.outputDir = dir
		}
	}
}

// WithEventName labels emitted Race records.
func WithEventName(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.eventName = name
		}
	}
}

// WithMaxLegSeconds sets the sanity ceiling for a single leg time.
func WithMaxLegSeconds(maxSec int64) Option {
	return func(p *Pipeline) {
		if maxSec > 0 {
			p.maxLegSeconds = maxSec
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithMetrics sets a custom metrics run.
func WithMetrics(run *metrics.Run) Option {
	return func(p *Pipeline) {
		if run != nil {
			p.run = run
		}
	}
}

// New constructs a Pipeline with defaults.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		outputDir:     "data/processed",
		eventName:     "SOLA",
		maxLegSeconds: metric.DefaultMaxLegSeconds,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get().Named("pipeline")
	}
	if p.run == nil {
		p.run = metrics.NewRun()
	}
	return p
}

// Run executes all stages and writes the artifact. The returned dataset
// is the emitted entity set; on any structural or validation error
// nothing is written and the dataset is nil.
func (p *Pipeline) Run(ctx context.Context) (*model.Dataset, error) {
	start := time.Now()

	historyRows, rep, err := tabular.LoadHistory(p.historyPath, p.historySheet)
	if err != nil {
		return nil, err
	}
	p.recordLoad(ctx, "history", rep)

	ds, err := p.assemble(ctx, historyRows)
	if err != nil {
		return nil, err
	}

	if p.contactsPath != "" {
		if err := p.mergeContacts(ctx, ds); err != nil {
			return nil, err
		}
	}

	agg := standings.New()
	agg.RankLegResults(ds.Results)
	ds.Standings = agg.Build(ds.Legs, ds.Teams, ds.Results)

	if violations := schema.Validate(ds); len(violations) > 0 {
		for _, v := range violations {
			p.log.Error(ctx, "schema violation", logger.String("violation", v.String()))
		}
		return nil, fmt.Errorf("%w: %d violation(s)", schema.ErrSchema, len(violations))
	}

	if err := emit.New(p.outputDir).Write(ctx, ds); err != nil {
		return nil, err
	}

	p.run.SetDuration(time.Since(start))
	for _, line := range p.run.Summary() {
		p.log.Info(ctx, "run summary", logger.String("metric", line))
	}
	return ds, nil
}

func (p *Pipeline) recordLoad(ctx context.Context, sheet string, rep *tabular.Report) {
	p.run.RowsLoaded(sheet, rep.Loaded)
	p.run.RowsSkippedBlank(sheet, rep.SkippedBlank)
	for _, re := range rep.RowErrors {
		p.run.RowRejected("unparsable_cell")
		p.log.Warn(ctx, "row excluded", logger.String("sheet", sheet), logger.Int("row", re.Row), logger.Error(re.Err))
	}
}
