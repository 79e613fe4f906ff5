// Package metrics tracks per-run pipeline counters on a private
// prometheus registry. The registry is gathered once at the end of a run
// and logged as the run summary; nothing is exported over HTTP.
package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run holds the counters for a single pipeline run.
type Run struct {
	registry *prometheus.Registry

	rowsLoaded   *prometheus.CounterVec
	rowsBlank    *prometheus.CounterVec
	rowsRejected *prometheus.CounterVec
	collisions   prometheus.Counter
	orphans      *prometheus.CounterVec
	duration     prometheus.Gauge
}

// Option applies a configuration option to a Run.
type Option func(*runOptions)

type runOptions struct {
	namespace string
	registry  *prometheus.Registry
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(o *runOptions) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

// WithRegistry uses a caller-provided registry instead of a fresh one.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *runOptions) {
		if r != nil {
			o.registry = r
		}
	}
}

// NewRun creates the counters for one pipeline run. A fresh registry per
// run keeps repeated invocations in the same process independent.
func NewRun(opts ...Option) *Run {
	o := &runOptions{namespace: "solahist"}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	r := &Run{
		registry: o.registry,
		rowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "rows_loaded_total",
			Help:      "Data rows loaded per source sheet.",
		}, []string{"sheet"}),
		rowsBlank: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "rows_skipped_blank_total",
			Help:      "Non-data rows skipped per source sheet.",
		}, []string{"sheet"}),
		rowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "rows_rejected_total",
			Help:      "Rows excluded by row-level data errors, by reason.",
		}, []string{"reason"}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "identity_collisions_total",
			Help:      "Runner ids disambiguated with a numeric suffix.",
		}),
		orphans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "contact_orphans_total",
			Help:      "Contact rows without race history, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the pipeline run.",
		}),
	}

	o.registry.MustRegister(
		r.rowsLoaded, r.rowsBlank, r.rowsRejected,
		r.collisions, r.orphans, r.duration,
	)
	return r
}

// RowsLoaded counts loaded data rows for the named sheet. Zero counts
// are skipped so untouched label sets stay out of the summary.
func (r *Run) RowsLoaded(sheet string, n int) {
	if n > 0 {
		r.rowsLoaded.WithLabelValues(sheet).Add(float64(n))
	}
}

// RowsSkippedBlank counts skipped non-data rows for the named sheet.
func (r *Run) RowsSkippedBlank(sheet string, n int) {
	if n > 0 {
		r.rowsBlank.WithLabelValues(sheet).Add(float64(n))
	}
}

// RowRejected counts one row excluded by a row-level data error.
func (r *Run) RowRejected(reason string) { r.rowsRejected.WithLabelValues(reason).Inc() }

// RowsRejected counts rejected rows in bulk for one reason.
func (r *Run) RowsRejected(reason string, n int) {
	if n > 0 {
		r.rowsRejected.WithLabelValues(reason).Add(float64(n))
	}
}

// Collision counts one deterministic identity disambiguation.
func (r *Run) Collision() { r.collisions.Inc() }

// OrphansKept counts contact rows retained as orphan runners.
func (r *Run) OrphansKept(n int) {
	if n > 0 {
		r.orphans.WithLabelValues("kept").Add(float64(n))
	}
}

// OrphansDropped counts contact rows dropped for lacking race history.
func (r *Run) OrphansDropped(n int) {
	if n > 0 {
		r.orphans.WithLabelValues("dropped").Add(float64(n))
	}
}

// SetDuration records the total run duration.
func (r *Run) SetDuration(d time.Duration) { r.duration.Set(d.Seconds()) }

// Summary gathers the registry into sorted "name{labels}=value" lines for
// the end-of-run log.
func (r *Run) Summary() []string {
	families, err := r.registry.Gather()
	if err != nil {
		return []string{fmt.Sprintf("gather failed: %v", err)}
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			label := ""
			for _, lp := range m.GetLabel() {
				if label != "" {
					label += ","
				}
				label += lp.GetName() + "=" + lp.GetValue()
			}
			var val float64
			switch {
			case m.GetCounter() != nil:
				val = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				val = m.GetGauge().GetValue()
			}
			if label != "" {
				lines = append(lines, fmt.Sprintf("%s{%s}=%g", mf.GetName(), label, val))
			} else {
				lines = append(lines, fmt.Sprintf("%s=%g", mf.GetName(), val))
			}
		}
	}
	sort.Strings(lines)
	return lines
}
