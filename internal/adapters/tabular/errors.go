package tabular

import "errors"

// Sentinel kinds for loader errors. All of these are structural: the
// run aborts when any of them surfaces.
var (
	ErrOpenSource    = errors.New("cannot open tabular source")
	ErrEmptySource   = errors.New("tabular source is empty")
	ErrMissingColumn = errors.New("missing required column")
)
