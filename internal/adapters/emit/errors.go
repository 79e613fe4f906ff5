package emit

import "errors"

// ErrEmit wraps any failure while writing the output artifact.
var ErrEmit = errors.New("emit failed")
