package identity

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrBlankName marks a name that is empty after normalization.
	ErrBlankName = errors.New("blank name after normalization")
)
