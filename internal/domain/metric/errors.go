package metric

import "errors"

// Sentinel error kinds for this package. ErrInvalidDistance is
// structural (it indicts the leg definition); the others are row-level.
var (
	ErrInvalidDistance = errors.New("invalid leg distance")
	ErrUnparsableTime  = errors.New("unparsable time value")
	ErrNonPositiveTime = errors.New("non-positive time value")
	ErrImplausibleTime = errors.New("implausible time value")
)
