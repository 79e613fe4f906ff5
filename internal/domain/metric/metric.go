// Package metric converts raw leg time values into canonical seconds
// and derives pace. Raw values arrive in one of three representations:
// a clock string ("1:02:30", "02:30" or "22:10"), an Excel day fraction
// (numeric in (0,1)), or plain seconds (numeric >= 1). Exactly one
// conversion rule applies per detected representation.
package metric

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	secondsPerDay    = 86_400
	secondsPerHour   = 3_600
	secondsPerMinute = 60

	// DefaultMaxLegSeconds is the sanity ceiling for one leg: 6 hours.
	DefaultMaxLegSeconds = 6 * secondsPerHour
)

// Option applies a configuration option to the Deriver.
type Option func(*Deriver)

// WithMaxLegSeconds overrides the sanity ceiling for a single leg time.
func WithMaxLegSeconds(maxSec int64) Option {
	return func(d *Deriver) {
		if maxSec > 0 {
			d.maxLegSeconds = maxSec
		}
	}
}

// Deriver validates raw times and computes pace.
type Deriver struct {
	maxLegSeconds int64
}

// NewDeriver creates a Deriver with the default sanity ceiling.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{maxLegSeconds: DefaultMaxLegSeconds}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive converts one raw leg time into canonical seconds and pace for
// the given leg distance.
//
// A non-positive distance returns ErrInvalidDistance: that is a
// structural problem with the leg definition, not with the row. Time
// values that are unparsable, non-positive, or above the ceiling return
// row-level errors.
func (d *Deriver) Derive(raw string, distanceKM float64) (timeSec, paceSecPerKM int64, err error) {
	if distanceKM <= 0 {
		return 0, 0, fmt.Errorf("%w: %v km", ErrInvalidDistance, distanceKM)
	}

	timeSec, err = ParseLegTime(raw)
	if err != nil {
		return 0, 0, err
	}
	if timeSec > d.maxLegSeconds {
		return 0, 0, fmt.Errorf("%w: %d s exceeds ceiling %d s", ErrImplausibleTime, timeSec, d.maxLegSeconds)
	}

	return timeSec, Pace(timeSec, distanceKM), nil
}

// ParseLegTime converts a raw time cell to whole seconds.
func ParseLegTime(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrUnparsableTime)
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableTime, raw)
	}
	switch {
	case v <= 0:
		return 0, fmt.Errorf("%w: %q", ErrNonPositiveTime, raw)
	case v < 1:
		// Excel stores times of day as a fraction of 24 hours.
		return int64(math.Round(v * secondsPerDay)), nil
	default:
		return int64(math.Round(v)), nil
	}
}

// parseClock handles "H:MM:SS" and "MM:SS" forms.
func parseClock(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableTime, s)
	}

	nums := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrUnparsableTime, s)
		}
		nums[i] = n
	}

	var sec int64
	if len(nums) == 3 {
		sec = nums[0]*secondsPerHour + nums[1]*secondsPerMinute + nums[2]
	} else {
		sec = nums[0]*secondsPerMinute + nums[1]
	}
	if sec <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNonPositiveTime, s)
	}
	return sec, nil
}

// Pace returns whole seconds per kilometer, rounded half away from zero.
// This is the single place pace is computed; downstream code never
// recomputes it.
func Pace(timeSec int64, distanceKM float64) int64 {
	return int64(math.Round(float64(timeSec) / distanceKM))
}

// FormatSeconds renders seconds as "H:MM:SS" for display, e.g. 1330 ->
// "0:22:10". Non-positive values render as the empty string.
func FormatSeconds(sec int64) string {
	if sec <= 0 {
		return ""
	}
	h := sec / secondsPerHour
	m := (sec % secondsPerHour) / secondsPerMinute
	s := sec % secondsPerMinute
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatPace renders pace as "MM:SS min/km", e.g. 266 -> "04:26 min/km".
// Non-positive values render as the empty string.
func FormatPace(secPerKM int64) string {
	if secPerKM <= 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d min/km", secPerKM/secondsPerMinute, secPerKM%secondsPerMinute)
}
