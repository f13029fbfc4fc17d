package stego

import "errors"

// Contract-violation errors.
// These indicate programmer errors, not analysis outcomes. Heuristic
// rejections during message decoding never surface as errors; they are
// represented by Outcome reject reasons instead.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() for programmatic handling, and we reject eagerly rather than
// silently clamping out-of-range values.
var (
	// ErrInvalidPlane is returned when a bit plane index is outside [0,7].
	ErrInvalidPlane = errors.New("invalid bit plane: must be in range 0-7")

	// ErrInvalidMaxBytes is returned when a decoder is configured with a
	// non-positive maximum message size.
	ErrInvalidMaxBytes = errors.New("invalid max message bytes: must be positive")

	// ErrInvalidPrintableRatio is returned when a decoder is configured with
	// a printable ratio outside (0,1].
	ErrInvalidPrintableRatio = errors.New("invalid printable ratio: must be in range (0,1]")

	// ErrInvalidChannel is returned when a channel value is outside the
	// defined red/green/blue set.
	ErrInvalidChannel = errors.New("invalid channel: must be red, green, or blue")
)
