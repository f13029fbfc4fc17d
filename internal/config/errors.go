package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrNoTarget is returned when no image file or directory is specified.
	ErrNoTarget = errors.New("no target specified: provide an image file or directory")

	// ErrInvalidMaxMessageBytes is returned when the decoder's length gate
	// is not positive.
	ErrInvalidMaxMessageBytes = errors.New("invalid max message bytes: must be positive")

	// ErrInvalidPrintableRatio is returned when the printable-ratio
	// threshold is outside (0,1].
	ErrInvalidPrintableRatio = errors.New("invalid printable ratio: must be in range (0,1]")

	// ErrInvalidChannel is returned when the selected channel is not one of
	// red, green, or blue.
	ErrInvalidChannel = errors.New("invalid channel: must be red, green, or blue")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent analyses at all.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxMegapixels is returned when the megapixel limit is
	// negative. Use 0 to disable the limit.
	ErrInvalidMaxMegapixels = errors.New("invalid megapixel limit: must be non-negative")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown, and --csv is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose at most one of --json, --markdown, --csv")
)
