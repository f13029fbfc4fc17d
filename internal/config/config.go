package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/stegoscan/internal/model"
)

// Default configuration values.
// The detection heuristics carry documented defaults rather than hardcoded
// constants: they are tunable gates, not calibrated thresholds.
const (
	// DefaultMaxMessageBytes is the largest message length the decoder's
	// length gate accepts. Random-noise LSBs usually decode to lengths far
	// above this, so the gate discards most noise while still allowing
	// messages up to 1KB.
	DefaultMaxMessageBytes = 1024

	// DefaultPrintableRatio is the minimum fraction of decoded characters
	// that must be printable ASCII for a payload to count as a message.
	// 0.8 tolerates some punctuation and unicode while rejecting binary noise.
	DefaultPrintableRatio = 0.8

	// DefaultChannel is the channel analyzed when only one channel is
	// requested. Blue is the conventional embedding target because the eye
	// is least sensitive to blue intensity changes.
	DefaultChannel = model.ChannelBlue

	// DefaultBatchSize of 4 concurrent analyses balances throughput with
	// memory usage; each in-flight image holds three full channel matrices.
	DefaultBatchSize = 4

	// DefaultMaxImageMegapixels bounds the size of images accepted for
	// analysis. One decoded 20MP image costs about 60MB of channel data.
	DefaultMaxImageMegapixels = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "stegoscan"
)

// DefaultExtensions lists the file extensions scanned during batch analysis.
// PNG and BMP are lossless formats where LSB embedding survives; lossy JPEG
// destroys pixel-domain LSB payloads.
var DefaultExtensions = []string{".png", ".bmp"}

// Config holds all configuration options for stegoscan.
// This struct is populated from CLI flags and passed through the application
// via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// because the number of options is manageable, and nesting would add
// complexity without significant benefit.
type Config struct {
	// MaxMessageBytes is the decoder's length-gate upper bound.
	MaxMessageBytes int

	// PrintableRatio is the decoder's printable-ASCII acceptance threshold,
	// in (0,1].
	PrintableRatio float64

	// Channel is the channel used for single-channel operations such as
	// bit-plane export.
	Channel model.Channel

	// BatchSize is the number of concurrent image analyses during batch
	// scanning.
	BatchSize int

	// MaxImageMegapixels bounds accepted image sizes. Zero disables the
	// limit.
	MaxImageMegapixels int

	// Extensions lists the file extensions discovered during batch scans.
	Extensions []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport and CSVReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport and CSVReport.
	MarkdownReport bool

	// CSVReport enables CSV report output (one row per image).
	// Mutually exclusive with JSONReport and MarkdownReport.
	CSVReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// SaveBitPlanes enables exporting the eight bit-plane visualizations
	// of the selected channel during single-image analysis.
	SaveBitPlanes bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .stegoscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Targets is the list of image files or directories to analyze.
	Targets []string

	// DBDir is the directory path for storing the SQLite scan-history
	// database. Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on zero
// values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxMessageBytes:    DefaultMaxMessageBytes,
		PrintableRatio:     DefaultPrintableRatio,
		Channel:            DefaultChannel,
		BatchSize:          DefaultBatchSize,
		MaxImageMegapixels: DefaultMaxImageMegapixels,
		Extensions:         append([]string(nil), DefaultExtensions...),
	}
}

// XDGDataDir returns the XDG data directory for stegoscan.
// On Linux: ~/.local/share/stegoscan
// On macOS: ~/Library/Application Support/stegoscan
// On Windows: %LOCALAPPDATA%\stegoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for stegoscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each point
// of use to fail fast and provide clear error messages upfront. We return
// the first error found rather than collecting all errors because fixing one
// error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// The decoder rejects these too, but failing here gives the user a
	// flag-level message before any work starts.
	if c.MaxMessageBytes <= 0 {
		return ErrInvalidMaxMessageBytes
	}
	if c.PrintableRatio <= 0 || c.PrintableRatio > 1 {
		return ErrInvalidPrintableRatio
	}

	if !c.Channel.Valid() {
		return ErrInvalidChannel
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxImageMegapixels < 0 {
		return ErrInvalidMaxMegapixels
	}

	// Only one report format can be selected at a time.
	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.CSVReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}
