package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/stegoscan/internal/imgio"
	"github.com/nao1215/stegoscan/internal/model"
	"github.com/nao1215/stegoscan/internal/stego"
)

// ErrNoPixels is returned when an analysis step runs before the image has
// been decoded into the report's pixel buffer.
var ErrNoPixels = errors.New("no decoded pixel data in report: run the load step first")

// LoadImageStep decodes the image file into the report's pixel buffer.
// This is the only step that touches the filesystem for pixel data; every
// later step operates on the decoded buffer.
type LoadImageStep struct {
	// loader decodes files into normalized channel matrices.
	loader *imgio.Loader
}

// NewLoadImageStep creates a load step using the given loader.
func NewLoadImageStep(loader *imgio.Loader) *LoadImageStep {
	return &LoadImageStep{loader: loader}
}

// Name returns the step name.
func (s *LoadImageStep) Name() string {
	return "load_image"
}

// Do decodes the report's image file.
func (s *LoadImageStep) Do(_ context.Context, report *model.ImageScanReport) error {
	img, err := s.loader.Load(report.Path)
	if err != nil {
		return err
	}
	report.Pixels = img
	report.Width = img.Width
	report.Height = img.Height
	return nil
}

// LSBScanStep runs the LSB steganalysis across the red, green, and blue
// channels of the decoded image and aggregates the results into the report.
//
// The channel order is fixed: when more than one channel decodes a plausible
// message, the first channel in red, green, blue order wins the report's
// ChannelWithMessage field.
type LSBScanStep struct {
	// analyzer performs the per-channel analysis. It is immutable and
	// shared safely across concurrent pipelines.
	analyzer *stego.ChannelAnalyzer

	// logger for structured logging.
	logger *slog.Logger
}

// LSBScanStepOption configures an LSBScanStep.
type LSBScanStepOption func(*LSBScanStep)

// WithLSBLogger sets a custom logger for the scan step.
func WithLSBLogger(logger *slog.Logger) LSBScanStepOption {
	return func(s *LSBScanStep) {
		s.logger = logger
	}
}

// NewLSBScanStep creates a scan step around the given channel analyzer.
func NewLSBScanStep(analyzer *stego.ChannelAnalyzer, opts ...LSBScanStepOption) *LSBScanStep {
	s := &LSBScanStep{
		analyzer: analyzer,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *LSBScanStep) Name() string {
	return "lsb_scan"
}

// Do analyzes all three channels and finalizes the report summary.
func (s *LSBScanStep) Do(_ context.Context, report *model.ImageScanReport) error {
	if report.Pixels == nil {
		return ErrNoPixels
	}

	for _, channel := range model.Channels {
		result, err := s.analyzer.Analyze(report.Pixels.Matrix(channel), channel)
		if err != nil {
			return fmt.Errorf("channel %s analysis failed: %w", channel, err)
		}

		if result.MessageFound {
			s.logger.Info("hidden message decoded",
				"file", report.Filename,
				"channel", channel.String(),
				"message", result.Message,
			)
		}

		report.AddChannelResult(result)
	}

	report.Finalize()
	return nil
}

// EXIFStep extracts identifying metadata from the image file.
// EXIF data can contain GPS coordinates, camera serial numbers, software
// information, and timestamps; for a forensic scan these findings belong
// next to the steganalysis results.
//
// A file without EXIF data is a normal outcome, not an error.
type EXIFStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// NewEXIFStep creates a metadata extraction step.
func NewEXIFStep(logger *slog.Logger) *EXIFStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &EXIFStep{logger: logger}
}

// Name returns the step name.
func (s *EXIFStep) Name() string {
	return "exif"
}

// Do extracts EXIF findings from the report's image file.
func (s *EXIFStep) Do(_ context.Context, report *model.ImageScanReport) error {
	f, err := os.Open(report.Path) //nolint:gosec // scanning user-provided paths is the point
	if err != nil {
		return fmt.Errorf("failed to open image for metadata: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(f, nil, true)
	if err != nil {
		if isNoExif(err) {
			return nil
		}
		// Unparseable metadata should not discard the steganalysis results.
		s.logger.Debug("exif extraction failed",
			"file", report.Filename,
			"error", err,
		)
		return nil
	}

	findings := &model.EXIFFindings{}
	for _, tag := range tags {
		name := tag.TagName
		lower := strings.ToLower(name)

		if strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS") {
			findings.HasGPS = true
			findings.GPSTagCount++
		}
		if name == "Model" || name == "CameraModelName" {
			findings.CameraModel = tag.Formatted
		}
		if name == "Software" {
			findings.Software = tag.Formatted
		}
		if name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime" {
			findings.HasTimestamp = true
		}
		if strings.Contains(lower, "serial") {
			findings.SerialTagCount++
		}
	}

	if *findings != (model.EXIFFindings{}) {
		report.EXIF = findings
	}
	return nil
}

// isNoExif reports whether the error means the file simply has no EXIF data.
func isNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
