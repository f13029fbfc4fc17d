package model

import (
	"path/filepath"
	"time"
)

// PlaneCount is the number of bit planes in an 8-bit channel.
const PlaneCount = 8

// PlaneStats holds the statistical scores of one bit plane within a channel.
type PlaneStats struct {
	// Plane is the bit plane index (0 = LSB .. 7 = MSB).
	Plane int `json:"plane"`

	// Entropy is the Shannon entropy of the plane's bit distribution.
	// Bounded to [0,1] because the alphabet has two symbols.
	Entropy float64 `json:"entropy"`

	// Chi2 is the Pearson chi-square statistic against a uniform 50/50
	// bit distribution. Unbounded above; interpreted relatively, not against
	// a fixed significance threshold.
	Chi2 float64 `json:"chi2"`
}

// ChannelResult holds the analysis outcome for a single color channel:
// the decoded message (if any) and the statistics of all eight bit planes.
type ChannelResult struct {
	// Channel is the analyzed color channel.
	Channel Channel `json:"channel_index"`

	// ChannelText is the human-readable channel name.
	ChannelText string `json:"channel"`

	// MessageFound is true if the channel's LSB plane decoded to a
	// plausible message. Absence of a message is a normal outcome.
	MessageFound bool `json:"message_found"`

	// Message is the decoded message, empty when MessageFound is false.
	Message string `json:"message,omitempty"`

	// RejectReason describes why decoding terminated without a message.
	// Empty when a message was found.
	RejectReason string `json:"reject_reason,omitempty"`

	// PlaneStats holds per-plane statistics, indexed by plane.
	PlaneStats [PlaneCount]PlaneStats `json:"plane_stats"`

	// EntropyAvg is the arithmetic mean of the eight plane entropies.
	EntropyAvg float64 `json:"entropy_avg"`

	// Chi2Max is the maximum of the eight plane chi-square statistics.
	Chi2Max float64 `json:"chi2_max"`
}

// ComputeDerived fills EntropyAvg and Chi2Max from PlaneStats.
func (cr *ChannelResult) ComputeDerived() {
	var sum, maxChi2 float64
	for _, ps := range cr.PlaneStats {
		sum += ps.Entropy
		if ps.Chi2 > maxChi2 {
			maxChi2 = ps.Chi2
		}
	}
	cr.EntropyAvg = sum / PlaneCount
	cr.Chi2Max = maxChi2
}

// EXIFFindings summarizes identifying metadata found in the image file.
// A forensic scanner that already has the file open reports metadata that
// could identify the device or operator alongside the steganalysis results.
type EXIFFindings struct {
	// HasGPS is true if any GPS tag is present (location disclosure).
	HasGPS bool `json:"has_gps"`

	// GPSTagCount is the number of GPS-related tags found.
	GPSTagCount int `json:"gps_tag_count,omitempty"`

	// CameraModel is the camera model if recorded.
	CameraModel string `json:"camera_model,omitempty"`

	// Software is the editing/creating software if recorded.
	Software string `json:"software,omitempty"`

	// HasTimestamp is true if an original/digitized timestamp is present.
	HasTimestamp bool `json:"has_timestamp"`

	// SerialTagCount is the number of serial-number-like tags found.
	SerialTagCount int `json:"serial_tag_count,omitempty"`
}

// ImageScanReport is the complete analysis result for one image.
// It is constructed once per scanned image, filled by the pipeline steps,
// and read-only after Finalize; report writers consume it verbatim.
//
// Design decision: We use a single struct carrying both results and the
// per-image error rather than a (result, error) pair because batch scanning
// must surface partial failures without aborting the run. A report with a
// non-empty ErrorMessage is a first-class outcome the writers know how to
// render.
type ImageScanReport struct {
	// Path is the full path of the scanned image file.
	Path string `json:"path"`

	// Filename is the base name of the scanned image file.
	Filename string `json:"file"`

	// Width and Height are the pixel dimensions of the decoded image.
	Width  int `json:"width"`
	Height int `json:"height"`

	// DateScanned is when the analysis was performed.
	DateScanned time.Time `json:"date_scanned"`

	// MessageFound is true if any channel decoded a plausible message.
	MessageFound bool `json:"message_found"`

	// Message is the decoded message from the winning channel.
	Message string `json:"message,omitempty"`

	// ChannelWithMessage names the first channel (in red, green, blue
	// order) that decoded a message. Empty when no message was found.
	ChannelWithMessage string `json:"channel_with_message,omitempty"`

	// ChannelResults holds the per-channel analysis in red, green, blue order.
	ChannelResults []ChannelResult `json:"channels,omitempty"`

	// === Flattened per-channel summary fields ===
	// These field names are part of the reporting contract consumed by the
	// tabular exports.

	RedEntropyAvg   float64 `json:"red_entropy_avg"`
	GreenEntropyAvg float64 `json:"green_entropy_avg"`
	BlueEntropyAvg  float64 `json:"blue_entropy_avg"`
	RedChi2Max      float64 `json:"red_chi2_max"`
	GreenChi2Max    float64 `json:"green_chi2_max"`
	BlueChi2Max     float64 `json:"blue_chi2_max"`

	// EntropyAvg is the mean of the three per-channel entropy averages.
	EntropyAvg float64 `json:"entropy_avg"`

	// Chi2Max is the maximum of the three per-channel chi-square maxima.
	Chi2Max float64 `json:"chi2_max"`

	// EXIF holds identifying metadata findings, nil if none were found.
	EXIF *EXIFFindings `json:"exif,omitempty"`

	// PerformedSteps tracks which pipeline steps ran for this image.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Pixels is the decoded pixel buffer, shared between pipeline steps.
	// Excluded from JSON due to size; it has no place in reports.
	Pixels *Image `json:"-"`

	// Error is the per-image failure, if any. The batch driver records it
	// here and continues with the remaining images.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewImageScanReport creates an empty report for the given image path.
func NewImageScanReport(path string) *ImageScanReport {
	return &ImageScanReport{
		Path:        path,
		Filename:    filepath.Base(path),
		DateScanned: time.Now(),
	}
}

// Failed reports whether the image analysis failed.
func (r *ImageScanReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}

// RecordError stores a per-image failure on the report.
func (r *ImageScanReport) RecordError(err error) {
	r.Error = err
	r.ErrorMessage = err.Error()
}

// AddChannelResult appends one channel's analysis to the report.
// Channels must be added in the fixed red, green, blue order; the first
// added result with a decoded message wins ChannelWithMessage and is not
// overwritten by later channels.
func (r *ImageScanReport) AddChannelResult(cr ChannelResult) {
	r.ChannelResults = append(r.ChannelResults, cr)

	switch cr.Channel {
	case ChannelRed:
		r.RedEntropyAvg = cr.EntropyAvg
		r.RedChi2Max = cr.Chi2Max
	case ChannelGreen:
		r.GreenEntropyAvg = cr.EntropyAvg
		r.GreenChi2Max = cr.Chi2Max
	case ChannelBlue:
		r.BlueEntropyAvg = cr.EntropyAvg
		r.BlueChi2Max = cr.Chi2Max
	}

	if cr.MessageFound && !r.MessageFound {
		r.MessageFound = true
		r.Message = cr.Message
		r.ChannelWithMessage = cr.Channel.String()
	}
}

// Finalize computes the overall summary fields from the per-channel results.
// It must be called after all channels have been added.
func (r *ImageScanReport) Finalize() {
	if len(r.ChannelResults) == 0 {
		return
	}

	var entropySum, maxChi2 float64
	for _, cr := range r.ChannelResults {
		entropySum += cr.EntropyAvg
		if cr.Chi2Max > maxChi2 {
			maxChi2 = cr.Chi2Max
		}
	}
	r.EntropyAvg = entropySum / float64(len(r.ChannelResults))
	r.Chi2Max = maxChi2
}
