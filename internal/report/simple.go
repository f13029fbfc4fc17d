package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/stegoscan/internal/model"
	"github.com/olekukonko/tablewriter"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with aligned statistics
// tables and clear section formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color is applied by the CLI layer where a terminal is guaranteed
type SimpleWriter struct {
	baseWriter

	// showPlanes controls whether per-plane statistics tables are shown.
	showPlanes bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithPlaneTables configures the writer to show per-plane statistics tables.
func WithPlaneTables(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showPlanes = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showPlanes: false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single image report in human-readable format.
func (w *SimpleWriter) Write(report *model.ImageScanReport) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "STEGOSCAN REPORT")
	w.writeImage(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteBatch outputs the batch reports with a leading summary table.
func (w *SimpleWriter) WriteBatch(reports []*model.ImageScanReport) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "STEGOSCAN BATCH REPORT")
	w.writeBatchTable(&sb, reports)

	for _, report := range reports {
		if report.MessageFound || report.Failed() || w.verbose {
			w.writeImage(&sb, report)
		}
	}

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeBanner writes the top-of-report banner.
func (w *SimpleWriter) writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	pad := (70 - len(title)) / 2
	if pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writeBatchTable writes the one-row-per-image summary table.
func (w *SimpleWriter) writeBatchTable(sb *strings.Builder, reports []*model.ImageScanReport) {
	table := tablewriter.NewWriter(sb)
	table.Header("File", "Result", "Channel", "Avg Entropy", "Max Chi2")

	for _, r := range reports {
		result := "clean"
		switch {
		case r.Failed():
			result = "error"
		case r.MessageFound:
			result = "MESSAGE FOUND"
		}
		_ = table.Append([]string{
			r.Filename,
			result,
			r.ChannelWithMessage,
			formatFloat(r.EntropyAvg),
			formatFloat(r.Chi2Max),
		})
	}

	_ = table.Render()
	sb.WriteString("\n")
}

// writeImage writes the full section for one scanned image.
func (w *SimpleWriter) writeImage(sb *strings.Builder, report *model.ImageScanReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(report.Filename)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Path:       %s\n", report.Path))
	sb.WriteString(fmt.Sprintf("Dimensions: %dx%d\n", report.Width, report.Height))
	sb.WriteString(fmt.Sprintf("Scan Date:  %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST")))

	if report.Failed() {
		sb.WriteString(fmt.Sprintf("Status:     ERROR - %s\n\n", report.ErrorMessage))
		return
	}

	if report.MessageFound {
		sb.WriteString(fmt.Sprintf("Status:     HIDDEN MESSAGE FOUND (%s channel)\n", report.ChannelWithMessage))
		sb.WriteString("\n")
		sb.WriteString("  Message:\n")
		for _, line := range strings.Split(report.Message, "\n") {
			sb.WriteString("    " + line + "\n")
		}
	} else {
		sb.WriteString("Status:     Clean\n")
	}
	sb.WriteString("\n")

	w.writeChannelTable(sb, report)

	if w.showPlanes {
		for _, cr := range report.ChannelResults {
			w.writePlaneTable(sb, cr)
		}
	}

	w.writeEXIF(sb, report)
}

// writeChannelTable writes the per-channel summary statistics.
func (w *SimpleWriter) writeChannelTable(sb *strings.Builder, report *model.ImageScanReport) {
	if len(report.ChannelResults) == 0 {
		return
	}

	table := tablewriter.NewWriter(sb)
	table.Header("Channel", "Avg Entropy", "Max Chi2", "Outcome")

	for _, cr := range report.ChannelResults {
		outcome := "clean"
		if cr.MessageFound {
			outcome = "message found"
		} else if cr.RejectReason != "" {
			outcome = cr.RejectReason
		}
		_ = table.Append([]string{
			cr.ChannelText,
			formatFloat(cr.EntropyAvg),
			formatFloat(cr.Chi2Max),
			outcome,
		})
	}

	_ = table.Render()
	sb.WriteString("\n")
}

// writePlaneTable writes the eight-plane statistics table for one channel.
func (w *SimpleWriter) writePlaneTable(sb *strings.Builder, cr model.ChannelResult) {
	sb.WriteString(fmt.Sprintf("Bit planes (%s):\n", cr.ChannelText))

	table := tablewriter.NewWriter(sb)
	table.Header("Plane", "Entropy", "Chi2")

	for _, ps := range cr.PlaneStats {
		_ = table.Append([]string{
			strconv.Itoa(ps.Plane),
			formatFloat(ps.Entropy),
			formatFloat(ps.Chi2),
		})
	}

	_ = table.Render()
	sb.WriteString("\n")
}

// writeEXIF writes the metadata findings section if any were recorded.
func (w *SimpleWriter) writeEXIF(sb *strings.Builder, report *model.ImageScanReport) {
	if report.EXIF == nil {
		return
	}

	sb.WriteString("Metadata findings:\n")
	if report.EXIF.HasGPS {
		sb.WriteString(fmt.Sprintf("  [+] GPS location data (%d tags)\n", report.EXIF.GPSTagCount))
	}
	if report.EXIF.CameraModel != "" {
		sb.WriteString(fmt.Sprintf("  [+] Camera model: %s\n", report.EXIF.CameraModel))
	}
	if report.EXIF.Software != "" {
		sb.WriteString(fmt.Sprintf("  [+] Software: %s\n", report.EXIF.Software))
	}
	if report.EXIF.HasTimestamp {
		sb.WriteString("  [+] Original timestamp present\n")
	}
	if report.EXIF.SerialTagCount > 0 {
		sb.WriteString(fmt.Sprintf("  [+] Serial number tags: %d\n", report.EXIF.SerialTagCount))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by stegoscan\n")
	sb.WriteString("https://github.com/nao1215/stegoscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
