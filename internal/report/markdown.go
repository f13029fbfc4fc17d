package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/stegoscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single image report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ImageScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Stegoscan Report")
	md.PlainText("")

	w.writeImage(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs reports for a batch of images, preceded by a summary
// section covering the whole run.
func (w *MarkdownWriter) WriteBatch(reports []*model.ImageScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Stegoscan Batch Report")
	md.PlainText("")

	w.writeBatchSummary(md, reports)

	for _, report := range reports {
		w.writeImage(md, report)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeBatchSummary writes the run-level summary with a distribution chart.
func (w *MarkdownWriter) writeBatchSummary(md *markdown.Markdown, reports []*model.ImageScanReport) {
	var withMessage, clean, failed int
	for _, r := range reports {
		switch {
		case r.Failed():
			failed++
		case r.MessageFound:
			withMessage++
		default:
			clean++
		}
	}

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"Hidden message found", strconv.Itoa(withMessage)},
			{"Clean", strconv.Itoa(clean)},
			{"Failed to analyze", strconv.Itoa(failed)},
			{"**Total**", "**" + strconv.Itoa(len(reports)) + "**"},
		},
	})
	md.PlainText("")

	if len(reports) > 0 {
		w.writePieChart(md, withMessage, clean, failed)
	}

	switch {
	case withMessage > 0:
		md.Warningf("Hidden messages detected in %d image(s).", withMessage)
	case failed > 0:
		md.Note(fmt.Sprintf("%d image(s) could not be analyzed.", failed))
	default:
		md.Tip("No hidden messages detected.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart for the scan outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, withMessage, clean, failed int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Scan Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if withMessage > 0 {
		chart.LabelAndIntValue("Message found", uint64(withMessage))
	}
	if clean > 0 {
		chart.LabelAndIntValue("Clean", uint64(clean))
	}
	if failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeImage writes the full section for one scanned image.
func (w *MarkdownWriter) writeImage(md *markdown.Markdown, report *model.ImageScanReport) {
	md.H2(report.Filename)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Path", "`" + report.Path + "`"},
			{"Dimensions", strconv.Itoa(report.Width) + "x" + strconv.Itoa(report.Height)},
			{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")

	if report.Failed() {
		return
	}

	if report.MessageFound {
		md.Cautionf("Hidden message recovered from %s channel.", report.ChannelWithMessage)
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightText, report.Message)
		md.PlainText("")
	}

	w.writeChannels(md, report)
	w.writeEXIF(md, report)
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ImageScanReport) string {
	if report.Failed() {
		return "❌ Error - " + report.ErrorMessage
	}
	if report.MessageFound {
		return "🔴 Hidden message found"
	}
	return "✅ Clean"
}

// writeChannels writes the per-channel statistics tables.
func (w *MarkdownWriter) writeChannels(md *markdown.Markdown, report *model.ImageScanReport) {
	if len(report.ChannelResults) == 0 {
		return
	}

	md.H3("Channel Analysis")
	md.PlainText("")

	rows := make([][]string, 0, len(report.ChannelResults))
	for _, cr := range report.ChannelResults {
		outcome := "clean"
		if cr.MessageFound {
			outcome = "message found"
		} else if cr.RejectReason != "" {
			outcome = cr.RejectReason
		}
		rows = append(rows, []string{
			cr.ChannelText,
			formatFloat(cr.EntropyAvg),
			formatFloat(cr.Chi2Max),
			outcome,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Channel", "Avg Entropy", "Max Chi²", "Outcome"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, cr := range report.ChannelResults {
		w.writePlaneTable(md, cr)
	}
}

// writePlaneTable writes the eight-plane statistics table for one channel.
func (w *MarkdownWriter) writePlaneTable(md *markdown.Markdown, cr model.ChannelResult) {
	rows := make([][]string, 0, model.PlaneCount)
	for _, ps := range cr.PlaneStats {
		rows = append(rows, []string{
			strconv.Itoa(ps.Plane),
			formatFloat(ps.Entropy),
			formatFloat(ps.Chi2),
		})
	}

	md.H4("Bit planes: " + cr.ChannelText)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Plane", "Entropy", "Chi²"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeEXIF writes the metadata findings section if any were recorded.
func (w *MarkdownWriter) writeEXIF(md *markdown.Markdown, report *model.ImageScanReport) {
	if report.EXIF == nil {
		return
	}

	md.H3("Metadata Findings")
	md.PlainText("")

	rows := [][]string{}
	if report.EXIF.HasGPS {
		rows = append(rows, []string{"GPS location", strconv.Itoa(report.EXIF.GPSTagCount) + " tag(s)"})
	}
	if report.EXIF.CameraModel != "" {
		rows = append(rows, []string{"Camera model", report.EXIF.CameraModel})
	}
	if report.EXIF.Software != "" {
		rows = append(rows, []string{"Software", report.EXIF.Software})
	}
	if report.EXIF.HasTimestamp {
		rows = append(rows, []string{"Original timestamp", "present"})
	}
	if report.EXIF.SerialTagCount > 0 {
		rows = append(rows, []string{"Serial numbers", strconv.Itoa(report.EXIF.SerialTagCount) + " tag(s)"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Finding", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [stegoscan](https://github.com/nao1215/stegoscan)*")
}

// formatFloat renders a statistic with four decimal places.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
