package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/nao1215/stegoscan/internal/model"
)

// csvHeader is the fixed column set of the CSV export. The column names and
// order are part of the reporting contract consumed by downstream tooling.
var csvHeader = []string{
	"file",
	"message_found",
	"message",
	"channel_with_message",
	"red_entropy_avg",
	"red_chi2_max",
	"green_entropy_avg",
	"green_chi2_max",
	"blue_entropy_avg",
	"blue_chi2_max",
	"entropy_avg",
	"chi2_max",
	"error",
}

// CSVWriter outputs reports as CSV rows, one row per image.
// This format is designed for spreadsheet import and downstream processing.
//
// Design decision: We use standard encoding/csv because RFC 4180 quoting is
// all the export needs; decoded messages may contain commas and newlines,
// and the stdlib writer escapes both correctly.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single image report as a CSV document with a header row.
func (w *CSVWriter) Write(report *model.ImageScanReport) (int, error) {
	return w.WriteBatch([]*model.ImageScanReport{report})
}

// WriteBatch outputs all batch reports as a CSV document with a header row.
// Failed images appear as rows with the error column set.
func (w *CSVWriter) WriteBatch(reports []*model.ImageScanReport) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}

	for _, report := range reports {
		if err := cw.Write(csvRow(report)); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// csvRow flattens one report into a CSV record matching csvHeader.
func csvRow(r *model.ImageScanReport) []string {
	return []string{
		r.Filename,
		strconv.FormatBool(r.MessageFound),
		r.Message,
		r.ChannelWithMessage,
		csvFloat(r.RedEntropyAvg),
		csvFloat(r.RedChi2Max),
		csvFloat(r.GreenEntropyAvg),
		csvFloat(r.GreenChi2Max),
		csvFloat(r.BlueEntropyAvg),
		csvFloat(r.BlueChi2Max),
		csvFloat(r.EntropyAvg),
		csvFloat(r.Chi2Max),
		r.ErrorMessage,
	}
}

// csvFloat renders a statistic with enough precision for later analysis.
func csvFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// countingWriter tracks bytes written through the csv writer so the
// Writer interface contract on byte counts holds.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
