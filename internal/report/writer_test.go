package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/stegoscan/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.ImageScanReport {
	report := model.NewImageScanReport("/data/images/holiday.png")
	report.Width = 640
	report.Height = 480

	for _, ch := range model.Channels {
		cr := model.ChannelResult{
			Channel:     ch,
			ChannelText: ch.String(),
		}
		for plane := 0; plane < model.PlaneCount; plane++ {
			cr.PlaneStats[plane] = model.PlaneStats{
				Plane:   plane,
				Entropy: 0.5,
				Chi2:    float64(plane),
			}
		}
		if ch == model.ChannelGreen {
			cr.MessageFound = true
			cr.Message = "meet at dawn"
		} else {
			cr.RejectReason = "low printable ratio"
		}
		cr.ComputeDerived()
		report.AddChannelResult(cr)
	}
	report.Finalize()

	report.EXIF = &model.EXIFFindings{
		HasGPS:      true,
		GPSTagCount: 4,
		CameraModel: "PixelCam 3000",
	}

	return report
}

// createFailedReport creates a report representing an unreadable image.
func createFailedReport() *model.ImageScanReport {
	report := model.NewImageScanReport("/data/images/broken.png")
	report.RecordError(errors.New("image: unknown format"))
	return report
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "STEGOSCAN REPORT") {
			t.Error("expected output to contain header")
		}
		if !strings.Contains(output, "holiday.png") {
			t.Error("expected output to contain filename")
		}
	})

	t.Run("shows recovered message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "HIDDEN MESSAGE FOUND") {
			t.Error("expected message found status")
		}
		if !strings.Contains(output, "meet at dawn") {
			t.Error("expected decoded message in output")
		}
		if !strings.Contains(output, "green") {
			t.Error("expected winning channel in output")
		}
	})

	t.Run("shows channel statistics table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, channel := range []string{"red", "green", "blue"} {
			if !strings.Contains(output, channel) {
				t.Errorf("expected channel %q in output", channel)
			}
		}
		if !strings.Contains(output, "low printable ratio") {
			t.Error("expected reject reason in output")
		}
	})

	t.Run("plane tables only with option", func(t *testing.T) {
		t.Parallel()

		var plain, withPlanes bytes.Buffer
		report := createTestReport()

		if _, err := NewSimpleWriter(&plain).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewSimpleWriter(&withPlanes, WithPlaneTables(true)).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(plain.String(), "Bit planes") {
			t.Error("plane tables should be hidden by default")
		}
		if !strings.Contains(withPlanes.String(), "Bit planes (red)") {
			t.Error("expected plane table for red channel")
		}
	})

	t.Run("shows metadata findings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "GPS location data") {
			t.Error("expected GPS finding in output")
		}
		if !strings.Contains(output, "PixelCam 3000") {
			t.Error("expected camera model in output")
		}
	})

	t.Run("shows error status for failed image", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.Write(createFailedReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "ERROR") {
			t.Error("expected ERROR in status")
		}
		if !strings.Contains(output, "unknown format") {
			t.Error("expected error message in output")
		}
	})

	t.Run("batch output has summary table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		reports := []*model.ImageScanReport{createTestReport(), createFailedReport()}

		_, err := w.WriteBatch(reports)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "STEGOSCAN BATCH REPORT") {
			t.Error("expected batch header")
		}
		if !strings.Contains(output, "MESSAGE FOUND") {
			t.Error("expected message result row")
		}
		if !strings.Contains(output, "broken.png") {
			t.Error("expected failed image row")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed model.ImageScanReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Filename != "holiday.png" {
			t.Errorf("expected filename %q, got %q", "holiday.png", parsed.Filename)
		}
		if !parsed.MessageFound {
			t.Error("expected message_found true")
		}
		if parsed.ChannelWithMessage != "green" {
			t.Errorf("expected channel green, got %q", parsed.ChannelWithMessage)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
	})

	t.Run("batch output is a JSON array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		reports := []*model.ImageScanReport{createTestReport(), createFailedReport()}

		_, err := w.WriteBatch(reports)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed []*model.ImageScanReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(parsed) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(parsed))
		}
		if parsed[1].ErrorMessage == "" {
			t.Error("expected failed image to carry error message")
		}
	})

	t.Run("pixel buffer is excluded", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()
		report.Pixels = model.NewImage(4, 4)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "Pixels") {
			t.Error("pixel buffer must not appear in JSON output")
		}
	})
}

// TestFullJSONWriter tests the full JSON writer with metadata.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("includes version in output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewFullJSONWriter(&buf, "1.0.0", WithPrettyPrint())

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed JSONReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Version != "1.0.0" {
			t.Errorf("expected version %q, got %q", "1.0.0", parsed.Version)
		}
		if len(parsed.Reports) != 1 {
			t.Errorf("expected 1 report, got %d", len(parsed.Reports))
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Stegoscan Report") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "holiday.png") {
			t.Error("expected output to contain filename")
		}
	})

	t.Run("shows recovered message in alert and code block", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!CAUTION]") {
			t.Error("expected CAUTION alert for recovered message")
		}
		if !strings.Contains(output, "meet at dawn") {
			t.Error("expected decoded message in output")
		}
	})

	t.Run("writes per-channel and per-plane tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "### Channel Analysis") {
			t.Error("expected channel analysis section")
		}
		if !strings.Contains(output, "Bit planes: blue") {
			t.Error("expected plane table for blue channel")
		}
	})

	t.Run("batch output includes summary and pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		reports := []*model.ImageScanReport{createTestReport(), createFailedReport()}

		_, err := w.WriteBatch(reports)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Stegoscan Batch Report") {
			t.Error("expected batch header")
		}
		if !strings.Contains(output, "## Summary") {
			t.Error("expected summary section")
		}
		if !strings.Contains(output, "pie") {
			t.Error("expected mermaid pie chart")
		}
	})

	t.Run("writes metadata findings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "### Metadata Findings") {
			t.Error("expected metadata section")
		}
		if !strings.Contains(output, "PixelCam 3000") {
			t.Error("expected camera model in output")
		}
	})

	t.Run("writes footer with link", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "https://github.com/nao1215/stegoscan") {
			t.Error("expected footer with repository link")
		}
	})
}

// TestCSVWriter tests the CSV report writer.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and one row per image", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		reports := []*model.ImageScanReport{createTestReport(), createFailedReport()}

		_, err := w.WriteBatch(reports)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[0], "file,message_found,message,channel_with_message") {
			t.Errorf("unexpected header: %q", lines[0])
		}
		if !strings.Contains(lines[1], "holiday.png") {
			t.Error("expected first row to contain filename")
		}
		if !strings.Contains(lines[2], "unknown format") {
			t.Error("expected failed row to carry error message")
		}
	})

	t.Run("quotes messages containing commas", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := createTestReport()
		report.Message = "one, two, three"

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), `"one, two, three"`) {
			t.Error("expected message with commas to be quoted")
		}
	})
}

// TestMultiWriter tests writing to multiple outputs.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var buf1, buf2 bytes.Buffer
		w1 := NewSimpleWriter(&buf1)
		w2 := NewJSONWriter(&buf2)

		multi := NewMultiWriter(w1, w2)

		_, err := multi.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if buf1.Len() == 0 {
			t.Error("expected buf1 to have content")
		}
		if buf2.Len() == 0 {
			t.Error("expected buf2 to have content")
		}
		if !strings.Contains(buf2.String(), "{") {
			t.Error("expected buf2 (JSON) to contain JSON")
		}
	})

	t.Run("handles empty writers list", func(t *testing.T) {
		t.Parallel()

		multi := NewMultiWriter()

		n, err := multi.WriteBatch([]*model.ImageScanReport{createTestReport()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 bytes written for empty writers, got %d", n)
		}
	})
}
