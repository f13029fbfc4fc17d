package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/nao1215/stegoscan/internal/config"
	"github.com/nao1215/stegoscan/internal/database"
	"github.com/nao1215/stegoscan/internal/imgio"
	"github.com/nao1215/stegoscan/internal/log"
	"github.com/nao1215/stegoscan/internal/model"
	"github.com/nao1215/stegoscan/internal/report"
	"github.com/nao1215/stegoscan/internal/stego"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [image]",
		Short: "Analyze a single image for LSB steganography",
		Long: `Analyze runs the full steganalysis pipeline on a single image and prints
detailed per-plane statistics for every color channel.

For the given image it:
- Extracts the eight bit planes of the red, green, and blue channels
- Computes Shannon entropy and chi-square statistics per plane
- Attempts to decode a hidden message from each channel's LSB plane
- Reports identifying EXIF metadata found in the file

Examples:
  # Analyze one image with full plane statistics
  stegoscan analyze photo.png

  # Export the blue channel's bit planes as grayscale PNGs
  stegoscan analyze --save-bit-planes photo.png

  # Export the red channel's bit planes instead
  stegoscan analyze --save-bit-planes --channel red photo.png

  # Output the full result as JSON
  stegoscan analyze --json photo.png`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyzeCmd,
	}

	addCommonFlags(cmd)

	// Bit plane export flags
	cmd.Flags().Bool("save-bit-planes", false,
		"Save each bit plane of the selected channel as a grayscale PNG")
	cmd.Flags().String("channel", config.DefaultChannel.String(),
		"Channel whose bit planes are exported (red, green, or blue)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	channelName, err := cmd.Flags().GetString("channel")
	if err != nil {
		return err
	}
	channel, err := model.ParseChannel(channelName)
	if err != nil {
		return err
	}
	cfg.Channel = channel

	cfg.SaveBitPlanes, err = cmd.Flags().GetBool("save-bit-planes")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx := context.Background()
	return runAnalyze(ctx, cfg, logger)
}

// runAnalyze analyzes a single image and prints the detailed report.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	path := cfg.Targets[0]

	analyzer, err := stego.NewChannelAnalyzer(cfg.MaxMessageBytes, cfg.PrintableRatio)
	if err != nil {
		return err
	}

	p := createPipeline(cfg, analyzer, logger)
	scanReport := model.NewImageScanReport(path)

	if err := p.Execute(ctx, scanReport); err != nil {
		return fmt.Errorf("analysis failed for %s: %w", path, err)
	}

	// Export bit planes before report output so the export paths can be
	// mentioned alongside the result.
	if cfg.SaveBitPlanes && scanReport.Pixels != nil {
		if err := exportBitPlanes(scanReport, cfg.Channel); err != nil {
			logger.Error("bit plane export failed", "error", err)
		}
	}

	printAnalyzeHighlight(scanReport)

	if err := outputAnalyzeReport(cfg, scanReport); err != nil {
		return err
	}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return nil
		}
		defer db.Close()

		if err := db.SaveReport(ctx, scanReport); err != nil {
			logger.Error("failed to save scan report", "error", err)
		} else {
			logger.Info("scan report saved to database", "file", scanReport.Filename)
		}
	}

	return nil
}

// printAnalyzeHighlight prints a colored one-line verdict to the terminal.
// The detailed report follows in the selected format.
func printAnalyzeHighlight(r *model.ImageScanReport) {
	switch {
	case r.Failed():
		color.Red("✗ %s: analysis failed: %s", r.Filename, r.ErrorMessage)
	case r.MessageFound:
		color.New(color.FgRed, color.Bold).Printf(
			"! %s: hidden message found in %s channel\n", r.Filename, r.ChannelWithMessage)
	default:
		color.Green("✓ %s: no hidden message detected", r.Filename)
	}
}

// exportBitPlanes writes the selected channel's bit planes as grayscale PNGs
// into a directory next to the analyzed image.
func exportBitPlanes(r *model.ImageScanReport, channel model.Channel) error {
	outDir := imgio.BitPlaneDir(r.Path)
	paths, err := imgio.SaveBitPlanes(r.Pixels, channel, outDir)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %d bit plane images (%s channel) to %s\n", len(paths), channel, outDir)
	return nil
}

// outputAnalyzeReport writes the single-image report in the requested format.
// The human-readable format includes the per-plane statistics tables.
func outputAnalyzeReport(cfg *config.Config, scanReport *model.ImageScanReport) error {
	output, closer, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer closer()

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.CSVReport:
		writer = report.NewCSVWriter(output)
	default:
		writer = report.NewSimpleWriter(output,
			report.WithPlaneTables(true),
			report.WithVerbose(cfg.Verbose),
		)
	}

	_, err = writer.Write(scanReport)
	return err
}
