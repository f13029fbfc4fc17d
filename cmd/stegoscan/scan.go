package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/stegoscan/internal/config"
	"github.com/nao1215/stegoscan/internal/database"
	"github.com/nao1215/stegoscan/internal/imgio"
	"github.com/nao1215/stegoscan/internal/log"
	"github.com/nao1215/stegoscan/internal/model"
	"github.com/nao1215/stegoscan/internal/pipeline"
	"github.com/nao1215/stegoscan/internal/report"
	"github.com/nao1215/stegoscan/internal/stego"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [directory]...",
		Short: "Scan directories of images for LSB steganography",
		Long: `Scan sweeps one or more directories for PNG and BMP images and analyzes
each of them for LSB steganography.

For every image it:
- Extracts the bit planes of the red, green, and blue channels
- Computes Shannon entropy and chi-square statistics per plane
- Attempts to decode a hidden message from each channel's LSB plane
- Reports identifying EXIF metadata found in the file

Images that fail to load are reported with their error; the scan
continues with the remaining images.

Examples:
  # Scan a directory
  stegoscan scan ./images

  # Scan multiple directories with higher concurrency
  stegoscan scan --batch 8 ./camera ./downloads

  # Output a CSV report to a file
  stegoscan scan --csv -o report.csv ./images

  # Output a JSON report
  stegoscan scan --json ./images

  # Use a custom configuration file
  stegoscan scan -c myconfig.yaml ./images`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	addCommonFlags(cmd)

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of images analyzed concurrently")

	return cmd
}

// addCommonFlags registers the flags shared by scan and analyze.
func addCommonFlags(cmd *cobra.Command) {
	// Decoder flags
	cmd.Flags().IntP("max-bytes", "M", config.DefaultMaxMessageBytes,
		"Maximum decoded message length in bytes")
	cmd.Flags().Float64P("printable-ratio", "r", config.DefaultPrintableRatio,
		"Minimum fraction of printable characters for a decoded message to count")
	cmd.Flags().IntP("max-megapixels", "P", config.DefaultMaxImageMegapixels,
		"Reject images larger than this many megapixels (0 disables the limit)")

	// Discovery flags
	cmd.Flags().StringSliceP("ext", "x", config.DefaultExtensions,
		"Image extensions to scan")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .stegoscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --csv)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --csv)")
	cmd.Flags().Bool("csv", false,
		"Output CSV report (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-db", false,
		"Do not save scan results to the history database")
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the flags shared by scan and analyze.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxMessageBytes, err = cmd.Flags().GetInt("max-bytes")
	if err != nil {
		return nil, err
	}

	cfg.PrintableRatio, err = cmd.Flags().GetFloat64("printable-ratio")
	if err != nil {
		return nil, err
	}

	cfg.MaxImageMegapixels, err = cmd.Flags().GetInt("max-megapixels")
	if err != nil {
		return nil, err
	}

	cfg.Extensions, err = cmd.Flags().GetStringSlice("ext")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load configuration file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, err
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags override the config file where both are set.
	if cmd.Flags().Changed("max-bytes") {
		if cfg.MaxMessageBytes, err = cmd.Flags().GetInt("max-bytes"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("printable-ratio") {
		if cfg.PrintableRatio, err = cmd.Flags().GetFloat64("printable-ratio"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-megapixels") {
		if cfg.MaxImageMegapixels, err = cmd.Flags().GetInt("max-megapixels"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("ext") {
		if cfg.Extensions, err = cmd.Flags().GetStringSlice("ext"); err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	return cfg, nil
}

// runScan executes the directory scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Discover images across all target directories.
	var paths []string
	for _, target := range cfg.Targets {
		found, err := imgio.DiscoverImages(target, cfg.Extensions)
		if err != nil {
			return fmt.Errorf("failed to scan directory %s: %w", target, err)
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		fmt.Println("No images found.")
		return nil
	}

	fmt.Printf("Scanning %d images (concurrency: %d)...\n\n", len(paths), cfg.BatchSize)
	startTime := time.Now()

	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	analyzer, err := stego.NewChannelAnalyzer(cfg.MaxMessageBytes, cfg.PrintableRatio)
	if err != nil {
		return err
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipeline(cfg, analyzer, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Stream per-image progress while collecting all reports in input
	// order for the final aggregated output.
	reports := make([]*model.ImageScanReport, len(paths))
	var mu sync.Mutex
	var completed int
	err = bp.ProcessBatchWithCallback(ctx, paths, func(r *model.ImageScanReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		reports[index] = r
		completed++
		switch {
		case r.Failed():
			fmt.Printf("[%d/%d] %s: error: %s\n", completed, len(paths), r.Filename, r.ErrorMessage)
		case r.MessageFound:
			fmt.Printf("[%d/%d] %s: hidden message found (%s channel)\n",
				completed, len(paths), r.Filename, r.ChannelWithMessage)
		default:
			fmt.Printf("[%d/%d] %s: clean\n", completed, len(paths), r.Filename)
		}
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nScan completed in %s\n", elapsed.Round(time.Millisecond))

	if err := outputReports(cfg, reports); err != nil {
		return err
	}

	if db != nil {
		if err := db.SaveReports(ctx, reports); err != nil {
			logger.Error("failed to save scan reports", "error", err)
		} else {
			logger.Info("scan reports saved to database", "count", len(reports))
		}
	}

	return nil
}

// createPipeline creates the analysis pipeline for one image.
// The analyzer is shared across pipelines; it carries no mutable state.
func createPipeline(cfg *config.Config, analyzer *stego.ChannelAnalyzer, logger *slog.Logger) *pipeline.Pipeline {
	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(false),
	)

	p.AddSteps(
		pipeline.NewLoadImageStep(imgio.NewLoader(cfg.MaxImageMegapixels)),
		pipeline.NewLSBScanStep(analyzer, pipeline.WithLSBLogger(logger)),
		pipeline.NewEXIFStep(logger),
	)

	return p
}

// outputReports writes the reports in the requested format.
func outputReports(cfg *config.Config, reports []*model.ImageScanReport) error {
	output, closer, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer closer()

	writer := selectWriter(cfg, output)
	_, err = writer.WriteBatch(reports)
	return err
}

// openReportOutput resolves the report destination: the --output file when
// set, stdout otherwise.
func openReportOutput(cfg *config.Config) (*os.File, func(), error) {
	if cfg.ReportFile == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain recovered payloads; keep them owner-readable only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

// selectWriter picks the report writer for the configured format.
func selectWriter(cfg *config.Config, output *os.File) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	case cfg.CSVReport:
		return report.NewCSVWriter(output)
	default:
		return report.NewSimpleWriter(output)
	}
}
