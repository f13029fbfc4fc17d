package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/stegoscan/internal/model"
)

// BatchProcessor handles concurrent analysis of multiple image files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-image execution
// 2. It allows different batch strategies (e.g., rate limiting)
// 3. It provides cleaner separation of concerns
//
// Image analysis is deterministic and shares no mutable state, so the only
// coordination needed is the results slice.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each image.
	// A factory ensures each analysis gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of images analyzed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed scan reports.
	// Access is synchronized via mutex.
	results []*model.ImageScanReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent image analyses.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each image to create a fresh
// pipeline instance so that pipeline state doesn't leak between images.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.ImageScanReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes multiple image files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Every file yields a report, including files that failed to decode: the
// failure is recorded in the report and the remaining images continue.
// The returned slice preserves the input order. The error return indicates
// batch-level cancellation, never a single image's failure.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.ImageScanReport, error) {
	bp.logger.Info("starting batch analysis",
		"total_images", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.ImageScanReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("analyzing image",
				"file", path,
				"index", i+1,
				"total", len(paths),
			)

			report := model.NewImageScanReport(path)

			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, report)

			// Store result regardless of error; the report carries the
			// failure information when the analysis failed.
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("image analysis failed",
					"file", path,
					"error", err,
				)
				// Don't return the error to errgroup - one broken image
				// must not abort the remaining batch.
				return nil
			}

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch analysis complete",
		"total_images", len(paths),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback analyzes multiple images and calls a callback for
// each completed analysis. This is useful for streaming results.
//
// The callback receives the report and the index of the path in the original
// slice. It is called from the goroutine that completed the analysis, so it
// must be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *model.ImageScanReport, index int),
) error {
	bp.logger.Info("starting batch analysis with callback",
		"total_images", len(paths),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewImageScanReport(path)
			pipeline := bp.pipelineFactory()
			_ = pipeline.Execute(ctx, report) //nolint:errcheck // Error is stored in report

			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}
