package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/mojifix/internal/config"
	"github.com/nao1215/mojifix/internal/model"
)

// BatchProcessor handles concurrent processing of multiple files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Each file gets its own pipeline and its own document, so nothing is
// shared between goroutines except the results slice.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of files processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed documents.
	// Access is synchronized via mutex.
	results []*model.Document
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

// WithConcurrency sets the maximum number of files processed at once.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// The pipelineFactory function is called once per file.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     config.DefaultBatchSize,
		results:         make([]*model.Document, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch processes multiple files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Returns one document per path, in the order of paths, even for files
// that failed. A failure is recorded on its document and does not stop
// the other files. The error return is only set when the batch was
// cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.Document, error) {
	bp.logger.Info("starting batch processing",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.Document, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("processing file",
				"path", path,
				"index", i+1,
				"total", len(paths),
			)

			doc := model.NewDocument(path)
			err := bp.pipelineFactory().Execute(ctx, doc)

			bp.mu.Lock()
			bp.results[i] = doc
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("file failed",
					"path", path,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("file completed",
				"path", path,
				"fixes", len(doc.Fixes),
			)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_files", len(paths),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback processes multiple files and calls callback
// for each completed document with its index in paths.
// The callback is called from worker goroutines and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(doc *model.Document, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_files", len(paths),
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

			doc := model.NewDocument(path)
			_ = bp.pipelineFactory().Execute(ctx, doc) //nolint:errcheck // Error is stored in the document

			callback(doc, i)

			return nil
		})
	}

	return g.Wait()
}
