package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of inputs processed at once when no
// concurrency is configured.
const DefaultConcurrency = 4

// BatchProcessor runs one pipeline per input file concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each input.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of inputs processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed jobs in input order.
	results []*Job
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

// WithConcurrency sets the maximum number of concurrent inputs.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		results:         make([]*Job, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every input and returns the jobs in input order.
// A failing input does not stop the others; its error is on Job.Err.
// The returned error is non-nil only when ctx was cancelled, in which case
// inputs that never started have nil entries.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []string) ([]*Job, error) {
	bp.logger.Info("starting batch processing",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*Job, len(inputs))

	err := bp.run(ctx, inputs, func(job *Job, index int) {
		bp.mu.Lock()
		bp.results[index] = job
		bp.mu.Unlock()
	})

	bp.logger.Info("batch processing complete",
		"total_inputs", len(inputs),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback runs every input and calls callback as each job
// finishes. The callback runs on the worker goroutine and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []string,
	callback func(job *Job, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	return bp.run(ctx, inputs, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, inputs []string, done func(job *Job, index int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			job := NewJob(input)
			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				bp.logger.Warn("input failed",
					"input", input,
					"error", err,
				)
			} else {
				bp.logger.Info("input completed",
					"input", input,
					"outputs", job.Outputs,
				)
			}

			done(job, i)

			// Failures stay on the job so the other inputs keep running.
			return nil
		})
	}

	return g.Wait()
}
