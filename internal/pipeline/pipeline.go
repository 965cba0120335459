package pipeline

import (
	"context"
	"log/slog"
)

// Step is one stage of report generation.
type Step interface {
	// Do runs the step against job. Steps record their results on the job.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError keeps running later steps after one fails.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to run later steps after a
// failure. The default stops at the first failing step, since nothing can be
// rendered from data that failed to load.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence. Cancellation is checked before each
// step. The failing step's error is stored in job.Err and returned unless
// continueOnError is set.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"input", job.Input,
				"reason", ctx.Err(),
			)
			job.Err = ctx.Err()
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"input", job.Input,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"input", job.Input,
				"error", err,
			)

			job.Err = err

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"input", job.Input,
			)
		}

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
