package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/nao1215/vmassess/internal/model"
	"github.com/nao1215/vmassess/internal/report"
)

// LoadStep reads the job's input file into job.Data.
type LoadStep struct{}

// NewLoadStep creates a LoadStep.
func NewLoadStep() *LoadStep {
	return &LoadStep{}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads the input file.
func (s *LoadStep) Do(_ context.Context, job *Job) error {
	data, err := model.LoadAssessmentData(job.Input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", job.Input, err)
	}
	job.Data = data
	return nil
}

// RenderStep writes one report file per format into an output directory.
// Files are named <base>.<ext> after the input file.
type RenderStep struct {
	formats   []report.Format
	outputDir string
	logger    *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderLogger sets the logger for a RenderStep.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a RenderStep for formats writing into outputDir.
func NewRenderStep(formats []report.Format, outputDir string, opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		formats:   formats,
		outputDir: outputDir,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do creates the output directory and writes every format. All formats are
// attempted; the errors of the ones that failed are joined.
func (s *RenderStep) Do(_ context.Context, job *Job) error {
	if err := os.MkdirAll(s.outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var errs []error
	for _, format := range s.formats {
		path := filepath.Join(s.outputDir, job.BaseName()+format.Extension())
		if err := report.WriteFile(format, job.Data, path); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s report %s: %w", format, path, err))
			continue
		}
		job.Outputs = append(job.Outputs, path)
		s.logger.Debug("report written", "format", string(format), "path", path)
	}

	return errors.Join(errs...)
}

// StreamStep renders a single format to a shared writer such as stdout.
// Each job is rendered into memory first and then copied under a lock, so
// concurrent jobs never interleave.
type StreamStep struct {
	format report.Format
	output io.Writer
	mu     *sync.Mutex
}

// NewStreamStep creates a StreamStep. Steps that share output must share mu.
func NewStreamStep(format report.Format, output io.Writer, mu *sync.Mutex) *StreamStep {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &StreamStep{
		format: format,
		output: output,
		mu:     mu,
	}
}

// Name returns the step name.
func (s *StreamStep) Name() string {
	return "stream"
}

// Do renders the job's data and writes it to the shared output.
func (s *StreamStep) Do(_ context.Context, job *Job) error {
	var buf bytes.Buffer
	w, err := report.NewWriter(s.format, &buf)
	if err != nil {
		return err
	}
	if _, err := w.Write(job.Data); err != nil {
		return fmt.Errorf("failed to render %s report: %w", s.format, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.output.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s report: %w", s.format, err)
	}
	return nil
}

// HistoryStore records generated reports. database.HistoryDB satisfies it.
type HistoryStore interface {
	SaveReport(ctx context.Context, label string, data model.AssessmentData) (int64, error)
}

// HistoryStep records the job's data in a HistoryStore. Recording is
// best-effort: a failed save is logged and the job still succeeds.
type HistoryStep struct {
	store  HistoryStore
	logger *slog.Logger
}

// HistoryStepOption configures a HistoryStep.
type HistoryStepOption func(*HistoryStep)

// WithHistoryLogger sets the logger for a HistoryStep.
func WithHistoryLogger(logger *slog.Logger) HistoryStepOption {
	return func(s *HistoryStep) {
		s.logger = logger
	}
}

// NewHistoryStep creates a HistoryStep backed by store.
func NewHistoryStep(store HistoryStore, opts ...HistoryStepOption) *HistoryStep {
	s := &HistoryStep{store: store}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do saves the job's data under its label.
func (s *HistoryStep) Do(ctx context.Context, job *Job) error {
	if s.store == nil {
		return nil
	}

	id, err := s.store.SaveReport(ctx, job.Label, job.Data)
	if err != nil {
		s.logger.Error("failed to save report history",
			"input", job.Input,
			"error", err,
		)
		return nil
	}

	job.HistoryID = id
	s.logger.Info("report saved to history", "input", job.Input, "id", id)
	return nil
}

// DefaultPipelineConfig selects the steps of DefaultPipeline.
type DefaultPipelineConfig struct {
	// Formats are the report formats to produce.
	Formats []report.Format

	// OutputDir receives report files when Stream is nil.
	OutputDir string

	// Stream receives the single report instead of files when set.
	Stream io.Writer

	// StreamMu serializes writes to Stream across pipelines.
	StreamMu *sync.Mutex

	// History records each job when set.
	History HistoryStore

	// Logger is passed to the steps that log.
	Logger *slog.Logger
}

// DefaultPipelineOption configures DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineFormats sets the report formats.
func WithPipelineFormats(formats []report.Format) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Formats = formats
	}
}

// WithPipelineOutputDir sets the report directory.
func WithPipelineOutputDir(dir string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.OutputDir = dir
	}
}

// WithPipelineStream writes the first format to w instead of files.
func WithPipelineStream(w io.Writer, mu *sync.Mutex) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Stream = w
		c.StreamMu = mu
	}
}

// WithPipelineHistory records each job in store.
func WithPipelineHistory(store HistoryStore) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.History = store
	}
}

// WithPipelineLogger sets the logger passed to the steps.
func WithPipelineLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline builds load, render (or stream), and optional history steps.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	cfg := DefaultPipelineConfig{
		OutputDir: ".",
		Logger:    slog.Default(),
	}
	for _, opt := range configOpts {
		opt(&cfg)
	}

	p := New(pipelineOpts...)
	p.AddStep(NewLoadStep())

	if cfg.Stream != nil && len(cfg.Formats) > 0 {
		p.AddStep(NewStreamStep(cfg.Formats[0], cfg.Stream, cfg.StreamMu))
	} else {
		p.AddStep(NewRenderStep(cfg.Formats, cfg.OutputDir, WithRenderLogger(cfg.Logger)))
	}

	if cfg.History != nil {
		p.AddStep(NewHistoryStep(cfg.History, WithHistoryLogger(cfg.Logger)))
	}

	return p
}
