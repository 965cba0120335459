package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/vmassess/internal/report"
)

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })

		if bp == nil {
			t.Fatal("expected non-nil processor")
		}
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(2))

		if bp.concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))

		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})

	t.Run("applies WithBatchLogger option", func(t *testing.T) {
		t.Parallel()

		logger := slog.Default()
		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithBatchLogger(logger))

		if bp.logger != logger {
			t.Error("expected custom logger")
		}
	})
}

// TestBatchProcessorProcessBatch tests concurrent processing.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("returns jobs in input order", func(t *testing.T) {
		t.Parallel()

		inputs := []string{"a.json", "b.json", "c.json", "d.json", "e.json"}
		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(3))

		jobs, err := bp.ProcessBatch(context.Background(), inputs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != len(inputs) {
			t.Fatalf("expected %d jobs, got %d", len(inputs), len(jobs))
		}
		for i, job := range jobs {
			if job.Input != inputs[i] {
				t.Errorf("job %d: expected %s, got %s", i, inputs[i], job.Input)
			}
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak int32
		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{name: "slow", doFunc: func(_ context.Context, _ *Job) error {
				n := atomic.AddInt32(&current, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return nil
			}})
			return p
		}

		inputs := make([]string, 8)
		for i := range inputs {
			inputs[i] = filepath.Join("in", string(rune('a'+i))+".json")
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		if _, err := bp.ProcessBatch(context.Background(), inputs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := atomic.LoadInt32(&peak); got > 2 {
			t.Errorf("expected at most 2 concurrent jobs, got %d", got)
		}
	})

	t.Run("one failure does not stop the others", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("bad input")
		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{name: "load", doFunc: func(_ context.Context, job *Job) error {
				if job.Input == "bad.json" {
					return stepErr
				}
				return nil
			}})
			return p
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		jobs, err := bp.ProcessBatch(context.Background(), []string{"good1.json", "bad.json", "good2.json"})
		if err != nil {
			t.Fatalf("expected nil batch error, got %v", err)
		}

		if jobs[0].Err != nil || jobs[2].Err != nil {
			t.Errorf("expected good inputs to succeed: %v, %v", jobs[0].Err, jobs[2].Err)
		}
		if !errors.Is(jobs[1].Err, stepErr) {
			t.Errorf("expected bad input error, got %v", jobs[1].Err)
		}
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		_, err := bp.ProcessBatch(ctx, []string{"a.json", "b.json"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("empty input list", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		jobs, err := bp.ProcessBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("expected no jobs, got %d", len(jobs))
		}
	})
}

// TestBatchProcessorProcessBatchWithCallback tests streaming completion.
func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	t.Run("calls back once per input", func(t *testing.T) {
		t.Parallel()

		inputs := []string{"a.json", "b.json", "c.json"}
		seen := make(map[int]string)
		var mu sync.Mutex

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(2))
		err := bp.ProcessBatchWithCallback(context.Background(), inputs, func(job *Job, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = job.Input
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(seen) != len(inputs) {
			t.Fatalf("expected %d callbacks, got %d", len(inputs), len(seen))
		}
		for i, input := range inputs {
			if seen[i] != input {
				t.Errorf("index %d: expected %s, got %s", i, input, seen[i])
			}
		}
	})

	t.Run("renders real inputs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		inputs := []string{
			writeInput(t, dir, "esxi01.json", testInputJSON),
			writeInput(t, dir, "esxi02.json", `{"host": "esxi02"}`),
		}
		outDir := filepath.Join(dir, "out")

		factory := func() *Pipeline {
			return DefaultPipeline(nil,
				WithPipelineFormats([]report.Format{report.FormatJSON}),
				WithPipelineOutputDir(outDir),
			)
		}

		var mu sync.Mutex
		var outputs []string
		bp := NewBatchProcessor(factory, WithConcurrency(2))
		err := bp.ProcessBatchWithCallback(context.Background(), inputs, func(job *Job, _ int) {
			mu.Lock()
			defer mu.Unlock()
			outputs = append(outputs, job.Outputs...)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(outputs) != 2 {
			t.Errorf("expected 2 outputs, got %v", outputs)
		}
	})
}
