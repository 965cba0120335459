package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nao1215/vmassess/internal/config"
	"github.com/nao1215/vmassess/internal/database"
	"github.com/nao1215/vmassess/internal/log"
	"github.com/nao1215/vmassess/internal/pipeline"
	"github.com/nao1215/vmassess/internal/report"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [input...]",
		Short: "Generate reports from assessment data files",
		Long: `Report loads assessment data files (JSON, or YAML with a .yaml/.yml
extension) and writes one report per selected format for each input.

Reports are named after the input file: esxi01.json produces esxi01.html,
esxi01.json, esxi01.md, and esxi01.pdf in the output directory. The HTML and
PDF reports are static summaries. The JSON report is the data itself,
indented with two spaces.

Examples:
  # HTML and JSON reports in the current directory
  vmassess report results.json

  # Every format for several hosts, two at a time
  vmassess report -f html,json,markdown,pdf -o reports/ -b 2 esxi01.json esxi02.json

  # Print the JSON export to stdout
  vmassess report --stdout -f json results.yaml

  # Use a profile from the configuration file
  vmassess report -p audit results.json`,
		Args: cobra.ArbitraryArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringSliceP("format", "f", formatNames(config.DefaultFormats()),
		"Report formats: html, json, markdown, pdf (repeatable or comma-separated)")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory for report files (created if needed)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of inputs processed concurrently")
	cmd.Flags().Bool("stdout", false,
		"Write the report to stdout instead of files (one format, one input)")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .vmassess in current or home directory)")
	cmd.Flags().StringP("profile", "p", "",
		"Named profile from the configuration file")

	cmd.Flags().Bool("no-history", false,
		"Do not record the reports in the history database")
	cmd.Flags().String("history-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closer := setupLogger(cfg, cmd.ErrOrStderr())
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runReport(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
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

// getLogFileFlag retrieves the log-file flag from the command or its parent.
func getLogFileFlag(cmd *cobra.Command) string {
	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		logFile, err = cmd.Root().PersistentFlags().GetString("log-file")
		if err != nil {
			return ""
		}
	}
	return logFile
}

// buildConfig layers defaults, the config file (and profile), and the flags
// the user actually set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.Profile, err = flags.GetString("profile")
	if err != nil {
		return nil, err
	}

	// An explicit config path must exist. Without one, a missing file just
	// means defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		settings, err := cf.Profile(cfg.Profile)
		if err != nil {
			return nil, err
		}
		if err := settings.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	case cfg.Profile != "":
		return nil, fmt.Errorf("%w: %q (no configuration file found)", config.ErrProfileNotFound, cfg.Profile)
	}

	if flags.Changed("format") {
		names, err := flags.GetStringSlice("format")
		if err != nil {
			return nil, err
		}
		if cfg.Formats, err = config.ParseFormats(names); err != nil {
			return nil, err
		}
	}

	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("history-dir") {
		if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
			return nil, err
		}
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.SaveHistory = false
	}

	cfg.Stdout, err = flags.GetBool("stdout")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	if logFile := getLogFileFlag(cmd); logFile != "" {
		cfg.Log.File = logFile
	}

	cfg.Inputs = args

	return cfg, nil
}

// setupLogger creates the secure logger. With a log file configured, logs
// also go to a rotating file, which the caller closes.
func setupLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, io.Closer) {
	if cfg.Log.File == "" {
		return log.NewSecureLogger(stderr, cfg.Verbose), nil
	}

	rotating := log.NewRotatingWriter(log.RotateOptions{
		Filename:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	return log.NewSecureLogger(io.MultiWriter(stderr, rotating), cfg.Verbose), rotating
}

// runReport renders every input and returns the joined input errors.
func runReport(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	logger.Info("starting report run",
		"inputs", cfg.Inputs,
		"formats", formatNames(cfg.Formats),
		"outputDir", cfg.OutputDir,
		"batchSize", cfg.BatchSize,
		"saveHistory", cfg.SaveHistory,
	)

	// History is best-effort: reports are still written without it.
	var history pipeline.HistoryStore
	if cfg.SaveHistory {
		db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
		if err != nil {
			logger.Error("failed to open history database", "dir", cfg.HistoryDir, "error", err)
		} else {
			defer db.Close()
			history = db
			logger.Debug("history database opened", "path", db.Path())
		}
	}

	var streamMu sync.Mutex
	factory := func() *pipeline.Pipeline {
		opts := []pipeline.DefaultPipelineOption{
			pipeline.WithPipelineFormats(cfg.Formats),
			pipeline.WithPipelineOutputDir(cfg.OutputDir),
			pipeline.WithPipelineLogger(logger),
		}
		if cfg.Stdout {
			opts = append(opts, pipeline.WithPipelineStream(stdout, &streamMu))
		}
		if history != nil {
			opts = append(opts, pipeline.WithPipelineHistory(history))
		}
		return pipeline.DefaultPipeline([]pipeline.Option{pipeline.WithLogger(logger)}, opts...)
	}

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	var errs []error
	err := bp.ProcessBatchWithCallback(ctx, cfg.Inputs, func(job *pipeline.Job, _ int) {
		mu.Lock()
		defer mu.Unlock()

		if !cfg.Stdout {
			for _, out := range job.Outputs {
				fmt.Fprintf(stdout, "Wrote %s\n", out)
			}
		}
		if job.Err != nil {
			fmt.Fprintf(stderr, "Report error for %s: %v\n", job.Input, job.Err)
			errs = append(errs, job.Err)
		}
	})
	if err != nil {
		return err
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d inputs failed: %w", len(errs), len(cfg.Inputs), errors.Join(errs...))
	}
	return nil
}

// formatNames converts formats back to their flag names.
func formatNames(formats []report.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
