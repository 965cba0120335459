package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/nao1215/vmassess/internal/report"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "vmassess"

	// DefaultOutputDir is where report files go when no directory is given.
	DefaultOutputDir = "."

	// DefaultBatchSize is the number of input files rendered concurrently.
	DefaultBatchSize = 4

	// DefaultLogMaxSizeMB is the size at which the log file is rotated.
	DefaultLogMaxSizeMB = 25

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 5

	// DefaultLogMaxAgeDays is how long rotated log files are kept.
	DefaultLogMaxAgeDays = 7
)

// DefaultFormats returns the formats written when none are configured.
func DefaultFormats() []report.Format {
	return []report.Format{report.FormatHTML, report.FormatJSON}
}

// LogConfig controls the optional rotating log file.
type LogConfig struct {
	// File is the log file path. Empty disables file logging.
	File string

	// MaxSizeMB is the size in megabytes at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int

	// Compress gzips rotated files.
	Compress bool
}

// Config holds all options for a report run.
// It is populated from defaults, then the config file, then CLI flags,
// and passed down explicitly rather than kept in global state.
type Config struct {
	// Inputs are the assessment data files to render.
	Inputs []string

	// Formats are the report formats written for every input.
	Formats []report.Format

	// OutputDir is the directory report files are written to.
	// The CLI creates it if needed.
	OutputDir string

	// Stdout writes the single selected format to standard output
	// instead of files.
	Stdout bool

	// BatchSize is the number of inputs rendered concurrently.
	BatchSize int

	// SaveHistory stores each input in the history database.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	HistoryDir string

	// Verbose enables debug logging.
	Verbose bool

	// Log configures file logging.
	Log LogConfig

	// ConfigFilePath is the explicit config file path, if any.
	ConfigFilePath string

	// Profile selects a named profile from the config file.
	Profile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Formats:     DefaultFormats(),
		OutputDir:   DefaultOutputDir,
		BatchSize:   DefaultBatchSize,
		SaveHistory: true,
		HistoryDir:  XDGDataDir(),
		Log: LogConfig{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
	}
}

// XDGDataDir returns the XDG data directory for vmassess.
// On Linux: ~/.local/share/vmassess
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for vmassess.
// On Linux: ~/.config/vmassess
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ParseFormats parses format names into report formats.
// Each name may itself be a comma-separated list. Duplicates are dropped
// and the first-seen order is kept.
func ParseFormats(names []string) ([]report.Format, error) {
	var formats []report.Format
	seen := make(map[report.Format]bool)

	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f, err := report.ParseFormat(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, part)
			}
			if seen[f] {
				continue
			}
			seen[f] = true
			formats = append(formats, f)
		}
	}

	return formats, nil
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if len(c.Formats) == 0 {
		return ErrNoFormat
	}

	for _, f := range c.Formats {
		if f.Extension() == "" {
			return fmt.Errorf("%w: %q", ErrInvalidFormat, string(f))
		}
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.Stdout && (len(c.Formats) != 1 || len(c.Inputs) != 1) {
		return ErrStdoutNeedsSingle
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return ErrInvalidLogRotation
	}

	return nil
}
