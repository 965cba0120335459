package config

import "fmt"

// LogSettings is the log section of the config file.
type LogSettings struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
	Compress   *bool  `yaml:"compress,omitempty"`
}

// Settings holds the options a config file can set.
// Zero values (and nil pointers) mean "not set".
type Settings struct {
	// Formats lists report formats by name ("html", "json", "markdown", "pdf").
	Formats []string `yaml:"formats,omitempty"`

	// OutputDir is the directory for report files.
	OutputDir string `yaml:"output_dir,omitempty"`

	// BatchSize is the number of inputs rendered concurrently.
	BatchSize int `yaml:"batch_size,omitempty"`

	// History enables or disables the history database.
	History *bool `yaml:"history,omitempty"`

	// HistoryDir overrides the history database directory.
	HistoryDir string `yaml:"history_dir,omitempty"`

	// Log configures file logging.
	Log LogSettings `yaml:"log,omitempty"`
}

// File represents the structure of the .vmassess configuration file.
type File struct {
	// Defaults apply to every run.
	Defaults Settings `yaml:"defaults,omitempty"`

	// Profiles are named overrides selected with --profile.
	Profiles map[string]Settings `yaml:"profiles,omitempty"`
}

// Profile returns the defaults merged with the named profile.
// An empty name returns the defaults alone.
func (cf *File) Profile(name string) (Settings, error) {
	if name == "" {
		return cf.Defaults, nil
	}

	override, ok := cf.Profiles[name]
	if !ok {
		return Settings{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	return mergeSettings(cf.Defaults, override), nil
}

// mergeSettings overlays the set fields of override on base.
func mergeSettings(base, override Settings) Settings {
	result := base

	if len(override.Formats) > 0 {
		result.Formats = override.Formats
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.BatchSize != 0 {
		result.BatchSize = override.BatchSize
	}
	if override.History != nil {
		result.History = override.History
	}
	if override.HistoryDir != "" {
		result.HistoryDir = override.HistoryDir
	}
	if override.Log.File != "" {
		result.Log.File = override.Log.File
	}
	if override.Log.MaxSizeMB != 0 {
		result.Log.MaxSizeMB = override.Log.MaxSizeMB
	}
	if override.Log.MaxBackups != 0 {
		result.Log.MaxBackups = override.Log.MaxBackups
	}
	if override.Log.MaxAgeDays != 0 {
		result.Log.MaxAgeDays = override.Log.MaxAgeDays
	}
	if override.Log.Compress != nil {
		result.Log.Compress = override.Log.Compress
	}

	return result
}

// Apply copies the set fields onto cfg.
// CLI flags are applied after this so they take precedence.
func (s Settings) Apply(cfg *Config) error {
	if len(s.Formats) > 0 {
		formats, err := ParseFormats(s.Formats)
		if err != nil {
			return err
		}
		cfg.Formats = formats
	}
	if s.OutputDir != "" {
		cfg.OutputDir = s.OutputDir
	}
	if s.BatchSize != 0 {
		cfg.BatchSize = s.BatchSize
	}
	if s.History != nil {
		cfg.SaveHistory = *s.History
	}
	if s.HistoryDir != "" {
		cfg.HistoryDir = s.HistoryDir
	}
	if s.Log.File != "" {
		cfg.Log.File = s.Log.File
	}
	if s.Log.MaxSizeMB != 0 {
		cfg.Log.MaxSizeMB = s.Log.MaxSizeMB
	}
	if s.Log.MaxBackups != 0 {
		cfg.Log.MaxBackups = s.Log.MaxBackups
	}
	if s.Log.MaxAgeDays != 0 {
		cfg.Log.MaxAgeDays = s.Log.MaxAgeDays
	}
	if s.Log.Compress != nil {
		cfg.Log.Compress = *s.Log.Compress
	}
	return nil
}
