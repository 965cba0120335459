package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and related helpers so
// that callers can match them with errors.Is().
var (
	// ErrNoInput is returned when no assessment data file is given.
	ErrNoInput = errors.New("no input specified: provide one or more assessment data files")

	// ErrNoFormat is returned when the format list is empty.
	ErrNoFormat = errors.New("no report format selected")

	// ErrInvalidFormat is returned for a format name that no writer supports.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrStdoutNeedsSingle is returned when --stdout is combined with more
	// than one format or more than one input.
	ErrStdoutNeedsSingle = errors.New("--stdout requires exactly one format and one input")

	// ErrInvalidLogRotation is returned when a log rotation limit is negative.
	ErrInvalidLogRotation = errors.New("invalid log rotation settings: values must be non-negative")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrProfileNotFound is returned when a named profile is missing from the file.
	ErrProfileNotFound = errors.New("profile not found in configuration file")
)
