package log

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateOptions configures the rotating log file.
type RotateOptions struct {
	// Filename is the log file path. Its directory is created on first write.
	Filename string

	// MaxSizeMB is the size in megabytes at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept. Zero keeps all.
	MaxBackups int

	// MaxAgeDays is the number of days rotated files are kept. Zero keeps all.
	MaxAgeDays int

	// Compress gzips rotated files.
	Compress bool
}

// NewRotatingWriter returns a writer that appends to opts.Filename and
// rotates it by size. The caller closes it when done.
func NewRotatingWriter(opts RotateOptions) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
}
