// Package log builds the slog loggers used by vmassess.
//
// SecureHandler wraps any slog.Handler and masks attribute values that
// look like vSphere or ESXi credentials before they are written: passwords,
// session cookies, API tokens, license keys and PEM private keys. Masking
// applies in verbose mode too, since log files are often attached to
// support tickets.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("connecting", "vcenter", "vc01", "password", pw) // password=***REDACTED***
//
// NewRotatingWriter returns a size-rotated file writer (lumberjack) that
// can be combined with stderr through io.MultiWriter.
package log
