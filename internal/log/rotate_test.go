package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewRotatingWriter tests that log lines reach the rotating file.
func TestNewRotatingWriter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "vmassess.log")
	w := NewRotatingWriter(RotateOptions{
		Filename:   path,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	})

	logger := NewSecureLogger(w, true)
	logger.Info("report written", "host", "esxi01", "password", "hunter2")

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	output := string(raw)
	if !strings.Contains(output, "report written") {
		t.Errorf("expected log line in file: %s", output)
	}
	if strings.Contains(output, "hunter2") {
		t.Errorf("expected password to be masked in file: %s", output)
	}
}
