package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeInput writes content to a file named name inside a temp dir.
func writeInput(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

// TestLoadAssessmentData tests loading JSON and YAML inputs.
func TestLoadAssessmentData(t *testing.T) {
	t.Parallel()

	t.Run("loads JSON", func(t *testing.T) {
		t.Parallel()

		path := writeInput(t, "esxi01.json",
			`{"host": "esxi01", "findings": [{"id": "CVE-1", "severity": "high"}]}`)

		data, err := LoadAssessmentData(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data["host"] != "esxi01" {
			t.Errorf("expected host esxi01, got %v", data["host"])
		}
		findings, ok := data["findings"].([]any)
		if !ok || len(findings) != 1 {
			t.Fatalf("expected one finding, got %v", data["findings"])
		}
	})

	t.Run("keeps large integers exact", func(t *testing.T) {
		t.Parallel()

		path := writeInput(t, "big.json", `{"id": 9007199254740993}`)

		data, err := LoadAssessmentData(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, ok := data["id"].(json.Number)
		if !ok {
			t.Fatalf("expected json.Number, got %T", data["id"])
		}
		if n.String() != "9007199254740993" {
			t.Errorf("expected exact integer, got %s", n)
		}
	})

	t.Run("loads YAML", func(t *testing.T) {
		t.Parallel()

		path := writeInput(t, "esxi01.yaml", `
host: esxi01
findings:
  - id: CVE-1
    severity: high
ports:
  22: ssh
`)

		data, err := LoadAssessmentData(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data["host"] != "esxi01" {
			t.Errorf("expected host esxi01, got %v", data["host"])
		}

		// Integer keys must be converted so the data stays JSON-serializable.
		if _, err := json.Marshal(data); err != nil {
			t.Errorf("expected YAML data to be JSON-serializable: %v", err)
		}
		ports, ok := data["ports"].(map[string]any)
		if !ok {
			t.Fatalf("expected ports to be map[string]any, got %T", data["ports"])
		}
		if ports["22"] != "ssh" {
			t.Errorf("expected ports[22]=ssh, got %v", ports["22"])
		}
	})

	t.Run("empty file returns ErrNotAMapping", func(t *testing.T) {
		t.Parallel()

		path := writeInput(t, "empty.json", "")

		_, err := LoadAssessmentData(path)
		if !errors.Is(err, ErrNotAMapping) {
			t.Errorf("expected ErrNotAMapping, got %v", err)
		}
	})

	t.Run("top-level list returns ErrNotAMapping", func(t *testing.T) {
		t.Parallel()

		path := writeInput(t, "list.json", `[1, 2, 3]`)

		_, err := LoadAssessmentData(path)
		if !errors.Is(err, ErrNotAMapping) {
			t.Errorf("expected ErrNotAMapping, got %v", err)
		}
	})

	t.Run("JSON null returns ErrNotAMapping", func(t *testing.T) {
		t.Parallel()

		path := writeInput(t, "null.json", `null`)

		_, err := LoadAssessmentData(path)
		if !errors.Is(err, ErrNotAMapping) {
			t.Errorf("expected ErrNotAMapping, got %v", err)
		}
	})

	t.Run("malformed JSON returns syntax error", func(t *testing.T) {
		t.Parallel()

		path := writeInput(t, "bad.json", `{"host": `)

		_, err := LoadAssessmentData(path)
		if err == nil {
			t.Fatal("expected error for malformed JSON")
		}
		if errors.Is(err, ErrNotAMapping) {
			t.Error("expected a decode error, not ErrNotAMapping")
		}
	})

	t.Run("missing file returns not-exist error", func(t *testing.T) {
		t.Parallel()

		_, err := LoadAssessmentData(filepath.Join(t.TempDir(), "missing.json"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}
