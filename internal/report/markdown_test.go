package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nao1215/vmassess/internal/model"
)

// TestMarkdownWriter tests the Markdown overview writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes title and entries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestData()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# " + ReportTitle,
			"## Top-level entries",
			"`host`",
			"esxi01",
			"Lockdown Mode",
			"2 items",
			"4 top-level entries.",
			"Report generated by vmassess",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("empty data writes a note", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.AssessmentData{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No assessment data was supplied.") {
			t.Error("expected note about missing data")
		}
	})

	t.Run("custom title", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithMarkdownTitle("Cluster A"))
		if _, err := w.Write(createTestData()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "# Cluster A") {
			t.Error("expected custom title")
		}
	})

	t.Run("empty custom title keeps default", func(t *testing.T) {
		t.Parallel()

		w := NewMarkdownWriter(&bytes.Buffer{}, WithMarkdownTitle(""))
		if w.title != ReportTitle {
			t.Errorf("expected default title, got %q", w.title)
		}
	})
}

// TestHumanizeKey tests key to heading conversion.
func TestHumanizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"host", "Host"},
		{"lockdown_mode", "Lockdown Mode"},
		{"esxi_host-name", "Esxi Host Name"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			if got := humanizeKey(tt.key); got != tt.want {
				t.Errorf("humanizeKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// TestTruncateString tests truncation with ellipsis.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "esxi01", 10, "esxi01"},
		{"exact length unchanged", "esxi01", 6, "esxi01"},
		{"long string truncated", "vc01.example.local", 10, "vc01.ex..."},
		{"tiny limit without ellipsis", "esxi01", 2, "es"},
		{"multibyte runes kept whole", "ホストホストホスト", 5, "ホス..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

// TestEscapeCell tests table cell escaping.
func TestEscapeCell(t *testing.T) {
	t.Parallel()

	if got := escapeCell("a|b\nc"); got != `a\|b c` {
		t.Errorf("unexpected escape result %q", got)
	}
}
