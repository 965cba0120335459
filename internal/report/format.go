package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/vmassess/internal/model"
)

// ErrUnknownFormat is returned for a format name no writer handles.
var ErrUnknownFormat = errors.New("unknown report format")

// Format is an output format name.
type Format string

const (
	// FormatHTML is the static HTML report.
	FormatHTML Format = "html"
	// FormatJSON is the indented JSON export of the data.
	FormatJSON Format = "json"
	// FormatMarkdown is the Markdown overview of the data.
	FormatMarkdown Format = "markdown"
	// FormatPDF is the static PDF report.
	FormatPDF Format = "pdf"
)

// AllFormats returns every supported format.
func AllFormats() []Format {
	return []Format{FormatHTML, FormatJSON, FormatMarkdown, FormatPDF}
}

// ParseFormat converts a user-supplied name into a Format.
// Matching is case-insensitive and "md" is accepted for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "html", "htm":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	case FormatPDF:
		return ".pdf"
	default:
		return ""
	}
}

// NewWriter returns the Writer for format writing to output.
// JSON writers are pretty-printed.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatHTML:
		return NewHTMLWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatPDF:
		return NewPDFWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// WriteFile renders data in format to path, creating or truncating the file.
// JSON goes through ExportJSON. The file is closed on every path.
func WriteFile(format Format, data model.AssessmentData, path string) (err error) {
	if format == FormatJSON {
		return ExportJSON(data, path)
	}

	// Resolve the writer first so an unknown format does not leave an empty file.
	if _, err := NewWriter(format, io.Discard); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Caller-chosen report path
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w, err := NewWriter(format, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
