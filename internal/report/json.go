package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/nao1215/vmassess/internal/model"
)

// JSONWriter outputs assessment data as JSON.
//
// HTML escaping is disabled so that strings such as "<none>" or "a&b" are
// written as-is instead of as \u003c style escapes.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with 2-space indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write encodes data and writes it followed by a newline.
// Nothing is written if encoding fails.
func (w *JSONWriter) Write(data model.AssessmentData) (int, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}

	if err := enc.Encode(data); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}

// ExportJSON writes data to filename as 2-space indented JSON.
//
// The file is created or truncated and always closed before returning.
// Errors are returned unchanged: *fs.PathError for an unwritable path, and
// *json.UnsupportedTypeError / *json.UnsupportedValueError /
// *json.MarshalerError for values JSON cannot represent. A serialization
// failure leaves the truncated file behind. The parent directory is not
// created.
func ExportJSON(data model.AssessmentData, filename string) (err error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Caller-chosen report path
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = NewJSONWriter(f, WithPrettyPrint()).Write(data)
	return err
}
