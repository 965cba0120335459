package report

import (
	"io"

	"github.com/nao1215/vmassess/internal/model"
)

// Writer defines the interface for report output.
// Implementations render assessment data in one format.
type Writer interface {
	// Write renders the data to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(data model.AssessmentData) (int, error)
}

// MultiWriter writes to multiple Writers in order.
//
// This is separate from io.MultiWriter because each Writer renders its own
// document from the data rather than copying the same bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the data with every writer.
// Returns the total bytes written and stops on the first error.
func (m *MultiWriter) Write(data model.AssessmentData) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(data)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
