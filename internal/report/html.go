package report

import (
	"io"

	"github.com/nao1215/vmassess/internal/model"
)

// ReportTitle is the title used by the HTML and PDF reports.
const ReportTitle = "VMware Security Assessment Report"

// CompletionMessage is the body text of the static reports.
const CompletionMessage = "Assessment completed successfully."

// htmlDocument is the fixed HTML report.
const htmlDocument = `
    <!DOCTYPE html>
    <html>
    <head>
        <title>` + ReportTitle + `</title>
        <style>
            body { font-family: Arial, sans-serif; margin: 20px; }
            .header { background: #f0f0f0; padding: 20px; }
            .pass { color: green; }
            .fail { color: red; }
        </style>
    </head>
    <body>
        <div class="header">
            <h1>` + ReportTitle + `</h1>
        </div>
        <div class="content">
            <p>` + CompletionMessage + `</p>
        </div>
    </body>
    </html>
    `

// GenerateHTML returns the HTML assessment report.
//
// The document is static: data is accepted but not rendered, so every input
// (including nil) produces the same string. The function never fails.
func GenerateHTML(_ model.AssessmentData) string {
	return htmlDocument
}

// HTMLWriter writes the HTML report to an io.Writer.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the HTML report.
func (w *HTMLWriter) Write(data model.AssessmentData) (int, error) {
	return io.WriteString(w.output, GenerateHTML(data))
}
