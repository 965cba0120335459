package report

import (
	"bytes"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/nao1215/vmassess/internal/model"
)

// PDFWriter outputs the static assessment report as a one-page PDF.
// Like GenerateHTML it does not render the data.
type PDFWriter struct {
	baseWriter
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer) *PDFWriter {
	return &PDFWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the PDF document and writes it to the output.
func (w *PDFWriter) Write(_ model.AssessmentData) (int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, false)
	pdf.SetAuthor("vmassess", false)
	pdf.SetCreator("vmassess", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header band, matching the .header block of the HTML report.
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 16, ReportTitle, "", 1, "L", true, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, CompletionMessage, "", "L", false)

	if pdf.Err() {
		return 0, pdf.Error()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
