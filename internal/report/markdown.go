package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/vmassess/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxDetailLen caps the width of the detail column.
const maxDetailLen = 60

// MarkdownWriter outputs a Markdown overview of the assessment data.
// It lists each top-level entry with its shape; it does not interpret keys.
type MarkdownWriter struct {
	baseWriter

	// title is the H1 heading.
	title string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownTitle overrides the document heading.
func WithMarkdownTitle(title string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		if title != "" {
			w.title = title
		}
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      ReportTitle,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the overview in GitHub Flavored Markdown.
func (w *MarkdownWriter) Write(data model.AssessmentData) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(w.title)
	md.PlainText("")

	w.writeEntries(md, data)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeEntries writes the top-level entries table.
func (w *MarkdownWriter) writeEntries(md *markdown.Markdown, data model.AssessmentData) {
	md.H2("Top-level entries")
	md.PlainText("")

	if len(data) == 0 {
		md.Note("No assessment data was supplied.")
		md.PlainText("")
		return
	}

	entries := data.Summarize()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			humanizeKey(e.Key),
			"`" + e.Key + "`",
			string(e.Kind),
			escapeCell(truncateString(e.Detail, maxDetailLen)),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Entry", "Key", "Kind", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("%d top-level entries.", len(entries))
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by vmassess*")
}

// humanizeKey turns "esxi_host-name" into "Esxi Host Name".
func humanizeKey(key string) string {
	replacer := strings.NewReplacer("_", " ", "-", " ")
	return cases.Title(language.English).String(replacer.Replace(key))
}

// escapeCell keeps pipes and newlines from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
