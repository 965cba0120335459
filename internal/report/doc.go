// Package report turns assessment data into report documents.
//
// Two entry points cover the core behavior:
//   - GenerateHTML returns the static HTML assessment report
//   - ExportJSON writes the assessment data to a file as indented JSON
//
// Both are wrapped as Writer implementations alongside MarkdownWriter and
// PDFWriter so the CLI can emit several formats through one interface.
// Nothing in this package logs or retries; errors go straight back to the
// caller.
package report
