// Package pipeline runs report generation for assessment input files.
//
// Each input becomes a Job that passes through ordered steps: load the
// assessment data, render the selected report formats, and record the
// result in the history database. Steps share the Step interface so the CLI
// can assemble only what a run needs (for example, no history step with
// --no-history).
//
// BatchProcessor runs one pipeline per input concurrently with errgroup,
// bounded by the configured batch size.
package pipeline
