// Package database provides SQLite-based report history for vmassess.
//
// Every generated report can be recorded in a single HistoryDB file. Each
// row keeps the assessment data as JSON, a SHA3-256 digest of that JSON, and
// a per-key summary so history listings do not need to decode full reports.
//
// SQLite is provided by modernc.org/sqlite, which is CGO-free and keeps the
// whole history in one file under the XDG data directory.
package database
