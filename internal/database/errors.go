package database

import "errors"

var (
	// ErrReportNotFound is returned when no stored report has the requested ID.
	ErrReportNotFound = errors.New("report not found")

	// ErrDatabaseNotFound is returned by Open when CreateIfNotExists is false
	// and the database file does not exist.
	ErrDatabaseNotFound = errors.New("history database not found")
)
