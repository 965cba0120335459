package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/vmassess/internal/model"
)

// FileName is the name of the history database inside its directory.
const FileName = "vmassess.db"

// HistoryDB stores generated reports in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates dir/vmassess.db.
// With CreateIfNotExists false a missing file returns ErrDatabaseNotFound.
func Open(dir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a new file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		digest TEXT NOT NULL,
		report_json TEXT NOT NULL,
		summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_label ON reports(label);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON reports(timestamp);
	CREATE INDEX IF NOT EXISTS idx_reports_digest ON reports(digest);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// ReportMetadata describes a stored report without its full data.
type ReportMetadata struct {
	// ID is the row identifier, used by GetReport.
	ID int64 `json:"id"`

	// Label names the report, usually the input file's base name.
	Label string `json:"label"`

	// Timestamp is when the report was stored (UTC).
	Timestamp time.Time `json:"timestamp"`

	// Digest is the hex SHA3-256 of the stored JSON.
	Digest string `json:"digest"`

	// Summary is the per-key summary of the data.
	Summary []model.Entry `json:"summary"`
}

// StoredReport is a stored report with its data decoded.
type StoredReport struct {
	ReportMetadata

	// Data is the assessment data as it was stored.
	Data model.AssessmentData `json:"data"`
}

// Digest returns the hex SHA3-256 of data's compact JSON encoding.
// Map keys are sorted when encoding, so equal data yields equal digests.
func Digest(data model.AssessmentData) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	return digestBytes(raw), nil
}

func digestBytes(raw []byte) string {
	sum := sha3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// SaveReport stores data under label and returns the new row ID.
func (h *HistoryDB) SaveReport(ctx context.Context, label string, data model.AssessmentData) (int64, error) {
	reportJSON, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	summaryJSON, err := json.Marshal(data.Summarize())
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO reports (label, digest, report_json, summary)
	VALUES (?, ?, ?, ?)
	`

	result, err := h.db.ExecContext(ctx, query,
		label,
		digestBytes(reportJSON),
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	return result.LastInsertId()
}

// ListReports returns report metadata, newest first. An empty label lists
// every report.
func (h *HistoryDB) ListReports(ctx context.Context, label string) ([]ReportMetadata, error) {
	query := `
	SELECT id, label, timestamp, digest, summary
	FROM reports
	`
	args := make([]any, 0, 1)
	if label != "" {
		query += " WHERE label = ?"
		args = append(args, label)
	}
	query += " ORDER BY timestamp DESC, id DESC"

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	results := make([]ReportMetadata, 0)
	for rows.Next() {
		var meta ReportMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Label, &timestamp, &meta.Digest, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report metadata: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)
		meta.Summary = parseSummary(summaryJSON)

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReport returns the stored report with the given ID.
func (h *HistoryDB) GetReport(ctx context.Context, id int64) (*StoredReport, error) {
	query := `
	SELECT id, label, timestamp, digest, report_json, summary
	FROM reports
	WHERE id = ?
	`

	var report StoredReport
	var timestamp string
	var reportJSON string
	var summaryJSON sql.NullString

	err := h.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID,
		&report.Label,
		&timestamp,
		&report.Digest,
		&reportJSON,
		&summaryJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	report.Timestamp = parseTimestamp(timestamp)
	report.Summary = parseSummary(summaryJSON)

	// A nil map is stored as null and comes back as nil.
	if reportJSON != "null" {
		data, err := model.DecodeJSON([]byte(reportJSON))
		if err != nil {
			return nil, fmt.Errorf("failed to parse report: %w", err)
		}
		report.Data = data
	}

	return &report, nil
}

// ListLabels returns the distinct labels of stored reports, sorted.
func (h *HistoryDB) ListLabels(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT label FROM reports
	ORDER BY label
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer rows.Close()

	labels := make([]string, 0)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

// parseSummary decodes the stored summary. A missing or malformed summary
// yields an empty slice.
func parseSummary(s sql.NullString) []model.Entry {
	entries := make([]model.Entry, 0)
	if !s.Valid || s.String == "" {
		return entries
	}
	if err := json.Unmarshal([]byte(s.String), &entries); err != nil {
		return make([]model.Entry, 0)
	}
	return entries
}

// timestampFormats lists the layouts SQLite may return, most specific first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known layout and returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
