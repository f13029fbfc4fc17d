package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/stegoscan/internal/model"
)

// ScanDB provides SQLite-based storage for image scan reports.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all scans rather
// than separate files per directory. This simplifies history queries
// and backup/restore operations.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, "stegoscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Scan reports store complete analysis results as JSON with
	-- summary columns for listing without deserializing the report.
	CREATE TABLE IF NOT EXISTS scan_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		filename TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		message_found INTEGER NOT NULL DEFAULT 0,
		channel TEXT,
		entropy_avg REAL,
		chi2_max REAL,
		error TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_path ON scan_reports(path);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON scan_reports(timestamp);
	CREATE INDEX IF NOT EXISTS idx_reports_found ON scan_reports(message_found);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport saves a complete image scan report as JSON.
func (sdb *ScanDB) SaveReport(ctx context.Context, report *model.ImageScanReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO scan_reports (path, filename, message_found, channel, entropy_avg, chi2_max, error, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	found := 0
	if report.MessageFound {
		found = 1
	}

	_, err = sdb.db.ExecContext(ctx, query,
		report.Path,
		report.Filename,
		found,
		report.ChannelWithMessage,
		report.EntropyAvg,
		report.Chi2Max,
		report.ErrorMessage,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	return nil
}

// SaveReports saves a batch of scan reports. Each report is saved
// independently; the first failure aborts the remainder.
func (sdb *ScanDB) SaveReports(ctx context.Context, reports []*model.ImageScanReport) error {
	for _, report := range reports {
		if err := sdb.SaveReport(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

// GetLatestReport retrieves the most recent scan report for an image path.
// Returns nil (no error) when the path has never been scanned.
func (sdb *ScanDB) GetLatestReport(ctx context.Context, path string) (*model.ImageScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE path = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, path).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ImageScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListScannedPaths returns all image paths with at least one stored scan.
func (sdb *ScanDB) ListScannedPaths(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT path FROM scan_reports
	ORDER BY path
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}

// ScanReportMetadata contains summary information about a stored scan.
// This is used for displaying scan history without loading the full report.
type ScanReportMetadata struct {
	// ID is the unique identifier of the scan report in the database.
	ID int64

	// Path is the scanned image path.
	Path string

	// Filename is the base name of the scanned image.
	Filename string

	// Timestamp is when the scan was performed.
	Timestamp time.Time

	// MessageFound is true if the scan recovered a hidden message.
	MessageFound bool

	// Channel is the channel the message was recovered from, if any.
	Channel string

	// EntropyAvg is the overall average entropy of the scan.
	EntropyAvg float64

	// Chi2Max is the overall maximum chi-square of the scan.
	Chi2Max float64

	// Error is the per-image failure recorded with the scan, if any.
	Error string
}

// ListRecent retrieves metadata for the most recent scans across all images.
// This is more efficient than loading full reports when only summaries
// are needed.
func (sdb *ScanDB) ListRecent(ctx context.Context, limit int) ([]ScanReportMetadata, error) {
	query := `
	SELECT id, path, filename, timestamp, message_found, channel, entropy_avg, chi2_max, error
	FROM scan_reports
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := sdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent scans: %w", err)
	}
	defer rows.Close()

	return scanMetadataRows(rows)
}

// GetScanHistory retrieves metadata for all stored scans of an image path,
// newest first.
func (sdb *ScanDB) GetScanHistory(ctx context.Context, path string) ([]ScanReportMetadata, error) {
	query := `
	SELECT id, path, filename, timestamp, message_found, channel, entropy_avg, chi2_max, error
	FROM scan_reports
	WHERE path = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	return scanMetadataRows(rows)
}

// GetReportByID retrieves a full scan report by its database ID.
func (sdb *ScanDB) GetReportByID(ctx context.Context, id int64) (*model.ImageScanReport, error) {
	query := `
	SELECT report_json FROM scan_reports
	WHERE id = ?
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ImageScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// scanMetadataRows converts query rows into metadata records.
func scanMetadataRows(rows *sql.Rows) ([]ScanReportMetadata, error) {
	var results []ScanReportMetadata
	for rows.Next() {
		var meta ScanReportMetadata
		var timestamp string
		var found int
		var channel, errMsg sql.NullString
		var entropyAvg, chi2Max sql.NullFloat64

		if err := rows.Scan(
			&meta.ID,
			&meta.Path,
			&meta.Filename,
			&timestamp,
			&found,
			&channel,
			&entropyAvg,
			&chi2Max,
			&errMsg,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.MessageFound = found != 0
		meta.Channel = channel.String
		meta.EntropyAvg = entropyAvg.Float64
		meta.Chi2Max = chi2Max.Float64
		meta.Error = errMsg.String

		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
