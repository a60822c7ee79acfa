// Package runstore keeps a local history of report runs.
//
// Every run is recorded with its criteria, lifecycle state and the time
// window the appliance actually covered, so that interrupted or failed runs
// can be inspected and re-issued later. Storage is the shared SQLite
// database at ~/.config/nprof/nprof.db.
package runstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	appDir = "nprof"
	dbFile = "nprof.db"
)

// Repository defines the persistence interface for run records.
type Repository interface {
	// Save inserts or updates a run record. On insert (ID == 0), an ID is
	// assigned to the record.
	Save(record *RunRecord) error

	// Get retrieves a single run by ID. It returns nil when absent.
	Get(id int64) (*RunRecord, error)

	// ListUnfinished returns runs that never reached a terminal state,
	// newest first.
	ListUnfinished() ([]RunRecord, error)

	// ListRecent returns the most recent n runs, newest first.
	ListRecent(n int) ([]RunRecord, error)

	// DeleteOlderThan removes finished runs last updated more than d ago.
	DeleteOlderThan(d time.Duration) (int64, error)

	Close() error
}

// SQLiteRepository implements Repository on top of SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// DefaultPath returns the history database path under the user config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("runstore: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open opens the run history at the default database path.
func Open() (*SQLiteRepository, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt opens the run history at path, creating it and its directory when
// needed. The database runs in WAL mode.
func OpenAt(path string) (*SQLiteRepository, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runstore: failed to create directory %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("runstore: failed to open database: %w", err)
	}
	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			command       TEXT    NOT NULL,
			device        TEXT    NOT NULL DEFAULT '',
			report_id     TEXT    NOT NULL DEFAULT '',
			criteria      TEXT    NOT NULL DEFAULT '{}',
			state         TEXT    NOT NULL DEFAULT '',
			progress      INTEGER NOT NULL DEFAULT 0,
			error_message TEXT    NOT NULL DEFAULT '',
			window_start  TEXT    NOT NULL DEFAULT '',
			window_end    TEXT    NOT NULL DEFAULT '',
			created_at    TEXT    NOT NULL,
			updated_at    TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("runs: migration failed: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, command, device, report_id, criteria, state, progress,
	       error_message, window_start, window_end, created_at, updated_at
	FROM runs`

// Save inserts a new record (ID == 0) or updates an existing one.
func (r *SQLiteRepository) Save(record *RunRecord) error {
	record.UpdatedAt = time.Now().UTC()

	if record.ID == 0 {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = record.UpdatedAt
		}
		result, err := r.db.Exec(`
			INSERT INTO runs (command, device, report_id, criteria, state, progress,
			                  error_message, window_start, window_end, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.Command, record.Device, record.ReportID, criteriaOrEmpty(record.Criteria),
			record.State, record.Progress, record.ErrorMessage,
			formatTime(record.WindowStart), formatTime(record.WindowEnd),
			formatTime(record.CreatedAt), formatTime(record.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("runs: insert failed: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("runs: failed to get last insert ID: %w", err)
		}
		record.ID = id
		return nil
	}

	result, err := r.db.Exec(`
		UPDATE runs SET command=?, device=?, report_id=?, criteria=?, state=?,
		       progress=?, error_message=?, window_start=?, window_end=?, updated_at=?
		WHERE id=?`,
		record.Command, record.Device, record.ReportID, criteriaOrEmpty(record.Criteria),
		record.State, record.Progress, record.ErrorMessage,
		formatTime(record.WindowStart), formatTime(record.WindowEnd),
		formatTime(record.UpdatedAt), record.ID,
	)
	if err != nil {
		return fmt.Errorf("runs: update failed: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("runs: run with ID %d not found", record.ID)
	}
	return nil
}

func (r *SQLiteRepository) Get(id int64) (*RunRecord, error) {
	record, err := scan(r.db.QueryRow(selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("runs: query failed: %w", err)
	}
	return record, nil
}

func (r *SQLiteRepository) ListUnfinished() ([]RunRecord, error) {
	rows, err := r.db.Query(selectColumns +
		` WHERE state NOT IN ('reshaped', 'errored') ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("runs: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (r *SQLiteRepository) ListRecent(n int) ([]RunRecord, error) {
	rows, err := r.db.Query(selectColumns+` ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("runs: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (r *SQLiteRepository) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().UTC().Add(-d))
	result, err := r.db.Exec(`
		DELETE FROM runs WHERE state IN ('reshaped', 'errored') AND updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("runs: delete failed: %w", err)
	}
	return result.RowsAffected()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*RunRecord, error) {
	var record RunRecord
	var start, end, created, updated string
	err := s.Scan(
		&record.ID, &record.Command, &record.Device, &record.ReportID, &record.Criteria,
		&record.State, &record.Progress, &record.ErrorMessage,
		&start, &end, &created, &updated,
	)
	if err != nil {
		return nil, err
	}
	record.WindowStart = parseTime(start)
	record.WindowEnd = parseTime(end)
	record.CreatedAt = parseTime(created)
	record.UpdatedAt = parseTime(updated)
	return &record, nil
}

func scanRows(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		record, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("runs: scan failed: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func criteriaOrEmpty(s string) string {
	if s == "" {
		return "{}"
	}
	return s
}
