// Package history persists batch scan results to SQLite so CI jobs can
// track finding counts across runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/amisstea/js-async-audit/internal/scanner"
)

// AppName is the directory name used under the XDG data home.
const AppName = "js-async-audit"

// DefaultDir returns the default location of the history database.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Store records scan runs in a SQLite database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the history database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	dbPath := filepath.Join(dir, "history.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, dbPath: dbPath}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scanned_at DATETIME NOT NULL,
		files_scanned INTEGER NOT NULL,
		files_failed INTEGER NOT NULL,
		critical INTEGER NOT NULL,
		high INTEGER NOT NULL,
		medium INTEGER NOT NULL,
		low INTEGER NOT NULL,
		blocking INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scanned_at ON runs(scanned_at);

	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		path TEXT NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL,
		rule_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule_id);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Run summarizes one recorded batch scan.
type Run struct {
	ID           int64
	ScannedAt    time.Time
	FilesScanned int
	FilesFailed  int
	Critical     int
	High         int
	Medium       int
	Low          int
	Blocking     bool
}

// RecordRun stores the batch summary and each finding, returning the new
// run id. The run and its findings are written in one transaction.
func (s *Store) RecordRun(ctx context.Context, batch *scanner.Batch) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sums := map[scanner.Severity]int{}
	for _, rep := range batch.Reports {
		for sev, n := range rep.Counts {
			sums[sev] += n
		}
	}
	blocking := 0
	if scanner.HasBlockingFindings(batch.Reports, scanner.SeverityHigh) {
		blocking = 1
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (scanned_at, files_scanned, files_failed, critical, high, medium, low, blocking)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), len(batch.Reports), len(batch.Errors),
		sums[scanner.SeverityCritical], sums[scanner.SeverityHigh],
		sums[scanner.SeverityMedium], sums[scanner.SeverityLow], blocking)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (run_id, path, line, col, rule_id, severity, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing finding insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rep := range batch.Reports {
		for _, f := range rep.Findings {
			if _, err := stmt.ExecContext(ctx, runID, rep.Path,
				f.Position.Line, f.Position.Column,
				f.RuleID, f.Severity.String(), f.Message); err != nil {
				return 0, fmt.Errorf("inserting finding: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing history transaction: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scanned_at, files_scanned, files_failed, critical, high, medium, low, blocking
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var blocking int
		if err := rows.Scan(&r.ID, &r.ScannedAt, &r.FilesScanned, &r.FilesFailed,
			&r.Critical, &r.High, &r.Medium, &r.Low, &blocking); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.Blocking = blocking != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RuleCounts returns per-rule finding counts for a run, keyed by rule id.
func (s *Store) RuleCounts(ctx context.Context, runID int64) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, COUNT(*) FROM findings WHERE run_id = ? GROUP BY rule_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying rule counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := map[string]int{}
	for rows.Next() {
		var rule string
		var n int
		if err := rows.Scan(&rule, &n); err != nil {
			return nil, fmt.Errorf("scanning rule count row: %w", err)
		}
		counts[rule] = n
	}
	return counts, rows.Err()
}
