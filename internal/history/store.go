// Package history persists validation run summaries to SQLite so past
// runs can be compared after the dataset changes.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"kumaydet/internal/validate"
)

// Store manages the run-history database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Run is one recorded validation run.
type Run struct {
	RunID           string
	DatasetPath     string
	IsValid         bool
	ErrorCount      int
	WarningCount    int
	Recommendations int
	Statistics      validate.SplitStatistics
	RecordedAt      time.Time
}

// Open creates or opens the history store at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS validation_runs (
			run_id TEXT PRIMARY KEY,
			dataset_path TEXT NOT NULL,
			is_valid INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			warning_count INTEGER NOT NULL,
			recommendation_count INTEGER NOT NULL,
			statistics TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_recorded ON validation_runs(recorded_at);
	`)
	return err
}

// Record stores one report summary.
func (s *Store) Record(datasetPath string, report *validate.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := json.Marshal(report.Statistics)
	if err != nil {
		return fmt.Errorf("failed to marshal statistics: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO validation_runs
			(run_id, dataset_path, is_valid, error_count, warning_count, recommendation_count, statistics, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, datasetPath, boolToInt(report.IsValid),
		len(report.Errors), len(report.Warnings), len(report.Recommendations),
		string(stats), report.GeneratedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT run_id, dataset_path, is_valid, error_count, warning_count, recommendation_count, statistics, recorded_at
		FROM validation_runs
		ORDER BY recorded_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			isValid   int
			statsJSON string
			recorded  string
		)
		if err := rows.Scan(&r.RunID, &r.DatasetPath, &isValid, &r.ErrorCount,
			&r.WarningCount, &r.Recommendations, &statsJSON, &recorded); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.IsValid = isValid != 0
		if err := json.Unmarshal([]byte(statsJSON), &r.Statistics); err != nil {
			return nil, fmt.Errorf("failed to parse statistics for %s: %w", r.RunID, err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
			r.RecordedAt = ts
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
