package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ReportStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS upload_reports (
	id          TEXT PRIMARY KEY,
	project_id  INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	batch_size  INTEGER NOT NULL,
	total_rows  INTEGER NOT NULL,
	dry_run     INTEGER NOT NULL DEFAULT 0,
	batches     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_upload_reports_started
	ON upload_reports (started_at DESC);
`

// Store is the SQLite-backed report store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the history database under dataDir. An
// empty dataDir defaults to ~/.codelime/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".codelime", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save inserts or replaces a report.
func (s *Store) Save(ctx context.Context, report domain.UploadReport) error {
	batches, err := json.Marshal(report.Batches)
	if err != nil {
		return fmt.Errorf("encoding batches: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO upload_reports
			(id, project_id, started_at, finished_at, batch_size, total_rows, dry_run, batches)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.ProjectID,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.FinishedAt.UTC().Format(time.RFC3339Nano),
		report.BatchSize,
		report.TotalRows,
		boolToInt(report.DryRun),
		string(batches),
	)
	if err != nil {
		return fmt.Errorf("saving report %s: %w", report.ID, err)
	}
	return nil
}

// List returns the most recent reports, newest first. limit <= 0 means
// no limit.
func (s *Store) List(ctx context.Context, limit int) ([]domain.UploadReport, error) {
	query := `
		SELECT id, project_id, started_at, finished_at, batch_size, total_rows, dry_run, batches
		FROM upload_reports
		ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.UploadReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// Get returns one report by id, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*domain.UploadReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, started_at, finished_at, batch_size, total_rows, dry_run, batches
		FROM upload_reports
		WHERE id = ?`, id)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return report, err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*domain.UploadReport, error) {
	var (
		report              domain.UploadReport
		startedAt, finished string
		dryRun              int
		batches             string
	)
	err := row.Scan(
		&report.ID,
		&report.ProjectID,
		&startedAt,
		&finished,
		&report.BatchSize,
		&report.TotalRows,
		&dryRun,
		&batches,
	)
	if err != nil {
		return nil, err
	}

	if report.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if report.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	report.DryRun = dryRun != 0
	if err := json.Unmarshal([]byte(batches), &report.Batches); err != nil {
		return nil, fmt.Errorf("decoding batches: %w", err)
	}
	return &report, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
