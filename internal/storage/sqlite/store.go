// Package sqlite provides a SQLite-backed run storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/airfoil/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/airfoil/internal/platform/timeouts"
	"github.com/louisbranch/airfoil/internal/storage"
	"github.com/louisbranch/airfoil/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists model runs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite run store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		cleanPath, timeouts.StoreBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRun inserts one run and its quantities.
func (s *Store) PutRun(ctx context.Context, run storage.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(run.ID)
	model := strings.TrimSpace(run.Model)
	if id == "" {
		return fmt.Errorf("run id is required")
	}
	if model == "" {
		return fmt.Errorf("model is required")
	}
	if run.SampleSize <= 0 {
		return fmt.Errorf("sample size must be greater than zero")
	}
	createdAt := run.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (
		   id,
		   model,
		   seed,
		   sample_size,
		   trend,
		   prob_increasing,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		model,
		run.Seed,
		run.SampleSize,
		strings.TrimSpace(run.Trend),
		run.ProbIncreasing,
		toMillis(createdAt),
	)
	if err != nil {
		if isRunUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put run: %w", err)
	}

	for i, q := range run.Quantities {
		if strings.TrimSpace(q.Symbol) == "" {
			return fmt.Errorf("quantity %d symbol is required", i)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_quantities (
			   run_id, position, symbol, unit, mean, stddev, p05, p50, p95
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, q.Symbol, q.Unit, q.Mean, q.StdDev, q.P05, q.P50, q.P95,
		); err != nil {
			return fmt.Errorf("put run quantity %s: %w", q.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put run: %w", err)
	}
	return nil
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return storage.Run{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Run{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Run{}, fmt.Errorf("run id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, model, seed, sample_size, trend, prob_increasing, created_at
		   FROM runs
		  WHERE id = ?`,
		id,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Run{}, storage.ErrNotFound
		}
		return storage.Run{}, fmt.Errorf("get run: %w", err)
	}
	if run.Quantities, err = s.quantities(ctx, run.ID); err != nil {
		return storage.Run{}, err
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, model, seed, sample_size, trend, prob_increasing, created_at
		   FROM runs
		  ORDER BY created_at DESC, id ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]storage.Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		if runs[i].Quantities, err = s.quantities(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) quantities(ctx context.Context, runID string) ([]storage.QuantityStat, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT symbol, unit, mean, stddev, p05, p50, p95
		   FROM run_quantities
		  WHERE run_id = ?
		  ORDER BY position ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run quantities: %w", err)
	}
	defer rows.Close()

	var out []storage.QuantityStat
	for rows.Next() {
		var q storage.QuantityStat
		if err := rows.Scan(&q.Symbol, &q.Unit, &q.Mean, &q.StdDev, &q.P05, &q.P50, &q.P95); err != nil {
			return nil, fmt.Errorf("list run quantities: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list run quantities: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (storage.Run, error) {
	var run storage.Run
	var createdAt int64
	if err := row.Scan(
		&run.ID,
		&run.Model,
		&run.Seed,
		&run.SampleSize,
		&run.Trend,
		&run.ProbIncreasing,
		&createdAt,
	); err != nil {
		return storage.Run{}, err
	}
	run.CreatedAt = fromMillis(createdAt)
	return run, nil
}

func isRunUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "runs.id")
}

var _ storage.RunStore = (*Store)(nil)
