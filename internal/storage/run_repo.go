package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks attendees-extractor/internal/storage RunStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunStore defines the interface for bulk run bookkeeping.
type RunStore interface {
	// Create inserts a new run. run.ID must be set.
	Create(ctx context.Context, run *RunRecord) error
	// UpdateProgress stores the running counts of a run.
	UpdateProgress(ctx context.Context, id string, counts RunCounts) error
	// AddFailure records a note that failed during a run.
	AddFailure(ctx context.Context, id, relPath, message string) error
	// Finish stores the final counts and status of a run.
	Finish(ctx context.Context, id, status string, counts RunCounts) error
	// Get returns a run with its failures. Returns ErrNotFound if unknown.
	Get(ctx context.Context, id string) (*RunRecord, error)
}

// RunRepo provides methods for run operations.
// It implements the RunStore interface.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Create inserts a new run. run.ID must be set.
func (r *RunRepo) Create(ctx context.Context, run *RunRecord) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, total, processed, updated, failed, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Status, run.Counts.Total, run.Counts.Processed, run.Counts.Updated, run.Counts.Failed,
		formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// UpdateProgress stores the running counts of a run.
func (r *RunRepo) UpdateProgress(ctx context.Context, id string, counts RunCounts) error {
	return r.update(ctx,
		"UPDATE runs SET total = ?, processed = ?, updated = ?, failed = ? WHERE id = ?",
		counts.Total, counts.Processed, counts.Updated, counts.Failed, id,
	)
}

// Finish stores the final counts and status of a run.
func (r *RunRepo) Finish(ctx context.Context, id, status string, counts RunCounts) error {
	return r.update(ctx,
		`UPDATE runs SET status = ?, total = ?, processed = ?, updated = ?, failed = ?, finished_at = ?
		 WHERE id = ?`,
		status, counts.Total, counts.Processed, counts.Updated, counts.Failed, formatTime(time.Now()), id,
	)
}

func (r *RunRepo) update(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFailure records a note that failed during a run.
func (r *RunRepo) AddFailure(ctx context.Context, id, relPath, message string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO run_failures (run_id, rel_path, error) VALUES (?, ?, ?)",
		id, relPath, message,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run failure: %w", err)
	}
	return nil
}

// Get returns a run with its failures in the order they were recorded.
func (r *RunRepo) Get(ctx context.Context, id string) (*RunRecord, error) {
	var run RunRecord
	var startedAt string
	var finishedAt sql.NullString

	err := r.db.QueryRowContext(ctx,
		"SELECT id, status, total, processed, updated, failed, started_at, finished_at FROM runs WHERE id = ?",
		id,
	).Scan(&run.ID, &run.Status, &run.Counts.Total, &run.Counts.Processed, &run.Counts.Updated,
		&run.Counts.Failed, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	run.StartedAt, err = parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, err
		}
		run.FinishedAt = &t
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT rel_path, error FROM run_failures WHERE run_id = ? ORDER BY id",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run failures: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	run.Failures = []RunFailure{}
	for rows.Next() {
		var f RunFailure
		if err := rows.Scan(&f.RelPath, &f.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run failure: %w", err)
		}
		run.Failures = append(run.Failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &run, nil
}
