package processor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"attendees-extractor/internal/contextutil"
	"attendees-extractor/internal/settings"
	"attendees-extractor/internal/storage"
	"attendees-extractor/internal/vault"
)

// Runner starts bulk runs in the background and records their progress.
// Only one run may be active at a time.
type Runner struct {
	pipeline *Pipeline
	runRepo  storage.RunStore

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates a new Runner.
func NewRunner(pipeline *Pipeline, runRepo storage.RunStore) *Runner {
	return &Runner{
		pipeline: pipeline,
		runRepo:  runRepo,
	}
}

// Start plans a bulk run and processes it on a background goroutine. The
// returned ID identifies the run in the RunStore. Returns ErrNoNotes when
// nothing is in scope and ErrRunInProgress when a run is still active.
// The run outlives ctx but keeps its values, including the logger.
func (r *Runner) Start(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return "", ErrRunInProgress
	}

	s, files, err := r.pipeline.Plan(ctx)
	if err != nil {
		return "", err
	}

	run := &storage.RunRecord{
		ID:     uuid.New().String(),
		Status: storage.RunStatusRunning,
		Counts: storage.RunCounts{Total: len(files)},
	}
	if err := r.runRepo.Create(ctx, run); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.running = true
	r.cancel = cancel
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer cancel()
		r.execute(runCtx, run.ID, s, files)

		r.mu.Lock()
		r.running = false
		r.cancel = nil
		r.mu.Unlock()
	}()

	return run.ID, nil
}

func (r *Runner) execute(ctx context.Context, id string, s settings.Settings, files []vault.ScannedFile) {
	logger := contextutil.LoggerFromContext(ctx).With("run_id", id)
	ctx = contextutil.WithLogger(ctx, logger)

	// Bookkeeping must not stop after cancellation.
	storeCtx := context.WithoutCancel(ctx)

	summary, err := r.pipeline.processFiles(ctx, s, files, func(p Progress) {
		if p.Err != nil {
			if err := r.runRepo.AddFailure(storeCtx, id, p.RelPath, p.Err.Error()); err != nil {
				logger.WarnContext(ctx, "failed to record run failure", "rel_path", p.RelPath, "error", err)
			}
		}
		counts := storage.RunCounts{Total: p.Total, Processed: p.Processed, Updated: p.Updated, Failed: p.Failed}
		if err := r.runRepo.UpdateProgress(storeCtx, id, counts); err != nil {
			logger.WarnContext(ctx, "failed to record run progress", "error", err)
		}
	})

	status := storage.RunStatusCompleted
	if err != nil {
		status = storage.RunStatusFailed
		logger.ErrorContext(ctx, "bulk run stopped", "error", err)
	}

	counts := storage.RunCounts{
		Total:     summary.Total,
		Processed: summary.Processed,
		Updated:   summary.Updated,
		Failed:    summary.Failed,
	}
	if err := r.runRepo.Finish(storeCtx, id, status, counts); err != nil {
		logger.ErrorContext(ctx, "failed to finish run", "error", err)
	}

	logger.InfoContext(ctx, Notice(summary), "status", status)
}

// Running reports whether a bulk run is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Wait blocks until the active run, if any, has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Cancel stops the active run before its next note. Notes not yet reached
// are left alone and the run is recorded as failed.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// Stop cancels the active run and waits for it.
func (r *Runner) Stop() {
	r.Cancel()
	r.wg.Wait()
}

// Notice is the one-line summary shown to the user after a bulk run.
func Notice(summary Summary) string {
	return fmt.Sprintf("Processed %d files, updated %d files", summary.Processed, summary.Updated)
}
