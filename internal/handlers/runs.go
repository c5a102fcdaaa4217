package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"attendees-extractor/internal/contextutil"
	"attendees-extractor/internal/processor"
	"attendees-extractor/internal/storage"
)

// BulkHandler handles HTTP requests for processing every in-scope note.
type BulkHandler struct {
	runner *processor.Runner
}

// NewBulkHandler creates a new BulkHandler.
func NewBulkHandler(runner *processor.Runner) *BulkHandler {
	return &BulkHandler{runner: runner}
}

// BulkResponse represents the response from the bulk extraction endpoint.
//
// swagger:model BulkResponse
type BulkResponse struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP starts a bulk run and returns without waiting for it.
//
// swagger:route POST /api/extract extractAll
//
// Process every markdown note in the configured directories.
//
// responses:
//
//	'202':
//	  description: Run started
//	  schema:
//	    "$ref": "#/definitions/BulkResponse"
//	'404':
//	  description: No notes in the configured directories
//	'409':
//	  description: A run is already in progress
func (h *BulkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	logger.InfoContext(ctx, "bulk extraction triggered via API")

	runID, err := h.runner.Start(ctx)
	switch {
	case errors.Is(err, processor.ErrNoNotes):
		logger.InfoContext(ctx, "no notes in allowed directories")
		writeError(w, http.StatusNotFound, "No files found in allowed directories")
		return
	case errors.Is(err, processor.ErrRunInProgress):
		logger.WarnContext(ctx, "bulk run already in progress")
		writeError(w, http.StatusConflict, "A bulk run is already in progress")
		return
	case err != nil:
		handleError(ctx, w, err, "Failed to start bulk run")
		return
	}

	writeJSON(ctx, w, http.StatusAccepted, BulkResponse{
		RunID:   runID,
		Message: "Extraction started. Check /api/runs/" + runID + " for progress.",
		Status:  "accepted",
	})
}

// RunHandler serves the progress and outcome of bulk runs.
type RunHandler struct {
	runRepo storage.RunStore
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runRepo storage.RunStore) *RunHandler {
	return &RunHandler{runRepo: runRepo}
}

// RunFailureResponse is a note that failed during a run.
type RunFailureResponse struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// RunResponse represents a bulk run.
//
// swagger:model RunResponse
type RunResponse struct {
	ID         string               `json:"id"`
	Status     string               `json:"status"`
	Total      int                  `json:"total"`
	Processed  int                  `json:"processed"`
	Updated    int                  `json:"updated"`
	Failed     int                  `json:"failed"`
	StartedAt  string               `json:"started_at"`
	FinishedAt *string              `json:"finished_at,omitempty"`
	Message    string               `json:"message,omitempty"`
	Failures   []RunFailureResponse `json:"failures"`
}

// ServeHTTP handles GET /api/runs/{id}.
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := chi.URLParam(r, "id")
	run, err := h.runRepo.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		handleError(ctx, w, err, "Failed to load run")
		return
	}

	writeJSON(ctx, w, http.StatusOK, newRunResponse(run))
}

func newRunResponse(run *storage.RunRecord) RunResponse {
	resp := RunResponse{
		ID:        run.ID,
		Status:    run.Status,
		Total:     run.Counts.Total,
		Processed: run.Counts.Processed,
		Updated:   run.Counts.Updated,
		Failed:    run.Counts.Failed,
		StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
		Failures:  make([]RunFailureResponse, 0, len(run.Failures)),
	}
	if run.FinishedAt != nil {
		finishedAt := run.FinishedAt.UTC().Format(time.RFC3339)
		resp.FinishedAt = &finishedAt
	}
	if run.Status != storage.RunStatusRunning {
		resp.Message = processor.Notice(processor.Summary{
			Processed: run.Counts.Processed,
			Updated:   run.Counts.Updated,
		})
	}
	for _, f := range run.Failures {
		resp.Failures = append(resp.Failures, RunFailureResponse{Path: f.RelPath, Error: f.Error})
	}
	return resp
}
