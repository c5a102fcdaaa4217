package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"attendees-extractor/internal/contextutil"
	"attendees-extractor/internal/events"
	"attendees-extractor/internal/processor"
	"attendees-extractor/internal/service"
	"attendees-extractor/internal/vault"
)

// ExtractHandler handles HTTP requests for extracting the names of one note.
type ExtractHandler struct {
	pipeline *processor.Pipeline
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(pipeline *processor.Pipeline) *ExtractHandler {
	return &ExtractHandler{pipeline: pipeline}
}

// ExtractResponse represents the outcome of processing one note.
//
// swagger:model ExtractResponse
type ExtractResponse struct {
	// One of "updated", "no_names", "out_of_scope" or "error"
	Status  string   `json:"status"`
	Path    string   `json:"path"`
	Names   []string `json:"names"`
	Count   int      `json:"count"`
	Message string   `json:"message"`
}

// ServeHTTP handles HTTP requests for extracting the names of one note.
//
// swagger:route POST /api/notes/extract extractNote
//
// Extract the names under the configured heading and write them to the note's metadata block.
//
// responses:
//
//	'200':
//	  description: Note processed
//	  schema:
//	    "$ref": "#/definitions/ExtractResponse"
//	'400':
//	  description: Invalid body or not a markdown note
//	'404':
//	  description: Note not found
//	'500':
//	  description: Note could not be read or written
func (h *ExtractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	relPath, err := decodePath(r)
	if err != nil {
		handleError(ctx, w, err, "Invalid request")
		return
	}

	result, err := h.pipeline.ProcessNote(ctx, relPath)
	if err != nil {
		if errors.Is(err, service.ErrDocumentIO) && !errors.Is(err, vault.ErrNoteNotFound) {
			logger.ErrorContext(ctx, "failed to process note", "rel_path", relPath, "error", err)
			writeJSON(ctx, w, http.StatusInternalServerError, ExtractResponse{
				Status:  string(processor.StatusError),
				Path:    result.RelPath,
				Names:   []string{},
				Message: fmt.Sprintf("Error processing note: %v", err),
			})
			return
		}
		handleError(ctx, w, err, "Error processing note")
		return
	}

	names := result.Names
	if names == nil {
		names = []string{}
	}
	writeJSON(ctx, w, http.StatusOK, ExtractResponse{
		Status:  string(result.Status),
		Path:    result.RelPath,
		Names:   names,
		Count:   len(names),
		Message: extractMessage(result),
	})
}

func extractMessage(result processor.Result) string {
	switch result.Status {
	case processor.StatusUpdated:
		return fmt.Sprintf("Updated %d names in %s", len(result.Names), result.Property)
	case processor.StatusNoNames:
		return "No names found"
	case processor.StatusOutOfScope:
		return "Note is outside the configured directories"
	default:
		return ""
	}
}

// SavedHandler handles notifications that a note was saved.
type SavedHandler struct {
	bus *events.Bus
}

// NewSavedHandler creates a new SavedHandler.
func NewSavedHandler(bus *events.Bus) *SavedHandler {
	return &SavedHandler{bus: bus}
}

// SavedResponse acknowledges a save notification.
type SavedResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP publishes a save event for the note and returns immediately.
//
// swagger:route POST /api/notes/saved noteSaved
//
// Notify the service that a note was saved. The note is processed in the
// background when processing on save is enabled.
//
// responses:
//
//	'202':
//	  description: Event accepted
//	'400':
//	  description: Invalid body
func (h *SavedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	relPath, err := decodePath(r)
	if err != nil {
		handleError(ctx, w, err, "Invalid request")
		return
	}

	// Publish in a goroutine so processing doesn't block the HTTP response.
	// The event context keeps the request logger but not its cancellation.
	eventCtx := context.WithoutCancel(ctx)
	go h.bus.Publish(eventCtx, events.SaveEvent{RelPath: relPath})

	writeJSON(ctx, w, http.StatusAccepted, SavedResponse{
		Message: "Save event accepted",
		Status:  "accepted",
	})
}

// StatusHandler reports whether a note's metadata matches its section.
type StatusHandler struct {
	pipeline *processor.Pipeline
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(pipeline *processor.Pipeline) *StatusHandler {
	return &StatusHandler{pipeline: pipeline}
}

// StatusResponse represents the sync status of one note.
//
// swagger:model StatusResponse
type StatusResponse struct {
	Path        string   `json:"path"`
	Property    string   `json:"property"`
	Extracted   []string `json:"extracted"`
	Current     []string `json:"current"`
	HasProperty bool     `json:"has_property"`
	OutOfScope  bool     `json:"out_of_scope"`
	InSync      bool     `json:"in_sync"`
}

// ServeHTTP handles GET /api/notes/status?path=...
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	relPath := r.URL.Query().Get("path")
	if relPath == "" {
		handleError(ctx, w, &service.ValidationError{Field: "path", Message: "cannot be empty"}, "Invalid request")
		return
	}

	status, err := h.pipeline.Status(ctx, relPath)
	if err != nil {
		handleError(ctx, w, err, "Failed to read note status")
		return
	}

	writeJSON(ctx, w, http.StatusOK, StatusResponse{
		Path:        status.RelPath,
		Property:    status.Property,
		Extracted:   status.Extracted,
		Current:     status.Current,
		HasProperty: status.HasProperty,
		OutOfScope:  status.OutOfScope,
		InSync:      status.InSync,
	})
}
