package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"attendees-extractor/internal/contextutil"
	"attendees-extractor/internal/processor"
	"attendees-extractor/internal/service"
	"attendees-extractor/internal/storage"
	"attendees-extractor/internal/vault"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// PathRequest is the body of the per-note endpoints.
type PathRequest struct {
	// Vault-relative path of the note, e.g. "Meetings/2024-05-01.md"
	Path string `json:"path"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// decodePath reads a PathRequest body and rejects empty paths.
func decodePath(r *http.Request) (string, error) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", fmt.Errorf("%w: invalid request body", service.ErrInvalidInput)
	}
	if req.Path == "" {
		return "", &service.ValidationError{Field: "path", Message: "cannot be empty"}
	}
	return req.Path, nil
}

// handleError maps domain errors to HTTP status codes and writes the response.
func handleError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.WarnContext(ctx, "validation error", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
	case errors.Is(err, processor.ErrNotMarkdown):
		logger.WarnContext(ctx, "not a markdown note", "error", err)
		writeError(w, http.StatusBadRequest, "Please open a markdown file")
	case errors.Is(err, vault.ErrInvalidPath), errors.Is(err, service.ErrInvalidInput):
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, vault.ErrNoteNotFound), errors.Is(err, storage.ErrNotFound), errors.Is(err, service.ErrNotFound):
		logger.WarnContext(ctx, "resource not found", "error", err)
		writeError(w, http.StatusNotFound, "Resource not found")
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}
