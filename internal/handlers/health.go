package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"attendees-extractor/internal/contextutil"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 *sql.DB
	vaultRoot          string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, vaultRoot string) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		vaultRoot:          vaultRoot,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// Returns the health status of the database and the vault directory.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: System is healthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: System is unhealthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkDatabase(checkCtx, logger) {
		checks["database"] = "ok"
	} else {
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
	}

	if h.checkVault(checkCtx, logger) {
		checks["vault"] = "ok"
	} else {
		checks["vault"] = "error"
		issues = append(issues, "vault_unavailable")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}

// checkDatabase checks if the database answers a ping.
func (h *HealthHandler) checkDatabase(ctx context.Context, logger *slog.Logger) bool {
	if err := h.db.PingContext(ctx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		return false
	}
	return true
}

// checkVault checks if the vault root is still a readable directory.
func (h *HealthHandler) checkVault(ctx context.Context, logger *slog.Logger) bool {
	info, err := os.Stat(h.vaultRoot)
	if err != nil {
		logger.WarnContext(ctx, "vault health check failed", "path", h.vaultRoot, "error", err)
		return false
	}
	if !info.IsDir() {
		logger.WarnContext(ctx, "vault path is not a directory", "path", h.vaultRoot)
		return false
	}
	return true
}
