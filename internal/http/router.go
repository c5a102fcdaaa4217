package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"attendees-extractor/internal/events"
	"attendees-extractor/internal/handlers"
	"attendees-extractor/internal/processor"
	"attendees-extractor/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB           *sql.DB
	VaultRoot    string
	Pipeline     *processor.Pipeline
	Runner       *processor.Runner
	SaveHook     *processor.SaveHook
	Bus          *events.Bus
	SettingsRepo storage.SettingsStore
	RunRepo      storage.RunStore
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	extractHandler := handlers.NewExtractHandler(deps.Pipeline)
	savedHandler := handlers.NewSavedHandler(deps.Bus)
	statusHandler := handlers.NewStatusHandler(deps.Pipeline)
	bulkHandler := handlers.NewBulkHandler(deps.Runner)
	runHandler := handlers.NewRunHandler(deps.RunRepo)
	settingsHandler := handlers.NewSettingsHandler(deps.Pipeline, deps.SettingsRepo, deps.SaveHook)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VaultRoot)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/notes/extract", extractHandler)
		r.Method(http.MethodPost, "/notes/saved", savedHandler)
		r.Method(http.MethodGet, "/notes/status", statusHandler)
		r.Method(http.MethodPost, "/extract", bulkHandler)
		r.Method(http.MethodGet, "/runs/{id}", runHandler)
		r.Method(http.MethodGet, "/settings", settingsHandler)
		r.Method(http.MethodPut, "/settings", settingsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
