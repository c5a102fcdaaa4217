package handlers

import (
	"encoding/json"
	"net/http"

	"attendees-extractor/internal/contextutil"
	"attendees-extractor/internal/processor"
	"attendees-extractor/internal/service"
	"attendees-extractor/internal/settings"
	"attendees-extractor/internal/storage"
)

// SettingsHandler reads and replaces the extraction settings.
type SettingsHandler struct {
	pipeline     *processor.Pipeline
	settingsRepo storage.SettingsStore
	hook         *processor.SaveHook
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(pipeline *processor.Pipeline, settingsRepo storage.SettingsStore, hook *processor.SaveHook) *SettingsHandler {
	return &SettingsHandler{
		pipeline:     pipeline,
		settingsRepo: settingsRepo,
		hook:         hook,
	}
}

// ServeHTTP handles GET and PUT /api/settings. A PUT body is applied on top
// of the current settings, so omitted fields keep their value.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		s, err := h.pipeline.Settings(ctx)
		if err != nil {
			handleError(ctx, w, err, "Failed to load settings")
			return
		}
		writeJSON(ctx, w, http.StatusOK, normalize(s))

	case http.MethodPut:
		s, err := h.pipeline.Settings(ctx)
		if err != nil {
			handleError(ctx, w, err, "Failed to load settings")
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		s = normalize(s)
		if err := s.Validate(); err != nil {
			handleError(ctx, w, err, "Invalid settings")
			return
		}
		if err := h.settingsRepo.Save(ctx, s); err != nil {
			handleError(ctx, w, service.WrapError(err, "failed to save settings"), "Failed to save settings")
			return
		}
		h.hook.Apply(s.EnableOnSave)

		logger.InfoContext(ctx, "settings updated",
			"heading", s.Heading, "property", s.Property, "directories", s.Directories, "enable_on_save", s.EnableOnSave)
		writeJSON(ctx, w, http.StatusOK, s)

	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func normalize(s settings.Settings) settings.Settings {
	if s.Directories == nil {
		s.Directories = []string{}
	}
	return s
}
