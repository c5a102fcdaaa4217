package processor

import (
	"context"
	"errors"
	"sync"

	"attendees-extractor/internal/contextutil"
	"attendees-extractor/internal/events"
)

// SaveHook processes notes as they are saved. It is subscribed to the bus
// only while enabled.
type SaveHook struct {
	bus      *events.Bus
	pipeline *Pipeline

	mu          sync.Mutex
	unsubscribe func()
}

// NewSaveHook creates a disabled save hook.
func NewSaveHook(bus *events.Bus, pipeline *Pipeline) *SaveHook {
	return &SaveHook{
		bus:      bus,
		pipeline: pipeline,
	}
}

// Apply subscribes or unsubscribes the hook. Repeated calls with the same
// value are no-ops.
func (h *SaveHook) Apply(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case enabled && h.unsubscribe == nil:
		h.unsubscribe = h.bus.Subscribe(h.handle)
	case !enabled && h.unsubscribe != nil:
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// Enabled reports whether the hook is subscribed.
func (h *SaveHook) Enabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unsubscribe != nil
}

func (h *SaveHook) handle(ctx context.Context, event events.SaveEvent) {
	logger := contextutil.LoggerFromContext(ctx)

	// Saved settings win over a subscription that has not caught up yet.
	s, err := h.pipeline.Settings(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load settings for save event", "rel_path", event.RelPath, "error", err)
		return
	}
	if !s.EnableOnSave {
		return
	}

	result, err := h.pipeline.processNote(ctx, s, event.RelPath)
	if errors.Is(err, ErrNotMarkdown) {
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to process saved note", "rel_path", event.RelPath, "error", err)
		return
	}
	logger.DebugContext(ctx, "processed saved note", "rel_path", result.RelPath, "status", result.Status)
}
