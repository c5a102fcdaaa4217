package processor

import (
	"context"
	"errors"
	"fmt"

	"attendees-extractor/internal/contextutil"
	"attendees-extractor/internal/frontmatter"
	"attendees-extractor/internal/service"
	"attendees-extractor/internal/settings"
	"attendees-extractor/internal/storage"
	"attendees-extractor/internal/vault"
)

// Pipeline runs the read, extract, merge and write cycle for vault notes.
type Pipeline struct {
	vaultManager *vault.Manager
	settingsRepo storage.SettingsStore
	locks        *noteLocks
}

// NewPipeline creates a new processing pipeline.
func NewPipeline(vaultManager *vault.Manager, settingsRepo storage.SettingsStore) *Pipeline {
	return &Pipeline{
		vaultManager: vaultManager,
		settingsRepo: settingsRepo,
		locks:        newNoteLocks(),
	}
}

// Settings returns the settings currently in effect.
func (p *Pipeline) Settings(ctx context.Context) (settings.Settings, error) {
	s, err := p.settingsRepo.Get(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// ProcessNote extracts the names under the configured heading of one note
// and writes them to its metadata block. Notes without names are not
// modified. The returned Result always carries a status; err is set for
// StatusError and for paths that are not markdown notes.
func (p *Pipeline) ProcessNote(ctx context.Context, relPath string) (Result, error) {
	s, err := p.Settings(ctx)
	if err != nil {
		return Result{RelPath: relPath, Status: StatusError}, err
	}
	return p.processNote(ctx, s, relPath)
}

func (p *Pipeline) processNote(ctx context.Context, s settings.Settings, relPath string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	rel, err := vault.CleanRelPath(relPath)
	if err != nil {
		return Result{RelPath: relPath, Property: s.Property, Status: StatusError}, err
	}
	result := Result{RelPath: rel, Property: s.Property}

	if !settings.IsMarkdown(rel) {
		result.Status = StatusError
		return result, fmt.Errorf("%w: %s", ErrNotMarkdown, rel)
	}
	if !s.InScope(rel) {
		logger.DebugContext(ctx, "skipping note outside allowed directories", "rel_path", rel)
		result.Status = StatusOutOfScope
		return result, nil
	}

	unlock := p.locks.lock(rel)
	defer unlock()

	content, err := p.vaultManager.ReadNote(ctx, rel)
	if err != nil {
		result.Status = StatusError
		return result, fmt.Errorf("%w: read %s: %w", service.ErrDocumentIO, rel, err)
	}

	names := s.Extractor().Extract(content)
	result.Names = names
	if len(names) == 0 {
		logger.DebugContext(ctx, "no names found", "rel_path", rel, "heading", s.Heading)
		result.Status = StatusNoNames
		return result, nil
	}

	merged := frontmatter.Merge(content, s.Property, names)
	if err := frontmatter.Validate(merged); err != nil {
		// Written anyway; names containing quotes produce this.
		logger.WarnContext(ctx, "merged metadata block does not parse as YAML", "rel_path", rel, "error", err)
	}

	if merged != content {
		if err := p.vaultManager.WriteNote(ctx, rel, merged); err != nil {
			result.Status = StatusError
			return result, fmt.Errorf("%w: write %s: %w", service.ErrDocumentIO, rel, err)
		}
		result.Changed = true
	}

	result.Status = StatusUpdated
	logger.InfoContext(ctx, "updated note", "rel_path", rel, "property", s.Property, "count", len(names), "changed", result.Changed)
	return result, nil
}

// Plan returns the settings for a bulk run and the in-scope markdown notes
// it would process. Returns ErrNoNotes when there are none.
func (p *Pipeline) Plan(ctx context.Context) (settings.Settings, []vault.ScannedFile, error) {
	s, err := p.Settings(ctx)
	if err != nil {
		return settings.Settings{}, nil, err
	}

	scannedFiles, err := p.vaultManager.ScanAll(ctx)
	if err != nil {
		return settings.Settings{}, nil, fmt.Errorf("failed to scan vault: %w", err)
	}

	files := make([]vault.ScannedFile, 0, len(scannedFiles))
	for _, file := range scannedFiles {
		if s.InScope(file.RelPath) {
			files = append(files, file)
		}
	}
	if len(files) == 0 {
		return settings.Settings{}, nil, ErrNoNotes
	}
	return s, files, nil
}

// ProcessAll processes every in-scope note. Errors for individual notes are
// logged and counted but don't stop the run; they are not retried. progress,
// if non-nil, is called after every note.
func (p *Pipeline) ProcessAll(ctx context.Context, progress func(Progress)) (Summary, error) {
	s, files, err := p.Plan(ctx)
	if err != nil {
		return Summary{}, err
	}
	return p.processFiles(ctx, s, files, progress)
}

func (p *Pipeline) processFiles(ctx context.Context, s settings.Settings, files []vault.ScannedFile, progress func(Progress)) (Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)
	summary := Summary{Total: len(files), Failures: []Failure{}}

	logger.InfoContext(ctx, "starting bulk extraction", "total_files", len(files), "property", s.Property, "heading", s.Heading)

	for _, file := range files {
		// Check for context cancellation
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := p.processNote(ctx, s, file.RelPath)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{RelPath: file.RelPath, Err: err})
			logger.ErrorContext(ctx, "failed to process note", "rel_path", file.RelPath, "error", err)
		} else {
			summary.Processed++
			if result.Status == StatusUpdated {
				summary.Updated++
			}
		}

		if progress != nil {
			progress(Progress{
				RelPath:   file.RelPath,
				Status:    result.Status,
				Err:       err,
				Total:     summary.Total,
				Processed: summary.Processed,
				Updated:   summary.Updated,
				Failed:    summary.Failed,
			})
		}
	}

	logger.InfoContext(ctx, "bulk extraction completed",
		"total_files", summary.Total, "processed", summary.Processed, "updated", summary.Updated, "errors", summary.Failed)
	return summary, nil
}

// Status reports whether processing the note would leave it unchanged.
// Notes outside the allowed directories and notes whose section yields no
// names are never written, so both are in sync.
func (p *Pipeline) Status(ctx context.Context, relPath string) (SyncStatus, error) {
	s, err := p.Settings(ctx)
	if err != nil {
		return SyncStatus{}, err
	}

	rel, err := vault.CleanRelPath(relPath)
	if err != nil {
		return SyncStatus{}, err
	}
	if !settings.IsMarkdown(rel) {
		return SyncStatus{}, fmt.Errorf("%w: %s", ErrNotMarkdown, rel)
	}

	content, err := p.vaultManager.ReadNote(ctx, rel)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("failed to read note %s: %w", rel, err)
	}

	current, ok, err := frontmatter.Values(content, s.Property)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("failed to read %s from %s: %w", s.Property, rel, err)
	}
	if current == nil {
		current = []string{}
	}

	extracted := s.Extractor().Extract(content)
	status := SyncStatus{
		RelPath:     rel,
		Property:    s.Property,
		Extracted:   extracted,
		Current:     current,
		HasProperty: ok,
		OutOfScope:  !s.InScope(rel),
	}
	switch {
	case status.OutOfScope, len(extracted) == 0:
		status.InSync = true
	default:
		status.InSync = frontmatter.Merge(content, s.Property, extracted) == content
	}
	return status, nil
}
