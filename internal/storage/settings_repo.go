package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_settings_store.go -package=mocks attendees-extractor/internal/storage SettingsStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"attendees-extractor/internal/settings"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// SettingsStore persists the extraction settings across restarts.
type SettingsStore interface {
	// Get returns the saved settings, or ErrNotFound if none were saved yet.
	Get(ctx context.Context) (settings.Settings, error)
	// Save replaces the saved settings.
	Save(ctx context.Context, s settings.Settings) error
}

// SettingsRepo stores settings in a single-row table.
// It implements the SettingsStore interface.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the saved settings, or ErrNotFound if none were saved yet.
func (r *SettingsRepo) Get(ctx context.Context) (settings.Settings, error) {
	var s settings.Settings
	var directories string
	var enableOnSave int

	err := r.db.QueryRowContext(ctx,
		"SELECT heading, property, template, directories, enable_on_save FROM settings WHERE id = 1",
	).Scan(&s.Heading, &s.Property, &s.Template, &directories, &enableOnSave)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Settings{}, ErrNotFound
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}

	if err := json.Unmarshal([]byte(directories), &s.Directories); err != nil {
		return settings.Settings{}, fmt.Errorf("failed to decode directories: %w", err)
	}
	if s.Directories == nil {
		s.Directories = []string{}
	}
	s.EnableOnSave = enableOnSave != 0

	return s, nil
}

// Save replaces the saved settings.
func (r *SettingsRepo) Save(ctx context.Context, s settings.Settings) error {
	dirs := s.Directories
	if dirs == nil {
		dirs = []string{}
	}
	directories, err := json.Marshal(dirs)
	if err != nil {
		return fmt.Errorf("failed to encode directories: %w", err)
	}

	enableOnSave := 0
	if s.EnableOnSave {
		enableOnSave = 1
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (id, heading, property, template, directories, enable_on_save, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		 heading = excluded.heading, property = excluded.property, template = excluded.template,
		 directories = excluded.directories, enable_on_save = excluded.enable_on_save,
		 updated_at = excluded.updated_at`,
		s.Heading, s.Property, s.Template, string(directories), enableOnSave, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// LoadOrSeed returns the saved settings. When nothing was saved yet it saves
// seed and returns it.
func LoadOrSeed(ctx context.Context, store SettingsStore, seed settings.Settings) (settings.Settings, error) {
	s, err := store.Get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return settings.Settings{}, err
	}
	if err := store.Save(ctx, seed); err != nil {
		return settings.Settings{}, err
	}
	return seed, nil
}
