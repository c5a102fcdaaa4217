package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"attendees-extractor/internal/storage"
)

var (
	// ErrNoteNotFound is returned when a note does not exist in the vault.
	ErrNoteNotFound = errors.New("note not found")
	// ErrInvalidPath is returned for paths that are empty or escape the vault root.
	ErrInvalidPath = errors.New("invalid note path")
)

// Manager reads and writes notes inside one vault directory.
type Manager struct {
	vault storage.VaultRecord
}

// NewManager creates a vault manager for the directory at rootPath,
// registering it under name.
func NewManager(ctx context.Context, vaultRepo storage.VaultStore, name, rootPath string) (*Manager, error) {
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path %s: %w", rootPath, err)
	}

	record, err := vaultRepo.GetOrCreateByName(ctx, name, root)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault %s: %w", name, err)
	}

	return &Manager{vault: record}, nil
}

// Vault returns the vault record the manager operates on.
func (m *Manager) Vault() storage.VaultRecord {
	return m.vault
}

// CleanRelPath normalizes a vault-relative note path to forward slashes and
// rejects empty paths and parent-directory segments.
func CleanRelPath(raw string) (string, error) {
	trimmed := strings.TrimSpace(filepath.ToSlash(raw))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: path traversal detected", ErrInvalidPath)
		}
	}

	cleaned := strings.TrimPrefix(path.Clean("/"+trimmed), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	return cleaned, nil
}

// AbsPath returns the absolute file path of a vault-relative note path.
func (m *Manager) AbsPath(relPath string) (string, error) {
	rel, err := CleanRelPath(relPath)
	if err != nil {
		return "", err
	}

	root := filepath.Clean(m.vault.RootPath)
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: path escapes vault root", ErrInvalidPath)
	}
	return abs, nil
}

// ReadNote returns the full text of a note.
func (m *Manager) ReadNote(ctx context.Context, relPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	absPath, err := m.AbsPath(relPath)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoteNotFound, relPath)
		}
		return "", fmt.Errorf("failed to read file %s: %w", absPath, err)
	}
	return string(content), nil
}

// WriteNote replaces the text of an existing note. The content goes to a
// temporary file in the same directory first and is renamed over the note,
// keeping the note's permissions.
func (m *Manager) WriteNote(ctx context.Context, relPath, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	absPath, err := m.AbsPath(relPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoteNotFound, relPath)
		}
		return fmt.Errorf("failed to stat file %s: %w", absPath, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", absPath, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file %s: %w", absPath, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", absPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file %s: %w", absPath, err)
	}
	if err := os.Rename(tmpPath, absPath); err != nil {
		return fmt.Errorf("failed to replace file %s: %w", absPath, err)
	}
	return nil
}
