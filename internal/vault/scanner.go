package vault

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// skippedDirs are vault folders that never hold user notes.
var skippedDirs = map[string]bool{
	".obsidian": true,
	".trash":    true,
	".git":      true,
}

// ScannedFile represents a markdown file found during vault scanning.
type ScannedFile struct {
	RelPath string // Relative path from vault root (e.g., "Meetings/2024-05-01.md")
	Folder  string // Folder path (path components except filename, e.g., "Meetings")
	AbsPath string // Absolute file path
}

// ScanAll walks the vault and returns every markdown note, sorted by path.
func (m *Manager) ScanAll(ctx context.Context) ([]ScannedFile, error) {
	var scannedFiles []ScannedFile
	root := m.vault.RootPath

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		// Check for context cancellation
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		scannedFiles = append(scannedFiles, ScannedFile{
			RelPath: relPath,
			Folder:  folder,
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault %s: %w", m.vault.Name, err)
	}

	sort.Slice(scannedFiles, func(i, j int) bool {
		return scannedFiles[i].RelPath < scannedFiles[j].RelPath
	})
	return scannedFiles, nil
}
