package settings

import (
	"path"
	"strings"

	"attendees-extractor/internal/section"
	"attendees-extractor/internal/service"
)

// Default values used until settings are saved.
const (
	DefaultHeading  = "Attendees"
	DefaultProperty = "people"
	DefaultTemplate = "[[People/{name}|{name}]]"
)

// Settings is the configuration for one extraction and merge cycle.
type Settings struct {
	// Heading is matched case-insensitively against heading text.
	Heading string `json:"heading"`
	// Property is the metadata key holding the list of names.
	Property string `json:"property"`
	// Template formats each name; every "{name}" is replaced.
	Template string `json:"template"`
	// Directories limits processing to these vault folders. Empty means all.
	Directories []string `json:"directories"`
	// EnableOnSave processes a note every time it is saved.
	EnableOnSave bool `json:"enable_on_save"`
}

// Default returns the settings used before anything is saved.
func Default() Settings {
	return Settings{
		Heading:      DefaultHeading,
		Property:     DefaultProperty,
		Template:     DefaultTemplate,
		Directories:  []string{},
		EnableOnSave: false,
	}
}

// Validate checks the fields needed by the extractor and merger.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Heading) == "" {
		return &service.ValidationError{Field: "heading", Message: "cannot be empty"}
	}
	if strings.TrimSpace(s.Property) == "" {
		return &service.ValidationError{Field: "property", Message: "cannot be empty"}
	}
	if strings.ContainsAny(s.Property, ": \t\r\n") {
		return &service.ValidationError{Field: "property", Message: "cannot contain ':' or whitespace"}
	}
	if s.Template == "" {
		return &service.ValidationError{Field: "template", Message: "cannot be empty"}
	}
	if strings.ContainsAny(s.Template, "\r\n") {
		return &service.ValidationError{Field: "template", Message: "cannot contain line breaks"}
	}
	for _, dir := range s.Directories {
		if strings.TrimSpace(dir) == "" {
			return &service.ValidationError{Field: "directories", Message: "entries cannot be empty"}
		}
	}
	return nil
}

// Extractor returns a section extractor for these settings.
func (s Settings) Extractor() *section.Extractor {
	return section.NewExtractor(s.Heading, s.Template)
}

// InScope reports whether the note at relPath (vault-relative, forward
// slashes) may be processed. A directory matches itself and anything below
// it on a path-segment boundary, so "Meetings" does not match "Meetings2024.md".
// Leading and trailing slashes are ignored; "/" alone selects the whole vault.
func (s Settings) InScope(relPath string) bool {
	if len(s.Directories) == 0 {
		return true
	}
	for _, dir := range s.Directories {
		dir = strings.Trim(strings.TrimSpace(dir), "/")
		if dir == "" {
			return true
		}
		if relPath == dir || strings.HasPrefix(relPath, dir+"/") {
			return true
		}
	}
	return false
}

// IsMarkdown reports whether relPath names a markdown note.
func IsMarkdown(relPath string) bool {
	return path.Ext(relPath) == ".md"
}

// ParseDirectories splits a comma-separated directory list, trimming each
// entry and dropping empty ones.
func ParseDirectories(csv string) []string {
	dirs := []string{}
	for _, part := range strings.Split(csv, ",") {
		if dir := strings.TrimSpace(part); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
