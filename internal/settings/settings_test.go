package settings

import (
	"errors"
	"reflect"
	"testing"

	"attendees-extractor/internal/service"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.Heading != "Attendees" || s.Property != "people" || s.Template != "[[People/{name}|{name}]]" {
		t.Errorf("Default() = %+v", s)
	}
	if len(s.Directories) != 0 || s.EnableOnSave {
		t.Errorf("Default() should allow all directories with save hook off, got %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Settings)
		wantField string
	}{
		{name: "valid", modify: func(*Settings) {}},
		{name: "empty heading", modify: func(s *Settings) { s.Heading = "  " }, wantField: "heading"},
		{name: "empty property", modify: func(s *Settings) { s.Property = "" }, wantField: "property"},
		{name: "property with colon", modify: func(s *Settings) { s.Property = "people:" }, wantField: "property"},
		{name: "property with space", modify: func(s *Settings) { s.Property = "my people" }, wantField: "property"},
		{name: "empty template", modify: func(s *Settings) { s.Template = "" }, wantField: "template"},
		{name: "template with newline", modify: func(s *Settings) { s.Template = "a\nb" }, wantField: "template"},
		{name: "template without placeholder is fine", modify: func(s *Settings) { s.Template = "static" }},
		{name: "blank directory", modify: func(s *Settings) { s.Directories = []string{"Meetings", " "} }, wantField: "directories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			err := s.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			var ve *service.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", ve.Field, tt.wantField)
			}
			if !errors.Is(err, service.ErrInvalidInput) {
				t.Error("Validate() error should match ErrInvalidInput")
			}
		})
	}
}

func TestSettings_InScope(t *testing.T) {
	tests := []struct {
		name        string
		directories []string
		relPath     string
		want        bool
	}{
		{name: "no directories allows all", directories: nil, relPath: "anything/note.md", want: true},
		{name: "file below directory", directories: []string{"Meetings"}, relPath: "Meetings/2024.md", want: true},
		{name: "exact directory", directories: []string{"Meetings"}, relPath: "Meetings", want: true},
		{name: "sibling with same prefix", directories: []string{"Meetings"}, relPath: "Meetings2024.md", want: false},
		{name: "nested directory", directories: []string{"Work/Meetings"}, relPath: "Work/Meetings/a/b.md", want: true},
		{name: "parent not allowed", directories: []string{"Work/Meetings"}, relPath: "Work/plan.md", want: false},
		{name: "second directory matches", directories: []string{"Meetings", "Projects"}, relPath: "Projects/x.md", want: true},
		{name: "case sensitive", directories: []string{"Meetings"}, relPath: "meetings/x.md", want: false},
		{name: "trailing slash ignored", directories: []string{"Meetings/"}, relPath: "Meetings/x.md", want: true},
		{name: "root selects all", directories: []string{"/"}, relPath: "x.md", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.Directories = tt.directories
			if got := s.InScope(tt.relPath); got != tt.want {
				t.Errorf("InScope(%q) = %v, want %v", tt.relPath, got, tt.want)
			}
		})
	}
}

func TestIsMarkdown(t *testing.T) {
	tests := map[string]bool{
		"note.md":          true,
		"Meetings/2024.md": true,
		"image.png":        false,
		"README":           false,
		"note.md.bak":      false,
	}
	for relPath, want := range tests {
		if got := IsMarkdown(relPath); got != want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", relPath, got, want)
		}
	}
}

func TestParseDirectories(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: []string{}},
		{in: "Meetings", want: []string{"Meetings"}},
		{in: " Meetings , Projects ,,", want: []string{"Meetings", "Projects"}},
	}
	for _, tt := range tests {
		if got := ParseDirectories(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseDirectories(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSettings_Extractor(t *testing.T) {
	s := Default()
	got := s.Extractor().Extract("# attendees\n- Jane Doe - Organizer\n")
	want := []string{"[[People/Jane Doe|Jane Doe]]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extractor().Extract() = %q, want %q", got, want)
	}
}
