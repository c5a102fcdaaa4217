package processor

import "errors"

var (
	// ErrNotMarkdown is returned when asked to process a file that is not a markdown note.
	ErrNotMarkdown = errors.New("not a markdown note")
	// ErrNoNotes is returned when a bulk run finds no in-scope notes.
	ErrNoNotes = errors.New("no notes found in allowed directories")
	// ErrRunInProgress is returned when a bulk run is started while another is running.
	ErrRunInProgress = errors.New("a bulk run is already in progress")
)

// Status is the outcome of processing one note.
type Status string

const (
	// StatusUpdated means names were found and written to the metadata block.
	StatusUpdated Status = "updated"
	// StatusNoNames means the section was missing or held no names; the note was left alone.
	StatusNoNames Status = "no_names"
	// StatusOutOfScope means the note is outside the configured directories.
	StatusOutOfScope Status = "out_of_scope"
	// StatusError means the note could not be read or written.
	StatusError Status = "error"
)

// Result describes what happened to one note.
type Result struct {
	RelPath  string
	Property string
	Status   Status
	Names    []string // Formatted names, in section order
	Changed  bool     // False when the metadata already held exactly these names
}

// Progress is reported after every note of a bulk run.
type Progress struct {
	RelPath   string
	Status    Status
	Err       error // Set when the note failed
	Total     int
	Processed int
	Updated   int
	Failed    int
}

// Failure is a note that failed during a bulk run.
type Failure struct {
	RelPath string
	Err     error
}

// Summary is the final report of a bulk run.
type Summary struct {
	Total     int
	Processed int
	Updated   int
	Failed    int
	Failures  []Failure
}

// SyncStatus compares the names in a note's section with its metadata.
// InSync is true when processing the note would not rewrite it.
type SyncStatus struct {
	RelPath     string
	Property    string
	Extracted   []string // Names the section currently yields
	Current     []string // Names stored under the property
	HasProperty bool
	OutOfScope  bool
	InSync      bool
}
