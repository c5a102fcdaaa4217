package storage

import "time"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// VaultRecord represents the vault the service operates on.
type VaultRecord struct {
	ID        int
	Name      string
	RootPath  string
	CreatedAt time.Time
}

// RunCounts holds the running totals of a bulk run.
type RunCounts struct {
	Total     int // In-scope notes found when the run started
	Processed int // Notes read and extracted without error
	Updated   int // Notes whose metadata was written
	Failed    int // Notes that could not be read or written
}

// RunRecord represents one "process all notes" run.
type RunRecord struct {
	ID         string // UUID
	Status     string // running, completed or failed
	Counts     RunCounts
	StartedAt  time.Time
	FinishedAt *time.Time // nil while running
	Failures   []RunFailure
}

// RunFailure is a note that failed during a run.
type RunFailure struct {
	RelPath string
	Error   string
}
