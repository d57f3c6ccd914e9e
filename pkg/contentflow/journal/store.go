// Package journal records a per-step trace of contentflow runs.
//
// The journal is write-mostly inspection data: it backs run reports and
// debugging tools. It is never read back into a run.
package journal

import (
	"errors"
	"time"
)

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores the entry for a run at a specific step.
	// Overwrites if an entry for (runID, step) already exists.
	Append(runID string, step int, data []byte) error

	// Load retrieves one entry.
	// Returns ErrNotFound if the entry doesn't exist.
	Load(runID string, step int) ([]byte, error)

	// List returns metadata for all entries of a run, ordered by step.
	// Returns empty slice (not error) if the run has no entries.
	List(runID string) ([]Info, error)

	// Runs returns the IDs of all runs with at least one entry.
	Runs() ([]string, error)

	// DeleteRun removes all entries for a run.
	// Returns nil if the run has no entries.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the entry.
type Info struct {
	RunID     string
	Step      int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("journal entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)
