package journal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the current entry format version.
// Increment when making breaking changes to the entry structure.
const Version = 1

// Entry is the journal record written after each orchestrator step.
// Step 0 holds the initial state; later steps follow worker dispatches.
// A run that ends on a decision gets one more entry for that decision.
type Entry struct {
	// Metadata
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	Step      int       `json:"step"`
	Timestamp time.Time `json:"timestamp"`

	// Step summary
	Agent      string        `json:"agent,omitempty"`
	NextAgent  string        `json:"next_agent,omitempty"`
	Complete   bool          `json:"complete"`
	Pages      []string      `json:"pages,omitempty"`
	Errors     []string      `json:"errors,omitempty"`
	Duration   time.Duration `json:"duration"`
	StepFailed bool          `json:"step_failed,omitempty"`

	// State snapshot after the step, already JSON-encoded.
	State json.RawMessage `json:"state,omitempty"`
}

// New creates an entry. The state must already be JSON-serialized.
func New(runID string, step int, agent string, state []byte) *Entry {
	return &Entry{
		Version:   Version,
		RunID:     runID,
		Step:      step,
		Timestamp: time.Now().UTC(),
		Agent:     agent,
		State:     state,
	}
}

// Marshal serializes an entry to JSON.
func (e *Entry) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal deserializes an entry from JSON.
func Unmarshal(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Version != Version {
		return nil, fmt.Errorf("journal entry version %d, want %d", e.Version, Version)
	}
	return &e, nil
}

// ReadRun loads every entry of a run in step order.
func ReadRun(store Store, runID string) ([]*Entry, error) {
	infos, err := store.List(runID)
	if err != nil {
		return nil, fmt.Errorf("list run %s: %w", runID, err)
	}

	entries := make([]*Entry, 0, len(infos))
	for _, info := range infos {
		data, err := store.Load(runID, info.Step)
		if err != nil {
			return nil, fmt.Errorf("load step %d: %w", info.Step, err)
		}
		e, err := Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("decode step %d: %w", info.Step, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
