package journal

import (
	"slices"
	"sync"
	"time"
)

type entryKey struct {
	runID string
	step  int
}

type storedEntry struct {
	data     []byte
	recorded time.Time
}

// MemoryStore keeps the journal in process memory. It backs tests and
// CLI runs that only need a report at the end.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[entryKey]storedEntry
	closed  bool
}

// NewMemoryStore creates an empty in-memory journal.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[entryKey]storedEntry)}
}

func (m *MemoryStore) read(fn func()) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrStoreClosed
	}
	fn()
	return nil
}

func (m *MemoryStore) write(fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	fn()
	return nil
}

// Append implements Store. The data is copied.
func (m *MemoryStore) Append(runID string, step int, data []byte) error {
	return m.write(func() {
		m.entries[entryKey{runID, step}] = storedEntry{
			data:     slices.Clone(data),
			recorded: time.Now().UTC(),
		}
	})
}

// Load implements Store. The returned slice is a copy.
func (m *MemoryStore) Load(runID string, step int) ([]byte, error) {
	var (
		data  []byte
		found bool
	)
	if err := m.read(func() {
		var e storedEntry
		if e, found = m.entries[entryKey{runID, step}]; found {
			data = slices.Clone(e.data)
		}
	}); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return data, nil
}

// List implements Store.
func (m *MemoryStore) List(runID string) ([]Info, error) {
	infos := []Info{}
	err := m.read(func() {
		for k, e := range m.entries {
			if k.runID != runID {
				continue
			}
			infos = append(infos, Info{
				RunID:     runID,
				Step:      k.step,
				Timestamp: e.recorded,
				Size:      int64(len(e.data)),
			})
		}
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(infos, func(a, b Info) int { return a.Step - b.Step })
	return infos, nil
}

// Runs implements Store.
func (m *MemoryStore) Runs() ([]string, error) {
	var runs []string
	err := m.read(func() {
		for k := range m.entries {
			runs = append(runs, k.runID)
		}
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(runs)
	return append([]string{}, slices.Compact(runs)...), nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	return m.write(func() {
		for k := range m.entries {
			if k.runID == runID {
				delete(m.entries, k)
			}
		}
	})
}

// Close implements Store and drops all entries.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	return nil
}

// Len returns the number of entries across all runs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
