package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

const (
	createSchema = `
		CREATE TABLE IF NOT EXISTS journal_entries (
			run_id    TEXT    NOT NULL,
			step      INTEGER NOT NULL,
			recorded  TEXT    NOT NULL,
			data      BLOB    NOT NULL,
			PRIMARY KEY (run_id, step)
		)`
	upsertEntry = `
		INSERT INTO journal_entries (run_id, step, recorded, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, step) DO UPDATE SET recorded = excluded.recorded, data = excluded.data`
	selectEntry = `SELECT data FROM journal_entries WHERE run_id = ? AND step = ?`
	selectInfos = `SELECT step, recorded, LENGTH(data) FROM journal_entries WHERE run_id = ? ORDER BY step`
	selectRuns  = `SELECT DISTINCT run_id FROM journal_entries ORDER BY run_id`
	deleteRun   = `DELETE FROM journal_entries WHERE run_id = ?`
)

// SQLiteStore persists the journal to a SQLite database.
// It is meant for a single process; use one file per writer.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// NewSQLiteStore opens or creates a journal database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// ":memory:" databases exist per connection.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enable WAL mode: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("journal schema version %d is newer than supported version %d", version, schemaVersion)
	}

	if _, err := db.Exec(createSchema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// read runs fn under the read lock unless the store is closed.
func (s *SQLiteStore) read(fn func(*sql.DB) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return fn(s.db)
}

// write runs fn under the write lock unless the store is closed.
func (s *SQLiteStore) write(fn func(*sql.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return fn(s.db)
}

// Append implements Store.
func (s *SQLiteStore) Append(runID string, step int, data []byte) error {
	return s.write(func(db *sql.DB) error {
		recorded := time.Now().UTC().Format(time.RFC3339Nano)
		if _, err := db.Exec(upsertEntry, runID, step, recorded, data); err != nil {
			return fmt.Errorf("append journal entry: %w", err)
		}
		return nil
	})
}

// Load implements Store.
func (s *SQLiteStore) Load(runID string, step int) ([]byte, error) {
	var data []byte
	err := s.read(func(db *sql.DB) error {
		err := db.QueryRow(selectEntry, runID, step).Scan(&data)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrNotFound
		case err != nil:
			return fmt.Errorf("load journal entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// List implements Store.
func (s *SQLiteStore) List(runID string) ([]Info, error) {
	infos := []Info{}
	err := s.read(func(db *sql.DB) error {
		rows, err := db.Query(selectInfos, runID)
		if err != nil {
			return fmt.Errorf("list journal entries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			info := Info{RunID: runID}
			var recorded string
			if err := rows.Scan(&info.Step, &recorded, &info.Size); err != nil {
				return fmt.Errorf("scan journal info: %w", err)
			}
			info.Timestamp, _ = time.Parse(time.RFC3339Nano, recorded)
			infos = append(infos, info)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// Runs implements Store.
func (s *SQLiteStore) Runs() ([]string, error) {
	runs := []string{}
	err := s.read(func(db *sql.DB) error {
		rows, err := db.Query(selectRuns)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("scan run id: %w", err)
			}
			runs = append(runs, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	return s.write(func(db *sql.DB) error {
		if _, err := db.Exec(deleteRun, runID); err != nil {
			return fmt.Errorf("delete run entries: %w", err)
		}
		return nil
	})
}

// Close implements Store. Closing twice is a no-op.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
