// Package history persists pipeline run outcomes in a SQLite database
// so past runs can be inspected with `gauntlet history`.
package history

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store errors.
var (
	ErrAlreadyAttached = errors.New("history store already attached")
	ErrStoreDetached   = errors.New("history store not attached")
	ErrRunNotFound     = errors.New("run not found")
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Quick     bool
	Net       bool
	Coverage  bool
	Passed    bool
	Stages    []StageResult
}

// StageResult is one stage outcome within a run.
type StageResult struct {
	Ordinal  int
	Name     string
	Status   string
	Duration time.Duration
	Detail   string
}

// Store provides access to the run-history database.
type Store struct {
	mu       sync.Mutex
	attached bool
	db       *sql.DB
}

// NewStore creates an unattached store; call Attach with the database
// path before use.
func NewStore() *Store {
	return &Store{}
}

// Attach opens (creating if necessary) the history database at dbPath
// and ensures the schema exists. Returns ErrAlreadyAttached when called
// twice without a Detach.
func (s *Store) Attach(dbPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return ErrAlreadyAttached
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return err
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return err
		}
	}

	s.db = db
	s.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil // idempotent
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}

	s.attached = false
	return nil
}

// generateUUID generates a new UUID v7 for run IDs. v7 keeps IDs
// time-ordered, which matches the history listing order.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}
