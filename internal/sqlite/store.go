// Package sqlite implements the persistent audit store. Each traceability
// build can be recorded as a run: its matrix, every proposed mapping
// including the ones below the acceptance threshold, and the validation
// reports. The registry's standards are persisted too, so a later audit can
// reconstruct exactly which clause patterns produced a mapping.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// dbFileName is the database file created inside the data directory.
const dbFileName = "tracemat.db"

// Store errors.
var (
	ErrDetached        = errors.New("store is not attached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrRunNotFound     = errors.New("run not found")
)

// Store is the SQLite-backed audit store. All methods are safe for
// concurrent use once attached.
type Store struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	logger   *slog.Logger
}

// NewStore creates a detached store. Call Attach with a data directory
// before use. A nil logger selects slog.Default().
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Attach opens the database under dataDir, creating the directory and the
// schema as needed. Returns ErrAlreadyAttached on a second call.
func (s *Store) Attach(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return ErrAlreadyAttached
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	for _, statement := range schemaStatements {
		if _, err := db.Exec(statement); err != nil {
			db.Close()
			return fmt.Errorf("initializing schema: %w", err)
		}
	}

	s.db = db
	s.attached = true
	s.logger.Debug("audit store attached", slog.String("path", dbPath))
	return nil
}

// Detach closes the database. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
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

// handle returns the open database or ErrDetached.
func (s *Store) handle() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, ErrDetached
	}
	return s.db, nil
}

// generateUUID generates a UUID v7 for row identifiers.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4.
		return uuid.NewString()
	}
	return id.String()
}
