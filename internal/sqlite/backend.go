// This file implements the attach/detach lifecycle of the SQLite record
// store and the accessors for the per-entity stores.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "taskboard.db"

// timeFormat is the canonical timestamp encoding for all tables: UTC with a
// fixed-width fractional second, so that lexicographic order matches
// chronological order. RFC3339Nano is unsuitable here because it trims
// trailing zeros.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Backend implements types.RecordStore on a single SQLite database file.
// The database is durable: attaching to an existing DataDir reopens the
// previous state.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	tasks       *taskStore
	comments    *commentStore
	attachments *attachmentStore
}

// Compile-time interface check.
var _ types.RecordStore = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	b := &Backend{}
	b.tasks = &taskStore{backend: b}
	b.comments = &commentStore{backend: b}
	b.attachments = &attachmentStore{backend: b}
	return b
}

// Tasks returns the task store accessor.
func (b *Backend) Tasks() types.TaskStore { return b.tasks }

// Comments returns the comment store accessor.
func (b *Backend) Comments() types.CommentStore { return b.comments }

// Attachments returns the attachment store accessor.
func (b *Backend) Attachments() types.AttachmentStore { return b.attachments }

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist and applies the schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return fmt.Errorf("enabling foreign keys: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach releases backend resources. Idempotent: detaching a detached
// backend succeeds.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	b.attached = false
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// conn returns the live database handle, or ErrDetached when the backend is
// not attached. Every store operation goes through here.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.db, nil
}

// formatTime encodes a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime decodes a stored timestamp.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// formatNullTime encodes an optional timestamp.
func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// parseNullTime decodes an optional stored timestamp.
func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
