// Package sqlite provides the public API for the SQLite record store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// NewBackend creates a new SQLite record store instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".taskboard-db",
//	})
//	defer store.Detach()
func NewBackend() types.RecordStore {
	return sqlite.NewBackend()
}
