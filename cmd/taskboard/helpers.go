// Shared helpers for taskboard CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/taskboard/internal/objstore"
	"github.com/mesh-intelligence/taskboard/internal/sanitize"
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/tracker"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// objectsDirName is the object-store directory inside the data dir.
const objectsDirName = "files"

// newService resolves the data directory, attaches the SQLite backend, and
// builds the tracker service over it. The returned cleanup function detaches
// the backend and must be deferred by the caller.
func newService() (*tracker.Service, func(), error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := sqlite.NewBackend()
	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}
	if err := backend.Attach(cfg); err != nil {
		return nil, nil, fmt.Errorf("attach backend: %w", err)
	}

	objects := objstore.New(filepath.Join(dataDir, objectsDirName))
	svc := tracker.New(backend, sanitize.New(), objects, logger)

	cleanup := func() {
		if err := backend.Detach(); err != nil {
			logger.Warn().Err(err).Msg("backend detach failed")
		}
	}
	return svc, cleanup, nil
}

// actor builds the acting identity from the global --as and --role flags.
func actor() types.Actor {
	return types.Actor{ID: flagActor, Role: flagRole}
}

// printEntity renders v as indented JSON when --json is set, otherwise
// falls back to the supplied plain-text printer.
func printEntity(v any, plain func()) error {
	if !flagJSON {
		plain()
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// taskLine formats one task for plain listing output.
func taskLine(t *types.Task) string {
	return fmt.Sprintf("%s  [%s/%s]  %s", t.TaskID, t.Status, t.Priority, t.Title)
}
