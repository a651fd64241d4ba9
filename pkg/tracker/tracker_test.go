package tracker

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/objstore"
	"github.com/mesh-intelligence/taskboard/internal/sanitize"
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// setupService builds a Service over a real SQLite backend, the bluemonday
// sanitizer, and a local-disk object store, all rooted in temp dirs.
func setupService(t *testing.T) (*Service, *objstore.Store) {
	t.Helper()

	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { backend.Detach() })

	objects := objstore.New(t.TempDir())
	svc := New(backend, sanitize.New(), objects, zerolog.Nop())
	return svc, objects
}

// stubRecordStore lets tests swap individual entity stores under a Service.
type stubRecordStore struct {
	tasks       types.TaskStore
	comments    types.CommentStore
	attachments types.AttachmentStore
}

func (s *stubRecordStore) Tasks() types.TaskStore              { return s.tasks }
func (s *stubRecordStore) Comments() types.CommentStore        { return s.comments }
func (s *stubRecordStore) Attachments() types.AttachmentStore  { return s.attachments }
func (s *stubRecordStore) Attach(config types.Config) error    { return nil }
func (s *stubRecordStore) Detach() error                       { return nil }
