package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// setupBackend creates an attached Backend on a temp data dir and registers
// a cleanup detach.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackendAttachDetach(t *testing.T) {
	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	require.NoError(t, b.Attach(config))
	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)

	require.NoError(t, b.Detach())
	// Detach is idempotent.
	require.NoError(t, b.Detach())
}

func TestBackendRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "mysql"}), types.ErrBackendUnknown)
}

func TestBackendDetachedOperationsFail(t *testing.T) {
	b := NewBackend()

	_, err := b.Tasks().Get("some-id")
	assert.ErrorIs(t, err, types.ErrDetached)

	_, err = b.Comments().ListByTask("some-id")
	assert.ErrorIs(t, err, types.ErrDetached)

	err = b.Attachments().Delete("some-id")
	assert.ErrorIs(t, err, types.ErrDetached)
}

func TestBackendDurableAcrossAttaches(t *testing.T) {
	dataDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	id, err := b.Tasks().Create(&types.Task{Title: "Persistent task"})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	got, err := b2.Tasks().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Persistent task", got.Title)
}
