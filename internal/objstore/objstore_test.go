package objstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutRemoveExists(t *testing.T) {
	s := New(t.TempDir())

	locator, err := s.Put([]byte("content"), "notes.txt")
	require.NoError(t, err)
	assert.True(t, s.Exists(locator))

	path, err := s.Open(locator)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	require.NoError(t, s.Remove(locator))
	assert.False(t, s.Exists(locator))

	// Removing an already-absent object is tolerated.
	require.NoError(t, s.Remove(locator))
}

func TestPutUsesDistinctLocators(t *testing.T) {
	s := New(t.TempDir())

	first, err := s.Put([]byte("a"), "same.txt")
	require.NoError(t, err)
	second, err := s.Put([]byte("b"), "same.txt")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, s.Exists(first))
	assert.True(t, s.Exists(second))
}

func TestResolveRejectsEscapingLocators(t *testing.T) {
	s := New(t.TempDir())

	assert.ErrorIs(t, s.Remove("../outside"), ErrBadLocator)
	assert.False(t, s.Exists("../../etc/passwd"))
	_, err := s.Open("/abs/path")
	assert.ErrorIs(t, err, ErrBadLocator)
}
