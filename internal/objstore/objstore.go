// Package objstore is a local-disk object store for attachment bytes. It is
// the local stand-in for the external object-storage collaborator; the core
// only sees the types.ObjectStore interface and treats locators as opaque.
package objstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Compile-time interface check.
var _ types.ObjectStore = (*Store)(nil)

// ErrBadLocator is returned for locators that do not resolve inside the
// store root.
var ErrBadLocator = errors.New("locator escapes object store root")

// Store keeps each object in its own file under root. Locators are
// root-relative paths of the form objects/<uuid>/<name>.
type Store struct {
	root string
}

// New returns a Store rooted at dir. The directory is created lazily on the
// first Put.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Put writes data to a fresh object file and returns its locator. The
// suggested name is kept for operator friendliness but uniqueness comes from
// the UUID path segment.
func (s *Store) Put(data []byte, suggestedName string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating object ID: %w", err)
	}

	name := filepath.Base(suggestedName)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "object"
	}
	locator := filepath.ToSlash(filepath.Join("objects", id.String(), name))

	path, err := s.resolve(locator)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating object dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing object: %w", err)
	}
	return locator, nil
}

// Remove deletes the object behind locator. Removing an absent object is
// not an error.
func (s *Store) Remove(locator string) error {
	path, err := s.resolve(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing object: %w", err)
	}
	return nil
}

// Exists reports whether the object behind locator is present.
func (s *Store) Exists(locator string) bool {
	path, err := s.resolve(locator)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Open returns the absolute path of an existing object, for callers that
// stream the bytes out.
func (s *Store) Open(locator string) (string, error) {
	path, err := s.resolve(locator)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("stat object: %w", err)
	}
	return path, nil
}

// resolve maps a locator to an absolute path and rejects anything that
// escapes the store root.
func (s *Store) resolve(locator string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(locator))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrBadLocator
	}
	return filepath.Join(s.root, cleaned), nil
}
