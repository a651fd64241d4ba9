package types

import "errors"

// RecordStore bundles the per-entity stores behind one attachable backend.
// Callers attach to a backend, use the entity stores, and detach when done.
type RecordStore interface {
	// Tasks returns the task store. Panics are never used; an unattached
	// backend returns stores whose operations fail with ErrDetached.
	Tasks() TaskStore
	Comments() CommentStore
	Attachments() AttachmentStore

	// Attach connects the store to the backend described by config,
	// creating the data directory if needed. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, store operations return ErrDetached.
	Detach() error
}

// Record store lifecycle errors.
var (
	ErrDetached        = errors.New("record store is detached")
	ErrAlreadyAttached = errors.New("record store is already attached")
)
