package types

import "errors"

// Updatable field names accepted by the per-entity update allow-lists.
// Update calls carry a map keyed by these names; any other key is rejected
// with ErrUnknownField rather than dropped, so a typo or an attempted
// mass-assignment of a protected field (identifier, creator, timestamps)
// fails loudly.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "due_date"
	FieldTags        = "tags"
	FieldAssignees   = "assignees"
	FieldBody        = "body"
)

// TaskStore persists tasks. Get is a point lookup and returns soft-deleted
// records with their deletion marker intact; Scan and AllLive apply the
// soft-delete visibility rule and never return deleted tasks.
type TaskStore interface {
	// Create persists a new task and returns its generated ID.
	Create(t *Task) (string, error)

	// Get retrieves a task by ID regardless of deletion state.
	// Returns ErrNotFound if no record exists with that ID.
	Get(id string) (*Task, error)

	// Update applies allow-listed fields to a live task and returns the
	// updated record. Returns ErrUnknownField for keys outside the
	// allow-list, ErrNoFields for an empty field map, and ErrNotFound if
	// the task is absent or soft-deleted.
	Update(id string, fields map[string]any) (*Task, error)

	// Delete sets the deletion timestamp on a live task.
	// Returns ErrNotFound if the task is absent or already deleted.
	Delete(id string) error

	// Scan returns one page of live tasks matching the filter plus the
	// total count under the same predicate. Order is creation time
	// descending with ties broken by ID ascending.
	Scan(filter ListFilter) ([]*Task, int, error)

	// AllLive returns every live task, unordered. The analytics engine
	// groups over this snapshot in memory.
	AllLive() ([]*Task, error)
}

// CommentStore persists threaded comments.
type CommentStore interface {
	Create(c *Comment) (string, error)

	// Get retrieves a comment by ID regardless of deletion state.
	Get(id string) (*Comment, error)

	// Update applies allow-listed fields (body only) to a live comment.
	Update(id string, fields map[string]any) (*Comment, error)

	// Delete sets the deletion timestamp on a live comment.
	Delete(id string) error

	// ListByTask returns the live comments of a task, oldest first.
	ListByTask(taskID string) ([]*Comment, error)
}

// AttachmentStore persists attachment metadata. Attachments have no mutable
// fields, so there is no Update.
type AttachmentStore interface {
	Create(a *Attachment) (string, error)

	// Get retrieves an attachment by ID regardless of deletion state.
	Get(id string) (*Attachment, error)

	// Delete sets the deletion timestamp on a live attachment.
	Delete(id string) error

	// ListByTask returns the live attachments of a task, newest first.
	ListByTask(taskID string) ([]*Attachment, error)
}

// Store operation errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidID    = errors.New("invalid entity ID")
	ErrUnknownField = errors.New("unknown update field")
	ErrNoFields     = errors.New("no fields to update")
	ErrInvalidData  = errors.New("invalid field value")
)
