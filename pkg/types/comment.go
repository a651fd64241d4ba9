package types

import (
	"errors"
	"time"
)

// Comment is a threaded note on a task. ParentID, when non-empty, points at
// another comment and forms a reply tree. The store keeps ParentID verbatim
// and does not verify that the parent exists; readers resolve the tree
// lazily and treat a dangling parent as a top-level comment.
type Comment struct {
	CommentID string     `json:"comment_id"`
	TaskID    string     `json:"task_id"`
	AuthorID  string     `json:"author_id"`
	Body      string     `json:"body"`
	ParentID  string     `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the comment carries a soft-delete marker.
func (c *Comment) Deleted() bool { return c.DeletedAt != nil }

// ErrBodyRequired is returned when a comment is created or updated with an
// empty body.
var ErrBodyRequired = errors.New("body must not be empty")
