// This file implements the comments store accessor for the SQLite backend.
// Thread authorization lives in the tracker service; the store only enforces
// record shape and soft-delete visibility.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Compile-time interface check.
var _ types.CommentStore = (*commentStore)(nil)

type commentStore struct {
	backend *Backend
}

const commentColumns = "comment_id, task_id, author_id, body, parent_id, created_at, deleted_at"

// Create persists a new comment. ParentID is stored verbatim; the store does
// not verify that the parent comment exists.
func (cs *commentStore) Create(c *types.Comment) (string, error) {
	db, err := cs.backend.conn()
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", types.ErrInvalidData
	}
	if c.TaskID == "" {
		return "", types.ErrInvalidID
	}
	if c.Body == "" {
		return "", types.ErrBodyRequired
	}

	newID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	c.CommentID = newID.String()
	c.CreatedAt = time.Now().UTC()
	c.DeletedAt = nil

	_, err = db.Exec(
		"INSERT INTO comments ("+commentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.CommentID, c.TaskID, c.AuthorID, c.Body,
		nullString(c.ParentID), formatTime(c.CreatedAt), sql.NullString{},
	)
	if err != nil {
		return "", fmt.Errorf("inserting comment: %w", err)
	}
	return c.CommentID, nil
}

// Get retrieves a comment by ID regardless of deletion state.
func (cs *commentStore) Get(id string) (*types.Comment, error) {
	db, err := cs.backend.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := db.QueryRow("SELECT "+commentColumns+" FROM comments WHERE comment_id = ?", id)
	c, err := hydrateComment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting comment %s: %w", id, err)
	}
	return c, nil
}

// Update applies allow-listed fields to a live comment. Only the body is
// mutable; author, task, parent, and timestamps are fixed at creation.
func (cs *commentStore) Update(id string, fields map[string]any) (*types.Comment, error) {
	db, err := cs.backend.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if len(fields) == 0 {
		return nil, types.ErrNoFields
	}

	var body string
	for key, value := range fields {
		switch key {
		case types.FieldBody:
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidData, key)
			}
			if s == "" {
				return nil, types.ErrBodyRequired
			}
			body = s
		default:
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownField, key)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireLive(tx, "comments", "comment_id", id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec("UPDATE comments SET body = ? WHERE comment_id = ?", body, id); err != nil {
		return nil, fmt.Errorf("updating comment %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing comment update: %w", err)
	}
	return cs.Get(id)
}

// Delete sets the deletion timestamp on a live comment. An absent or
// already-deleted comment returns ErrNotFound.
func (cs *commentStore) Delete(id string) error {
	db, err := cs.backend.conn()
	if err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireLive(tx, "comments", "comment_id", id); err != nil {
		return err
	}
	_, err = tx.Exec("UPDATE comments SET deleted_at = ? WHERE comment_id = ?", formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("deleting comment %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing comment deletion: %w", err)
	}
	return nil
}

// ListByTask returns the live comments of a task, oldest first. Threads read
// top-down chronologically, the opposite of task listing.
func (cs *commentStore) ListByTask(taskID string) ([]*types.Comment, error) {
	db, err := cs.backend.conn()
	if err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, types.ErrInvalidID
	}

	rows, err := db.Query(
		"SELECT "+commentColumns+" FROM comments WHERE task_id = ? AND deleted_at IS NULL"+
			" ORDER BY created_at ASC, comment_id ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var comments []*types.Comment
	for rows.Next() {
		c, err := hydrateComment(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// hydrateComment converts one row of the comments table into a *types.Comment.
func hydrateComment(row rowScanner) (*types.Comment, error) {
	var c types.Comment
	var parentID, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(&c.CommentID, &c.TaskID, &c.AuthorID, &c.Body, &parentID, &createdAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	c.ParentID = parentID.String
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, fmt.Errorf("parsing deleted_at: %w", err)
	}
	return &c, nil
}

// nullString encodes an optional string column.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
