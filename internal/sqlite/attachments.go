// This file implements the attachments store accessor for the SQLite
// backend. Only metadata lives here; the physical bytes belong to the
// ObjectStore collaborator.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Compile-time interface check.
var _ types.AttachmentStore = (*attachmentStore)(nil)

type attachmentStore struct {
	backend *Backend
}

const attachmentColumns = "attachment_id, task_id, uploaded_by, filename, mime_type, size_bytes, locator, created_at, deleted_at"

// Create persists a new attachment record.
func (as *attachmentStore) Create(a *types.Attachment) (string, error) {
	db, err := as.backend.conn()
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", types.ErrInvalidData
	}
	if a.TaskID == "" {
		return "", types.ErrInvalidID
	}

	newID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	a.AttachmentID = newID.String()
	a.CreatedAt = time.Now().UTC()
	a.DeletedAt = nil

	_, err = db.Exec(
		"INSERT INTO attachments ("+attachmentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.AttachmentID, a.TaskID, a.UploadedBy, a.Filename, a.MimeType,
		a.SizeBytes, a.Locator, formatTime(a.CreatedAt), sql.NullString{},
	)
	if err != nil {
		return "", fmt.Errorf("inserting attachment: %w", err)
	}
	return a.AttachmentID, nil
}

// Get retrieves an attachment by ID regardless of deletion state.
func (as *attachmentStore) Get(id string) (*types.Attachment, error) {
	db, err := as.backend.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := db.QueryRow("SELECT "+attachmentColumns+" FROM attachments WHERE attachment_id = ?", id)
	a, err := hydrateAttachment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting attachment %s: %w", id, err)
	}
	return a, nil
}

// Delete sets the deletion timestamp on a live attachment. The caller purges
// the physical object first; the metadata row survives as history.
func (as *attachmentStore) Delete(id string) error {
	db, err := as.backend.conn()
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

	if err := requireLive(tx, "attachments", "attachment_id", id); err != nil {
		return err
	}
	_, err = tx.Exec("UPDATE attachments SET deleted_at = ? WHERE attachment_id = ?", formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("deleting attachment %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing attachment deletion: %w", err)
	}
	return nil
}

// ListByTask returns the live attachments of a task, newest first.
func (as *attachmentStore) ListByTask(taskID string) ([]*types.Attachment, error) {
	db, err := as.backend.conn()
	if err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, types.ErrInvalidID
	}

	rows, err := db.Query(
		"SELECT "+attachmentColumns+" FROM attachments WHERE task_id = ? AND deleted_at IS NULL"+
			" ORDER BY created_at DESC, attachment_id ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing attachments for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var attachments []*types.Attachment
	for rows.Next() {
		a, err := hydrateAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating attachment row: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// hydrateAttachment converts one row of the attachments table into a
// *types.Attachment.
func hydrateAttachment(row rowScanner) (*types.Attachment, error) {
	var a types.Attachment
	var deletedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&a.AttachmentID, &a.TaskID, &a.UploadedBy, &a.Filename, &a.MimeType,
		&a.SizeBytes, &a.Locator, &createdAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if a.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, fmt.Errorf("parsing deleted_at: %w", err)
	}
	return &a, nil
}
