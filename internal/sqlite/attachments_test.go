package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestAttachmentCreateAndGet(t *testing.T) {
	b := setupBackend(t)
	taskID := createTask(t, b, "Task with file")

	id, err := b.Attachments().Create(&types.Attachment{
		TaskID:     taskID,
		UploadedBy: "alice",
		Filename:   "report.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  2048,
		Locator:    "objects/abc/report.pdf",
	})
	require.NoError(t, err)

	got, err := b.Attachments().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, "application/pdf", got.MimeType)
	assert.Equal(t, int64(2048), got.SizeBytes)
	assert.Equal(t, "objects/abc/report.pdf", got.Locator)
	assert.Nil(t, got.DeletedAt)
}

func TestAttachmentSoftDelete(t *testing.T) {
	b := setupBackend(t)
	taskID := createTask(t, b, "Task")

	id, err := b.Attachments().Create(&types.Attachment{
		TaskID: taskID, UploadedBy: "alice", Filename: "a.txt", MimeType: "text/plain", Locator: "objects/a",
	})
	require.NoError(t, err)

	require.NoError(t, b.Attachments().Delete(id))

	// Metadata survives with the marker set.
	got, err := b.Attachments().Get(id)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)

	list, err := b.Attachments().ListByTask(taskID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, b.Attachments().Delete(id), types.ErrNotFound)
	assert.ErrorIs(t, b.Attachments().Delete("missing"), types.ErrNotFound)
}

func TestAttachmentListNewestFirst(t *testing.T) {
	b := setupBackend(t)
	taskID := createTask(t, b, "Task")

	for _, name := range []string{"one.txt", "two.txt", "three.txt"} {
		_, err := b.Attachments().Create(&types.Attachment{
			TaskID: taskID, UploadedBy: "alice", Filename: name, MimeType: "text/plain", Locator: "objects/" + name,
		})
		require.NoError(t, err)
	}

	list, err := b.Attachments().ListByTask(taskID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "three.txt", list[0].Filename)
	assert.Equal(t, "two.txt", list[1].Filename)
	assert.Equal(t, "one.txt", list[2].Filename)
}
