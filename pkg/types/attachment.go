package types

import "time"

// Attachment is the metadata record for one uploaded binary object. Locator
// is opaque to the core; it is handed back to the ObjectStore collaborator
// for removal and existence checks. The physical bytes are purged at
// soft-delete time; the metadata record itself is never hard-deleted.
type Attachment struct {
	AttachmentID string     `json:"attachment_id"`
	TaskID       string     `json:"task_id"`
	UploadedBy   string     `json:"uploaded_by"`
	Filename     string     `json:"filename"`
	MimeType     string     `json:"mime_type"`
	SizeBytes    int64      `json:"size_bytes"`
	Locator      string     `json:"locator"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the attachment carries a soft-delete marker.
func (a *Attachment) Deleted() bool { return a.DeletedAt != nil }
