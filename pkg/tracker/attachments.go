// This file implements the attachment manager: per-file independent upload,
// purge-then-mark deletion, listing, and download resolution.
package tracker

import (
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// FileUpload is one inbound file for Upload.
type FileUpload struct {
	Name     string
	MimeType string
	Data     []byte
}

// UploadError reports one file that could not be saved.
type UploadError struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Upload stores each file as an independent unit of work: the bytes go to
// the object store, then the metadata record is persisted. A failure on one
// file never rolls back the files already saved; the return value reports
// both the saved records and the per-file failures.
func (s *Service) Upload(actor types.Actor, taskID string, files []FileUpload) ([]*types.Attachment, []UploadError, error) {
	if err := s.requireLiveTask(taskID); err != nil {
		return nil, nil, err
	}

	var saved []*types.Attachment
	var failed []UploadError
	for i, f := range files {
		attachment, err := s.uploadOne(actor, taskID, f)
		if err != nil {
			s.logger.Error().Err(err).
				Str("task_id", taskID).
				Str("filename", f.Name).
				Msg("file upload failed")
			failed = append(failed, UploadError{Index: i, Name: f.Name, Reason: err.Error()})
			continue
		}
		saved = append(saved, attachment)
	}
	return saved, failed, nil
}

// uploadOne writes the bytes and the metadata for a single file. If the
// metadata write fails after the bytes landed, the orphaned object is
// removed best-effort.
func (s *Service) uploadOne(actor types.Actor, taskID string, f FileUpload) (*types.Attachment, error) {
	locator, err := s.objects.Put(f.Data, f.Name)
	if err != nil {
		return nil, err
	}

	attachment := &types.Attachment{
		TaskID:     taskID,
		UploadedBy: actor.ID,
		Filename:   f.Name,
		MimeType:   f.MimeType,
		SizeBytes:  int64(len(f.Data)),
		Locator:    locator,
	}
	if _, err := s.attachments.Create(attachment); err != nil {
		if removeErr := s.objects.Remove(locator); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("locator", locator).Msg("orphaned object cleanup failed")
		}
		return nil, err
	}
	return attachment, nil
}

// DeleteAttachment purges the physical object, then soft-deletes the
// metadata record. A purge failure is logged and swallowed: attachments must
// not become permanently stuck because the storage layer is flaky.
func (s *Service) DeleteAttachment(id string) error {
	attachment, err := s.attachments.Get(id)
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("attachment_id", id).Msg("attachment get failed")
		}
		return err
	}
	if attachment.Deleted() {
		return types.ErrNotFound
	}

	if err := s.objects.Remove(attachment.Locator); err != nil {
		s.logger.Warn().Err(err).
			Str("attachment_id", id).
			Str("locator", attachment.Locator).
			Msg("attachment purge failed, deleting metadata anyway")
	}

	if err := s.attachments.Delete(id); err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("attachment_id", id).Msg("attachment delete failed")
		}
		return err
	}
	return nil
}

// Attachments returns the live attachments of a task, newest first.
func (s *Service) Attachments(taskID string) ([]*types.Attachment, error) {
	attachments, err := s.attachments.ListByTask(taskID)
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("task_id", taskID).Msg("attachment list failed")
		}
		return nil, err
	}
	return attachments, nil
}

// ResolveAttachment returns the metadata of a live attachment after checking
// that its object is still present, for callers about to stream the bytes.
// A missing object reads as not found.
func (s *Service) ResolveAttachment(id string) (*types.Attachment, error) {
	attachment, err := s.attachments.Get(id)
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("attachment_id", id).Msg("attachment get failed")
		}
		return nil, err
	}
	if attachment.Deleted() {
		return nil, types.ErrNotFound
	}
	if !s.objects.Exists(attachment.Locator) {
		return nil, types.ErrNotFound
	}
	return attachment, nil
}
