// This file implements the comment thread manager. The one access-control
// rule of the core lives here: a comment is mutable by its author or by an
// admin, nobody else.
package tracker

import (
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// AddComment attaches a comment to a live task. The body is sanitized before
// storage; parentID is stored verbatim without an existence check, so a
// dangling reply is the caller's mistake and resolves as top-level on read.
func (s *Service) AddComment(actor types.Actor, taskID, body, parentID string) (*types.Comment, error) {
	if err := s.requireLiveTask(taskID); err != nil {
		return nil, err
	}

	clean := s.sanitizer.Sanitize(body)
	if clean == "" {
		return nil, types.ErrBodyRequired
	}

	comment := &types.Comment{
		TaskID:   taskID,
		AuthorID: actor.ID,
		Body:     clean,
		ParentID: parentID,
	}
	if _, err := s.comments.Create(comment); err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("task_id", taskID).Msg("comment create failed")
		}
		return nil, err
	}
	return comment, nil
}

// Comments returns the live comments of a task, oldest first.
func (s *Service) Comments(taskID string) ([]*types.Comment, error) {
	comments, err := s.comments.ListByTask(taskID)
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("task_id", taskID).Msg("comment list failed")
		}
		return nil, err
	}
	return comments, nil
}

// UpdateComment replaces the body of a live comment, provided the actor
// passes the author-or-admin rule.
func (s *Service) UpdateComment(actor types.Actor, id, body string) (*types.Comment, error) {
	comment, err := s.mutableComment(actor, id)
	if err != nil {
		return nil, err
	}

	clean := s.sanitizer.Sanitize(body)
	if clean == "" {
		return nil, types.ErrBodyRequired
	}

	updated, err := s.comments.Update(comment.CommentID, map[string]any{types.FieldBody: clean})
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("comment_id", id).Msg("comment update failed")
		}
		return nil, err
	}
	return updated, nil
}

// DeleteComment soft-deletes a live comment, provided the actor passes the
// author-or-admin rule.
func (s *Service) DeleteComment(actor types.Actor, id string) error {
	comment, err := s.mutableComment(actor, id)
	if err != nil {
		return err
	}

	if err := s.comments.Delete(comment.CommentID); err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("comment_id", id).Msg("comment delete failed")
		}
		return err
	}
	return nil
}

// mutableComment loads a comment and gates mutation on it: absent or
// soft-deleted comments are ErrNotFound, and the actor must be the author or
// an admin.
func (s *Service) mutableComment(actor types.Actor, id string) (*types.Comment, error) {
	comment, err := s.comments.Get(id)
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("comment_id", id).Msg("comment get failed")
		}
		return nil, err
	}
	if comment.Deleted() {
		return nil, types.ErrNotFound
	}
	if !types.CanMutate(actor, comment.AuthorID) {
		return nil, types.ErrForbidden
	}
	return comment, nil
}
