// This file implements the task lifecycle operations: create, point lookup,
// allow-list update, soft delete, filtered listing, and bulk create.
package tracker

import (
	"time"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// TaskDraft carries the caller-supplied fields for task creation. Status and
// priority fall back to their defaults when empty.
type TaskDraft struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	Tags        []string
	Assignees   []string
}

// BulkError reports one rejected item of a bulk create.
type BulkError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// CreateTask sanitizes the draft's text fields and persists a new task
// created by the actor.
func (s *Service) CreateTask(actor types.Actor, draft TaskDraft) (*types.Task, error) {
	title := s.sanitizer.Sanitize(draft.Title)
	if title == "" {
		return nil, types.ErrTitleRequired
	}

	task := &types.Task{
		Title:       title,
		Description: s.sanitizer.Sanitize(draft.Description),
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		Tags:        draft.Tags,
		Assignees:   draft.Assignees,
		CreatedBy:   actor.ID,
	}
	if _, err := s.tasks.Create(task); err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Msg("task create failed")
		}
		return nil, err
	}

	s.logger.Info().Str("task_id", task.TaskID).Msg("created task")
	return task, nil
}

// GetTask retrieves a task by ID. Soft-deleted tasks come back with their
// deletion marker set; only listings hide them.
func (s *Service) GetTask(id string) (*types.Task, error) {
	t, err := s.tasks.Get(id)
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("task_id", id).Msg("task get failed")
		}
		return nil, err
	}
	return t, nil
}

// UpdateTask applies allow-listed fields to a live task. Text fields are
// sanitized before they reach the store; all other validation is the
// store's.
func (s *Service) UpdateTask(id string, fields map[string]any) (*types.Task, error) {
	for _, key := range []string{types.FieldTitle, types.FieldDescription} {
		if raw, ok := fields[key]; ok {
			if text, ok := raw.(string); ok {
				fields[key] = s.sanitizer.Sanitize(text)
			}
		}
	}

	t, err := s.tasks.Update(id, fields)
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("task_id", id).Msg("task update failed")
		}
		return nil, err
	}
	return t, nil
}

// DeleteTask soft-deletes a live task. Its comments and attachments remain
// independently addressable.
func (s *Service) DeleteTask(id string) error {
	if err := s.tasks.Delete(id); err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Str("task_id", id).Msg("task delete failed")
		}
		return err
	}
	s.logger.Info().Str("task_id", id).Msg("deleted task")
	return nil
}

// ListTasks returns one page of live tasks matching the filter plus
// pagination metadata computed under the same predicate.
func (s *Service) ListTasks(filter types.ListFilter) ([]*types.Task, types.PageMeta, error) {
	f := filter.Normalize()
	page, total, err := s.tasks.Scan(f)
	if err != nil {
		if !clientError(err) {
			s.logger.Error().Err(err).Msg("task scan failed")
		}
		return nil, types.PageMeta{}, err
	}
	return page, types.PageMeta{Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// BulkCreate persists each draft independently. Items without a title are
// reported with their index and skipped; a store failure on one item does
// not roll back the items already saved.
func (s *Service) BulkCreate(actor types.Actor, drafts []TaskDraft) ([]*types.Task, []BulkError) {
	var created []*types.Task
	var rejected []BulkError

	for i, draft := range drafts {
		task, err := s.CreateTask(actor, draft)
		if err != nil {
			rejected = append(rejected, BulkError{Index: i, Reason: err.Error()})
			continue
		}
		created = append(created, task)
	}
	return created, rejected
}
