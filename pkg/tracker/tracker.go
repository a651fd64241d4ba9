// Package tracker implements the taskboard core: task lifecycle, threaded
// comments with author-or-admin authorization, attachment handling with
// purge-on-delete, and the analytics engine. It sits between the transport
// layer and the record store, and talks to the
// sanitizer and object-storage collaborators only through their interfaces.
package tracker

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Service is the full public surface of the core. It is stateless between
// calls; all durable state lives in the record store.
type Service struct {
	tasks       types.TaskStore
	comments    types.CommentStore
	attachments types.AttachmentStore
	sanitizer   types.Sanitizer
	objects     types.ObjectStore
	logger      zerolog.Logger

	// now is the clock used for overdue and trend-range math.
	now func() time.Time
}

// New builds a Service over an attached record store and the external
// collaborators.
func New(store types.RecordStore, sanitizer types.Sanitizer, objects types.ObjectStore, logger zerolog.Logger) *Service {
	return &Service{
		tasks:       store.Tasks(),
		comments:    store.Comments(),
		attachments: store.Attachments(),
		sanitizer:   sanitizer,
		objects:     objects,
		logger:      logger,
		now:         time.Now,
	}
}

// clientError reports whether err belongs to the caller-facing taxonomy
// (validation, not-found, forbidden). Anything else is a storage failure and
// gets logged with context before being returned.
func clientError(err error) bool {
	for _, sentinel := range []error{
		types.ErrNotFound,
		types.ErrForbidden,
		types.ErrInvalidID,
		types.ErrInvalidData,
		types.ErrUnknownField,
		types.ErrNoFields,
		types.ErrTitleRequired,
		types.ErrBodyRequired,
		types.ErrInvalidStatus,
		types.ErrInvalidPriority,
		types.ErrInvalidFilter,
		ErrInvalidGranularity,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// requireLiveTask fails with ErrNotFound when the task is absent or
// soft-deleted. Sub-resource creation goes through here.
func (s *Service) requireLiveTask(taskID string) error {
	t, err := s.tasks.Get(taskID)
	if err != nil {
		return err
	}
	if t.Deleted() {
		return types.ErrNotFound
	}
	return nil
}
