package types

import (
	"errors"
	"time"
)

// Task statuses. A task starts as "todo" and moves freely between statuses;
// there is no enforced transition order.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Defaults applied on task creation when the caller leaves the field empty.
const (
	DefaultStatus   = StatusTodo
	DefaultPriority = PriorityMedium
)

// validStatuses is the set of recognized task status values.
var validStatuses = map[string]bool{
	StatusTodo:       true,
	StatusInProgress: true,
	StatusDone:       true,
}

// validPriorities is the set of recognized task priority values.
var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// ValidStatus reports whether s is a recognized task status.
func ValidStatus(s string) bool { return validStatuses[s] }

// ValidPriority reports whether p is a recognized task priority.
func ValidPriority(p string) bool { return validPriorities[p] }

// Task represents a single work item. Tags and Assignees are sets stored as
// sorted slices. DeletedAt is nil while the task is live; once set it is
// never cleared, and every default read path excludes the task.
type Task struct {
	TaskID      string     `json:"task_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags"`
	Assignees   []string   `json:"assignees"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the task carries a soft-delete marker.
func (t *Task) Deleted() bool { return t.DeletedAt != nil }

// AssignedTo reports whether userID is among the task's assignees.
func (t *Task) AssignedTo(userID string) bool {
	for _, a := range t.Assignees {
		if a == userID {
			return true
		}
	}
	return false
}

// Task validation errors.
var (
	ErrTitleRequired   = errors.New("title must not be empty")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidPriority = errors.New("invalid priority value")
)
