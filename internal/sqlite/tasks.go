// This file implements the tasks store accessor for the SQLite backend:
// creation with defaults, point lookup, allow-list update, soft delete, and
// the filtered scan behind task listing.
package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Compile-time interface check.
var _ types.TaskStore = (*taskStore)(nil)

type taskStore struct {
	backend *Backend
}

const taskColumns = "task_id, title, description, status, priority, due_date, created_by, created_at, deleted_at"

// Create persists a new task. Status and priority fall back to their
// defaults when empty; the ID, creation timestamp, and normalized tag and
// assignee sets are written back onto t.
func (ts *taskStore) Create(t *types.Task) (string, error) {
	db, err := ts.backend.conn()
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", types.ErrInvalidData
	}
	if t.Title == "" {
		return "", types.ErrTitleRequired
	}

	status := t.Status
	if status == "" {
		status = types.DefaultStatus
	}
	if !types.ValidStatus(status) {
		return "", types.ErrInvalidStatus
	}
	priority := t.Priority
	if priority == "" {
		priority = types.DefaultPriority
	}
	if !types.ValidPriority(priority) {
		return "", types.ErrInvalidPriority
	}

	newID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}

	t.TaskID = newID.String()
	t.Status = status
	t.Priority = priority
	t.Tags = sortedSet(t.Tags)
	t.Assignees = sortedSet(t.Assignees)
	t.CreatedAt = time.Now().UTC()
	t.DeletedAt = nil

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.TaskID, t.Title, t.Description, t.Status, t.Priority,
		formatNullTime(t.DueDate), t.CreatedBy, formatTime(t.CreatedAt), sql.NullString{},
	)
	if err != nil {
		return "", fmt.Errorf("inserting task: %w", err)
	}
	if err := insertSet(tx, "task_tags", "tag", t.TaskID, t.Tags); err != nil {
		return "", fmt.Errorf("inserting task tags: %w", err)
	}
	if err := insertSet(tx, "task_assignees", "user_id", t.TaskID, t.Assignees); err != nil {
		return "", fmt.Errorf("inserting task assignees: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing task: %w", err)
	}
	return t.TaskID, nil
}

// Get retrieves a task by ID. Soft-deleted tasks are returned with their
// deletion marker; only scans hide them.
func (ts *taskStore) Get(id string) (*types.Task, error) {
	db, err := ts.backend.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE task_id = ?", id)
	t, err := hydrateTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	if err := ts.loadSets(db, t); err != nil {
		return nil, fmt.Errorf("loading sets for task %s: %w", id, err)
	}
	return t, nil
}

// Update applies allow-listed fields to a live task and returns the updated
// record. The whole field map is validated before anything is written, so a
// rejected field never leaves a partial update behind.
func (ts *taskStore) Update(id string, fields map[string]any) (*types.Task, error) {
	db, err := ts.backend.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if len(fields) == 0 {
		return nil, types.ErrNoFields
	}

	var sets []string
	var args []any
	var tags, assignees []string
	var setTags, setAssignees bool

	for key, value := range fields {
		switch key {
		case types.FieldTitle:
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidData, key)
			}
			if s == "" {
				return nil, types.ErrTitleRequired
			}
			sets = append(sets, "title = ?")
			args = append(args, s)
		case types.FieldDescription:
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidData, key)
			}
			sets = append(sets, "description = ?")
			args = append(args, s)
		case types.FieldStatus:
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidData, key)
			}
			if !types.ValidStatus(s) {
				return nil, types.ErrInvalidStatus
			}
			sets = append(sets, "status = ?")
			args = append(args, s)
		case types.FieldPriority:
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidData, key)
			}
			if !types.ValidPriority(s) {
				return nil, types.ErrInvalidPriority
			}
			sets = append(sets, "priority = ?")
			args = append(args, s)
		case types.FieldDueDate:
			switch d := value.(type) {
			case nil:
				sets = append(sets, "due_date = ?")
				args = append(args, sql.NullString{})
			case time.Time:
				sets = append(sets, "due_date = ?")
				args = append(args, formatTime(d))
			case *time.Time:
				sets = append(sets, "due_date = ?")
				args = append(args, formatNullTime(d))
			default:
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidData, key)
			}
		case types.FieldTags:
			ss, ok := value.([]string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidData, key)
			}
			tags = sortedSet(ss)
			setTags = true
		case types.FieldAssignees:
			ss, ok := value.([]string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", types.ErrInvalidData, key)
			}
			assignees = sortedSet(ss)
			setAssignees = true
		default:
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownField, key)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireLive(tx, "tasks", "task_id", id); err != nil {
		return nil, err
	}

	if len(sets) > 0 {
		args = append(args, id)
		_, err = tx.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE task_id = ?", args...)
		if err != nil {
			return nil, fmt.Errorf("updating task %s: %w", id, err)
		}
	}
	if setTags {
		if err := replaceSet(tx, "task_tags", "tag", id, tags); err != nil {
			return nil, fmt.Errorf("updating task tags: %w", err)
		}
	}
	if setAssignees {
		if err := replaceSet(tx, "task_assignees", "user_id", id, assignees); err != nil {
			return nil, fmt.Errorf("updating task assignees: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task update: %w", err)
	}
	return ts.Get(id)
}

// Delete sets the deletion timestamp on a live task. Deleting a task that is
// absent or already soft-deleted returns ErrNotFound: from the caller's view
// the record does not exist either way.
func (ts *taskStore) Delete(id string) error {
	db, err := ts.backend.conn()
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

	if err := requireLive(tx, "tasks", "task_id", id); err != nil {
		return err
	}
	_, err = tx.Exec("UPDATE tasks SET deleted_at = ? WHERE task_id = ?", formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task deletion: %w", err)
	}
	return nil
}

// Scan returns one page of live tasks matching the filter and the total
// count under the same predicate. The order is creation time descending with
// ties broken by ID ascending, so repeated paging over an unchanged table
// yields every row exactly once.
func (ts *taskStore) Scan(filter types.ListFilter) ([]*types.Task, int, error) {
	db, err := ts.backend.conn()
	if err != nil {
		return nil, 0, err
	}

	f := filter.Normalize()
	if err := f.Validate(); err != nil {
		return nil, 0, err
	}

	conditions := []string{"deleted_at IS NULL"}
	var args []any

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, f.Priority)
	}
	if f.Tag != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = tasks.task_id AND tt.tag = ?)")
		args = append(args, f.Tag)
	}
	if f.Assignee != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM task_assignees ta WHERE ta.task_id = tasks.task_id AND ta.user_id = ?)")
		args = append(args, f.Assignee)
	}
	if f.Query != "" {
		// instr instead of LIKE so wildcard characters in the query are
		// matched literally.
		conditions = append(conditions, "(instr(lower(title), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)")
		args = append(args, f.Query, f.Query)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting tasks: %w", err)
	}

	pageArgs := append(append([]any{}, args...), f.Limit, f.Offset())
	rows, err := db.Query(
		"SELECT "+taskColumns+" FROM tasks WHERE "+where+
			" ORDER BY created_at DESC, task_id ASC LIMIT ? OFFSET ?",
		pageArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("scanning tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		t, err := hydrateTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("hydrating task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating task rows: %w", err)
	}

	for _, t := range tasks {
		if err := ts.loadSets(db, t); err != nil {
			return nil, 0, fmt.Errorf("loading sets for task %s: %w", t.TaskID, err)
		}
	}
	return tasks, total, nil
}

// AllLive returns every live task. The analytics engine groups over this
// snapshot in memory; the snapshot is not transactionally consistent with
// concurrent writes, which is accepted for derived statistics.
func (ts *taskStore) AllLive() ([]*types.Task, error) {
	db, err := ts.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT " + taskColumns + " FROM tasks WHERE deleted_at IS NULL")
	if err != nil {
		return nil, fmt.Errorf("scanning live tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		t, err := hydrateTask(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	for _, t := range tasks {
		if err := ts.loadSets(db, t); err != nil {
			return nil, fmt.Errorf("loading sets for task %s: %w", t.TaskID, err)
		}
	}
	return tasks, nil
}

// loadSets populates the tags and assignees of a hydrated task.
func (ts *taskStore) loadSets(db *sql.DB, t *types.Task) error {
	tags, err := querySet(db, "task_tags", "tag", t.TaskID)
	if err != nil {
		return err
	}
	assignees, err := querySet(db, "task_assignees", "user_id", t.TaskID)
	if err != nil {
		return err
	}
	t.Tags = tags
	t.Assignees = assignees
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateTask converts one row of the tasks table into a *types.Task.
func hydrateTask(row rowScanner) (*types.Task, error) {
	var t types.Task
	var dueDate, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&t.TaskID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&dueDate, &t.CreatedBy, &createdAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.DueDate, err = parseNullTime(dueDate); err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	if t.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, fmt.Errorf("parsing deleted_at: %w", err)
	}
	return &t, nil
}

// requireLive verifies that the identified row exists and carries no
// deletion marker. Returns ErrNotFound otherwise.
func requireLive(tx *sql.Tx, table, idColumn, id string) error {
	var deletedAt sql.NullString
	err := tx.QueryRow(
		"SELECT deleted_at FROM "+table+" WHERE "+idColumn+" = ?", id,
	).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ErrNotFound
		}
		return fmt.Errorf("checking %s existence: %w", table, err)
	}
	if deletedAt.Valid {
		return types.ErrNotFound
	}
	return nil
}

// insertSet writes one membership row per value into a (task_id, value)
// join table.
func insertSet(tx *sql.Tx, table, column, taskID string, values []string) error {
	for _, v := range values {
		if _, err := tx.Exec(
			"INSERT INTO "+table+" (task_id, "+column+") VALUES (?, ?)", taskID, v,
		); err != nil {
			return err
		}
	}
	return nil
}

// replaceSet swaps the full membership of a join table for one task.
func replaceSet(tx *sql.Tx, table, column, taskID string, values []string) error {
	if _, err := tx.Exec("DELETE FROM "+table+" WHERE task_id = ?", taskID); err != nil {
		return err
	}
	return insertSet(tx, table, column, taskID, values)
}

// querySet reads the membership of a join table for one task, sorted.
func querySet(db *sql.DB, table, column, taskID string) ([]string, error) {
	rows, err := db.Query(
		"SELECT "+column+" FROM "+table+" WHERE task_id = ? ORDER BY "+column, taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// sortedSet deduplicates and sorts a string set.
func sortedSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
