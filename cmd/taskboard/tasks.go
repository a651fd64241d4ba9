// Task commands for the taskboard CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/pkg/tracker"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskTitle       string
	taskDescription string
	taskStatus      string
	taskPriority    string
	taskDue         string
	taskTags        []string
	taskAssignees   []string

	listQuery    string
	listStatus   string
	listPriority string
	listTag      string
	listAssignee string
	listPage     int
	listLimit    int
)

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new task",
	Long: `Add creates a new task with the given title.

Status defaults to "todo" and priority to "medium".

Example:
  taskboard task add --title "Fix login bug" --as alice
  taskboard task add --title "Ship release" --priority high --due 2026-09-15
  taskboard task add --title "Write docs" --tag docs --assignee bob --json`,
	Args: cobra.NoArgs,
	RunE: runTaskAdd,
}

var taskGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one task by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		task, err := svc.GetTask(args[0])
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		return printEntity(task, func() {
			fmt.Println(taskLine(task))
			if task.Description != "" {
				fmt.Println(" ", task.Description)
			}
			if task.DeletedAt != nil {
				fmt.Println("  deleted:", task.DeletedAt.Format(time.RFC3339))
			}
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live tasks with optional filters",
	Long: `List returns one page of live tasks, newest first. All supplied
filters are ANDed together; --query matches title or description.

Example:
  taskboard task list
  taskboard task list --status in_progress --tag backend
  taskboard task list --query login --page 2 --limit 10`,
	Args: cobra.NoArgs,
	RunE: runTaskList,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskUpdate,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Soft-delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.DeleteTask(args[0]); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

var taskBulkCmd = &cobra.Command{
	Use:   "bulk <title>...",
	Short: "Create several tasks at once",
	Long: `Bulk creates one task per title argument. Each task is an
independent unit of work: a rejected title does not prevent the rest from
being created.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskBulk,
}

func init() {
	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "task title (required)")
	taskAddCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	taskAddCmd.Flags().StringVar(&taskStatus, "status", "", "initial status (default: todo)")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "", "initial priority (default: medium)")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringSliceVar(&taskTags, "tag", nil, "tag (repeatable)")
	taskAddCmd.Flags().StringSliceVar(&taskAssignees, "assignee", nil, "assignee user ID (repeatable)")
	_ = taskAddCmd.MarkFlagRequired("title")

	taskUpdateCmd.Flags().StringVar(&taskTitle, "title", "", "new title")
	taskUpdateCmd.Flags().StringVar(&taskDescription, "description", "", "new description")
	taskUpdateCmd.Flags().StringVar(&taskStatus, "status", "", "new status")
	taskUpdateCmd.Flags().StringVar(&taskPriority, "priority", "", "new priority")
	taskUpdateCmd.Flags().StringVar(&taskDue, "due", "", "new due date (YYYY-MM-DD, empty clears)")
	taskUpdateCmd.Flags().StringSliceVar(&taskTags, "tag", nil, "replacement tag set (repeatable)")
	taskUpdateCmd.Flags().StringSliceVar(&taskAssignees, "assignee", nil, "replacement assignee set (repeatable)")

	taskListCmd.Flags().StringVar(&listQuery, "query", "", "free-text search over title and description")
	taskListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
	taskListCmd.Flags().StringVar(&listPriority, "priority", "", "filter by priority")
	taskListCmd.Flags().StringVar(&listTag, "tag", "", "filter by tag")
	taskListCmd.Flags().StringVar(&listAssignee, "assignee", "", "filter by assignee")
	taskListCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	taskListCmd.Flags().IntVar(&listLimit, "limit", types.DefaultLimit, "page size")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskGetCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskBulkCmd)
}

// parseDue parses the --due flag value.
func parseDue(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	due, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", value)
	}
	return &due, nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	due, err := parseDue(taskDue)
	if err != nil {
		return err
	}

	task, err := svc.CreateTask(actor(), tracker.TaskDraft{
		Title:       taskTitle,
		Description: taskDescription,
		Status:      taskStatus,
		Priority:    taskPriority,
		DueDate:     due,
		Tags:        taskTags,
		Assignees:   taskAssignees,
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return printEntity(task, func() {
		fmt.Println("created", taskLine(task))
	})
}

func runTaskList(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	page, meta, err := svc.ListTasks(types.ListFilter{
		Query:    listQuery,
		Status:   listStatus,
		Priority: listPriority,
		Tag:      listTag,
		Assignee: listAssignee,
		Page:     listPage,
		Limit:    listLimit,
	})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	result := struct {
		Data []*types.Task  `json:"data"`
		Meta types.PageMeta `json:"meta"`
	}{Data: page, Meta: meta}

	return printEntity(result, func() {
		for _, task := range page {
			fmt.Println(taskLine(task))
		}
		fmt.Printf("page %d/%d (%d total)\n", meta.Page, (meta.Total+meta.Limit-1)/meta.Limit, meta.Total)
	})
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	// Only flags the caller actually set become update fields, so an
	// unset flag never clobbers a stored value.
	fields := map[string]any{}
	if cmd.Flags().Changed("title") {
		fields[types.FieldTitle] = taskTitle
	}
	if cmd.Flags().Changed("description") {
		fields[types.FieldDescription] = taskDescription
	}
	if cmd.Flags().Changed("status") {
		fields[types.FieldStatus] = taskStatus
	}
	if cmd.Flags().Changed("priority") {
		fields[types.FieldPriority] = taskPriority
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDue(taskDue)
		if err != nil {
			return err
		}
		if due == nil {
			fields[types.FieldDueDate] = nil
		} else {
			fields[types.FieldDueDate] = *due
		}
	}
	if cmd.Flags().Changed("tag") {
		fields[types.FieldTags] = taskTags
	}
	if cmd.Flags().Changed("assignee") {
		fields[types.FieldAssignees] = taskAssignees
	}

	task, err := svc.UpdateTask(args[0], fields)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return printEntity(task, func() {
		fmt.Println("updated", taskLine(task))
	})
}

func runTaskBulk(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	drafts := make([]tracker.TaskDraft, len(args))
	for i, title := range args {
		drafts[i] = tracker.TaskDraft{Title: title}
	}

	created, rejected := svc.BulkCreate(actor(), drafts)

	result := struct {
		Created  []*types.Task       `json:"created"`
		Rejected []tracker.BulkError `json:"rejected"`
	}{Created: created, Rejected: rejected}

	return printEntity(result, func() {
		for _, task := range created {
			fmt.Println("created", taskLine(task))
		}
		for _, re := range rejected {
			fmt.Printf("rejected #%d: %s\n", re.Index, re.Reason)
		}
	})
}
