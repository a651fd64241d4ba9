// Comment commands for the taskboard CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage task comments",
}

var commentParentID string

var commentAddCmd = &cobra.Command{
	Use:   "add <task-id> <body>",
	Short: "Add a comment to a task",
	Long: `Add attaches a comment to a live task. Pass --reply-to to thread
the comment under an existing one.

Example:
  taskboard comment add 018f3c... "Looks good to me" --as alice
  taskboard comment add 018f3c... "Agreed" --reply-to 018f41... --as bob`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		comment, err := svc.AddComment(actor(), args[0], args[1], commentParentID)
		if err != nil {
			return fmt.Errorf("add comment: %w", err)
		}
		return printEntity(comment, func() {
			fmt.Println("created", comment.CommentID)
		})
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List comments on a task, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		comments, err := svc.Comments(args[0])
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		return printEntity(comments, func() {
			for _, c := range comments {
				prefix := ""
				if c.ParentID != "" {
					prefix = "  ↳ "
				}
				fmt.Printf("%s%s  %s  %s: %s\n",
					prefix, c.CommentID, c.CreatedAt.Format(time.RFC3339), c.AuthorID, c.Body)
			}
		})
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <comment-id> <body>",
	Short: "Edit a comment you authored",
	Long: `Edit replaces the body of a comment. Only the author or an admin
(--role admin) may edit.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		comment, err := svc.UpdateComment(actor(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("edit comment: %w", err)
		}
		return printEntity(comment, func() {
			fmt.Println("updated", comment.CommentID)
		})
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment you authored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.DeleteComment(actor(), args[0]); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

func init() {
	commentAddCmd.Flags().StringVar(&commentParentID, "reply-to", "", "parent comment ID for threading")

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentDeleteCmd)
}
