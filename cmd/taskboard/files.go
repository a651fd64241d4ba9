// Attachment commands for the taskboard CLI.
package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/objstore"
	"github.com/mesh-intelligence/taskboard/pkg/tracker"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage task attachments",
}

var fileAttachCmd = &cobra.Command{
	Use:   "attach <task-id> <path>...",
	Short: "Attach local files to a task",
	Long: `Attach uploads each named file to the task. Files are independent:
one unreadable path does not prevent the others from being attached.

Example:
  taskboard file attach 018f3c... report.pdf notes.txt --as alice`,
	Args: cobra.MinimumNArgs(2),
	RunE: runFileAttach,
}

var fileListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List attachments on a task, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		attachments, err := svc.Attachments(args[0])
		if err != nil {
			return fmt.Errorf("list attachments: %w", err)
		}
		return printEntity(attachments, func() {
			for _, a := range attachments {
				fmt.Printf("%s  %s  %d bytes  %s\n", a.AttachmentID, a.Filename, a.SizeBytes, a.MimeType)
			}
		})
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete <attachment-id>",
	Short: "Delete an attachment and purge its bytes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.DeleteAttachment(args[0]); err != nil {
			return fmt.Errorf("delete attachment: %w", err)
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

var fileOpenCmd = &cobra.Command{
	Use:   "open <attachment-id>",
	Short: "Print the on-disk path of an attachment's bytes",
	RunE:  runFileOpen,
	Args:  cobra.ExactArgs(1),
}

func init() {
	fileCmd.AddCommand(fileAttachCmd)
	fileCmd.AddCommand(fileListCmd)
	fileCmd.AddCommand(fileDeleteCmd)
	fileCmd.AddCommand(fileOpenCmd)
}

// mimeTypeFor guesses a content type from the file extension, falling back
// to application/octet-stream.
func mimeTypeFor(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func runFileAttach(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	taskID := args[0]
	uploads := make([]tracker.FileUpload, 0, len(args)-1)
	for _, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		uploads = append(uploads, tracker.FileUpload{
			Name:     filepath.Base(path),
			MimeType: mimeTypeFor(path),
			Data:     data,
		})
	}

	saved, failed, err := svc.Upload(actor(), taskID, uploads)
	if err != nil {
		return fmt.Errorf("attach files: %w", err)
	}

	result := struct {
		Saved  []*types.Attachment   `json:"saved"`
		Failed []tracker.UploadError `json:"failed"`
	}{Saved: saved, Failed: failed}

	return printEntity(result, func() {
		for _, a := range saved {
			fmt.Printf("attached %s  %s\n", a.AttachmentID, a.Filename)
		}
		for _, f := range failed {
			fmt.Printf("failed %s: %s\n", f.Name, f.Reason)
		}
	})
}

func runFileOpen(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	attachment, err := svc.ResolveAttachment(args[0])
	if err != nil {
		return fmt.Errorf("resolve attachment: %w", err)
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	path, err := objstore.New(filepath.Join(dataDir, objectsDirName)).Open(attachment.Locator)
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	fmt.Println(path)
	return nil
}
