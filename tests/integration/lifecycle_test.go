// Package integration tests the full service stack in process: the tracker
// service wired to the SQLite record store, the HTML sanitizer, and the
// local-disk object store, exactly as the CLI assembles them. These tests
// cover the end-to-end lifecycle of a task with its comments and
// attachments across backend re-attachment.
package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/objstore"
	"github.com/mesh-intelligence/taskboard/internal/sanitize"
	"github.com/mesh-intelligence/taskboard/pkg/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/tracker"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// testEnv is one assembled service over a temp data directory.
type testEnv struct {
	svc     *tracker.Service
	store   types.RecordStore
	dataDir string
	objects *objstore.Store
}

// newEnv attaches the full stack to dir, creating it if needed.
func newEnv(t *testing.T, dir string) *testEnv {
	t.Helper()

	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dir,
	}))
	t.Cleanup(func() { _ = store.Detach() })

	objects := objstore.New(filepath.Join(dir, "files"))
	svc := tracker.New(store, sanitize.New(), objects, zerolog.Nop())
	return &testEnv{svc: svc, store: store, dataDir: dir, objects: objects}
}

var (
	alice = types.Actor{ID: "alice", Role: "member"}
	bob   = types.Actor{ID: "bob", Role: "member"}
	carol = types.Actor{ID: "carol", Role: types.RoleAdmin}
)

func TestTaskLifecycleAcrossReattach(t *testing.T) {
	dir := t.TempDir()
	env := newEnv(t, dir)

	task, err := env.svc.CreateTask(alice, tracker.TaskDraft{
		Title:     "Ship release",
		Priority:  types.PriorityHigh,
		Tags:      []string{"release"},
		Assignees: []string{"alice"},
	})
	require.NoError(t, err)

	_, err = env.svc.UpdateTask(task.TaskID, map[string]any{
		types.FieldStatus: types.StatusInProgress,
	})
	require.NoError(t, err)

	// Detach and reattach a fresh backend over the same directory; the
	// task must survive.
	require.NoError(t, env.store.Detach())
	env = newEnv(t, dir)

	got, err := env.svc.GetTask(task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "Ship release", got.Title)
	assert.Equal(t, types.StatusInProgress, got.Status)
	assert.Equal(t, []string{"release"}, got.Tags)
}

func TestCommentThreadEndToEnd(t *testing.T) {
	env := newEnv(t, t.TempDir())

	task, err := env.svc.CreateTask(alice, tracker.TaskDraft{Title: "Review design"})
	require.NoError(t, err)

	root, err := env.svc.AddComment(alice, task.TaskID, "First pass done", "")
	require.NoError(t, err)
	reply, err := env.svc.AddComment(bob, task.TaskID, "Looks good", root.CommentID)
	require.NoError(t, err)
	assert.Equal(t, root.CommentID, reply.ParentID)

	// Bob cannot touch Alice's comment; the admin can.
	_, err = env.svc.UpdateComment(bob, root.CommentID, "hijacked")
	require.ErrorIs(t, err, types.ErrForbidden)
	require.NoError(t, env.svc.DeleteComment(carol, root.CommentID))

	comments, err := env.svc.Comments(task.TaskID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, reply.CommentID, comments[0].CommentID)
}

func TestAttachmentPurgeOnDelete(t *testing.T) {
	env := newEnv(t, t.TempDir())

	task, err := env.svc.CreateTask(alice, tracker.TaskDraft{Title: "Collect evidence"})
	require.NoError(t, err)

	saved, failed, err := env.svc.Upload(alice, task.TaskID, []tracker.FileUpload{
		{Name: "report.txt", MimeType: "text/plain", Data: []byte("findings")},
	})
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Len(t, saved, 1)

	path, err := env.objects.Open(saved[0].Locator)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "findings", string(data))

	require.NoError(t, env.svc.DeleteAttachment(saved[0].AttachmentID))

	// Bytes are gone, the metadata record remains with its marker.
	assert.False(t, env.objects.Exists(saved[0].Locator))
	_, err = env.svc.ResolveAttachment(saved[0].AttachmentID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	listed, err := env.svc.Attachments(task.TaskID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSoftDeleteHidesFromListsNotGet(t *testing.T) {
	env := newEnv(t, t.TempDir())

	task, err := env.svc.CreateTask(alice, tracker.TaskDraft{Title: "Old chore"})
	require.NoError(t, err)
	require.NoError(t, env.svc.DeleteTask(task.TaskID))

	got, err := env.svc.GetTask(task.TaskID)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)

	page, meta, err := env.svc.ListTasks(types.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 0, meta.Total)

	// Everything downstream of a deleted task is rejected.
	_, err = env.svc.UpdateTask(task.TaskID, map[string]any{types.FieldTitle: "revived"})
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = env.svc.AddComment(alice, task.TaskID, "too late", "")
	assert.ErrorIs(t, err, types.ErrNotFound)
	require.ErrorIs(t, env.svc.DeleteTask(task.TaskID), types.ErrNotFound)
}

func TestFilteredPaginationEndToEnd(t *testing.T) {
	env := newEnv(t, t.TempDir())

	for i := 0; i < 5; i++ {
		draft := tracker.TaskDraft{Title: "Backend task", Tags: []string{"backend"}}
		if i%2 == 0 {
			draft.Priority = types.PriorityHigh
		}
		_, err := env.svc.CreateTask(alice, draft)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	page, meta, err := env.svc.ListTasks(types.ListFilter{
		Tag:      "backend",
		Priority: types.PriorityHigh,
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, 3, meta.Total)

	rest, _, err := env.svc.ListTasks(types.ListFilter{
		Tag:      "backend",
		Priority: types.PriorityHigh,
		Page:     2,
		Limit:    2,
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.NotContains(t, []string{page[0].TaskID, page[1].TaskID}, rest[0].TaskID)
}

func TestSanitizationAppliedAtTheEdge(t *testing.T) {
	env := newEnv(t, t.TempDir())

	task, err := env.svc.CreateTask(alice, tracker.TaskDraft{
		Title:       `Fix <script>alert("x")</script> banner`,
		Description: "<b>bold</b> move",
	})
	require.NoError(t, err)
	assert.NotContains(t, task.Title, "<script>")
	assert.NotContains(t, task.Description, "<b>")

	comment, err := env.svc.AddComment(alice, task.TaskID, `<img src=x onerror=alert(1)>note`, "")
	require.NoError(t, err)
	assert.Equal(t, "note", comment.Body)
}

func TestAnalyticsOverLiveTasks(t *testing.T) {
	env := newEnv(t, t.TempDir())

	for _, draft := range []tracker.TaskDraft{
		{Title: "a", Status: types.StatusDone, Assignees: []string{"alice"}},
		{Title: "b", Status: types.StatusInProgress},
		{Title: "c"},
	} {
		_, err := env.svc.CreateTask(alice, draft)
		require.NoError(t, err)
	}
	doomed, err := env.svc.CreateTask(alice, tracker.TaskDraft{Title: "d"})
	require.NoError(t, err)
	require.NoError(t, env.svc.DeleteTask(doomed.TaskID))

	overview, err := env.svc.Overview()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		types.StatusDone:       1,
		types.StatusInProgress: 1,
		types.StatusTodo:       1,
	}, overview.ByStatus)

	perf, err := env.svc.UserPerformance("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, perf.TasksCompleted)
	assert.Equal(t, 0, perf.Overdue)

	points, err := env.svc.Trends(time.Time{}, time.Time{}, tracker.GranularityDay)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 3, points[0].Count)
}
