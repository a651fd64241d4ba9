// Integration tests for the taskboard CLI. These build the binary once and
// exercise it via os/exec against an isolated config and data directory,
// checking output shapes and exit codes.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	taskboardBin string
	buildOnce    sync.Once
	buildErr     error
)

// ensureBinary builds the taskboard binary once per test run.
func ensureBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		var tmp string
		tmp, buildErr = os.MkdirTemp("", "taskboard-cli-test-*")
		if buildErr != nil {
			return
		}
		binPath := filepath.Join(tmp, "taskboard")
		cmd := exec.Command("go", "build", "-o", binPath, "./cmd/taskboard")
		cmd.Dir = projectRoot()
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		buildErr = cmd.Run()
		if buildErr == nil {
			taskboardBin = binPath
		}
	})
	require.NoError(t, buildErr, "build taskboard binary")
	return taskboardBin
}

// projectRoot walks up from the working directory until go.mod is found.
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("go.mod not found above working directory")
		}
		dir = parent
	}
}

// cliEnv is an isolated config plus data directory for one test.
type cliEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	ensureBinary(t)
	tmp := t.TempDir()
	return &cliEnv{
		t:         t,
		configDir: filepath.Join(tmp, "config"),
		dataDir:   filepath.Join(tmp, "data"),
	}
}

type cliResult struct {
	stdout   string
	stderr   string
	exitCode int
}

func (e *cliEnv) run(args ...string) cliResult {
	e.t.Helper()
	allArgs := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	cmd := exec.Command(taskboardBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			e.t.Fatalf("run taskboard %v: %v", args, err)
		}
		exitCode = exitErr.ExitCode()
	}
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), exitCode: exitCode}
}

func (e *cliEnv) mustRun(args ...string) cliResult {
	e.t.Helper()
	result := e.run(args...)
	if result.exitCode != 0 {
		e.t.Fatalf("taskboard %v exited %d\nstdout: %s\nstderr: %s",
			args, result.exitCode, result.stdout, result.stderr)
	}
	return result
}

// parseJSON decodes CLI --json output into T.
func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "parse %q", s)
	return v
}

// taskJSON mirrors the task fields the CLI tests care about.
type taskJSON struct {
	TaskID   string   `json:"task_id"`
	Title    string   `json:"title"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Tags     []string `json:"tags"`
}

type listJSON struct {
	Data []taskJSON `json:"data"`
	Meta struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	} `json:"meta"`
}

func TestCLI_TaskLifecycle(t *testing.T) {
	env := newCLIEnv(t)

	env.mustRun("init")

	created := parseJSON[taskJSON](t, env.mustRun(
		"task", "add", "--title", "Fix login bug",
		"--priority", "high", "--tag", "auth", "--as", "alice", "--json",
	).stdout)
	require.NotEmpty(t, created.TaskID)
	assert.Equal(t, "todo", created.Status)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, []string{"auth"}, created.Tags)

	env.mustRun("task", "update", created.TaskID, "--status", "done")

	listed := parseJSON[listJSON](t, env.mustRun("task", "list", "--tag", "auth", "--json").stdout)
	require.Len(t, listed.Data, 1)
	assert.Equal(t, 1, listed.Meta.Total)
	assert.Equal(t, "done", listed.Data[0].Status)

	env.mustRun("task", "delete", created.TaskID)
	empty := parseJSON[listJSON](t, env.mustRun("task", "list", "--json").stdout)
	assert.Empty(t, empty.Data)
	assert.Equal(t, 0, empty.Meta.Total)
}

func TestCLI_ExitCodes(t *testing.T) {
	env := newCLIEnv(t)

	// Unknown ID is a user error.
	result := env.run("task", "get", "no-such-id")
	assert.Equal(t, 1, result.exitCode)

	// Bad status value is a user error.
	result = env.run("task", "add", "--title", "x", "--status", "bogus")
	assert.Equal(t, 1, result.exitCode)

	// A title that sanitizes to nothing is a user error.
	result = env.run("task", "add", "--title", "<script>alert(1)</script>")
	assert.Equal(t, 1, result.exitCode)
}

func TestCLI_CommentAuthorization(t *testing.T) {
	env := newCLIEnv(t)

	task := parseJSON[taskJSON](t, env.mustRun(
		"task", "add", "--title", "Discuss roadmap", "--as", "alice", "--json",
	).stdout)

	comment := parseJSON[struct {
		CommentID string `json:"comment_id"`
	}](t, env.mustRun(
		"comment", "add", task.TaskID, "kickoff notes", "--as", "alice", "--json",
	).stdout)

	denied := env.run("comment", "delete", comment.CommentID, "--as", "bob")
	assert.Equal(t, 1, denied.exitCode)

	env.mustRun("comment", "delete", comment.CommentID, "--as", "carol", "--role", "admin")
}

func TestCLI_FileAttachAndStats(t *testing.T) {
	env := newCLIEnv(t)

	task := parseJSON[taskJSON](t, env.mustRun(
		"task", "add", "--title", "Archive logs", "--as", "alice", "--json",
	).stdout)

	src := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(src, []byte("line one\n"), 0o644))

	attach := parseJSON[struct {
		Saved []struct {
			AttachmentID string `json:"attachment_id"`
			Filename     string `json:"filename"`
		} `json:"saved"`
	}](t, env.mustRun("file", "attach", task.TaskID, src, "--as", "alice", "--json").stdout)
	require.Len(t, attach.Saved, 1)
	assert.Equal(t, "log.txt", attach.Saved[0].Filename)

	opened := env.mustRun("file", "open", attach.Saved[0].AttachmentID)
	data, err := os.ReadFile(strings.TrimSpace(opened.stdout))
	require.NoError(t, err)
	assert.Equal(t, "line one\n", string(data))

	overview := parseJSON[struct {
		ByStatus map[string]int `json:"by_status"`
	}](t, env.mustRun("stats", "overview", "--json").stdout)
	assert.Equal(t, 1, overview.ByStatus["todo"])
}
