package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runIn runs a git command in dir and fails the test on error
func runIn(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// setupTestRepo creates a temporary git repository for testing
func setupTestRepo(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	runIn(t, tmpDir, "init")
	runIn(t, tmpDir, "config", "user.email", "test@example.com")
	runIn(t, tmpDir, "config", "user.name", "Test User")
	runIn(t, tmpDir, "config", "commit.gpgsign", "false")

	return tmpDir
}

// createAndStageFile creates a file and stages it
func createAndStageFile(t *testing.T, repoDir, filename, content string) {
	t.Helper()

	filePath := filepath.Join(repoDir, filename)
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	runIn(t, repoDir, "add", filename)
}

// commitFile commits staged changes
func commitFile(t *testing.T, repoDir, message string) {
	t.Helper()
	runIn(t, repoDir, "commit", "-m", message)
}

func TestNewExecutor(t *testing.T) {
	executor := NewExecutor("/tmp/test")
	assert.NotNil(t, executor)
}

func TestExecutor_DiffCached(t *testing.T) {
	repoDir := setupTestRepo(t)
	executor := NewExecutor(repoDir)
	ctx := context.Background()

	t.Run("empty staging area", func(t *testing.T) {
		diff, err := executor.DiffCached(ctx)
		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("with staged changes", func(t *testing.T) {
		createAndStageFile(t, repoDir, "test.txt", "hello world")

		diff, err := executor.DiffCached(ctx)
		require.NoError(t, err)
		assert.Contains(t, diff, "test.txt")
		assert.Contains(t, diff, "hello world")
	})
}

func TestExecutor_StagedFiles(t *testing.T) {
	repoDir := setupTestRepo(t)
	executor := NewExecutor(repoDir)
	ctx := context.Background()

	createAndStageFile(t, repoDir, "keep.go", "package main")
	commitFile(t, repoDir, "chore: init")

	createAndStageFile(t, repoDir, "keep.go", "package main\n\nfunc main() {}")
	createAndStageFile(t, repoDir, "new.go", "package main")

	files, err := executor.StagedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"M\tkeep.go", "A\tnew.go"}, files)
}

func TestExecutor_Log(t *testing.T) {
	repoDir := setupTestRepo(t)
	executor := NewExecutor(repoDir)
	ctx := context.Background()

	t.Run("empty repo", func(t *testing.T) {
		log, err := executor.Log(ctx, LogOptions{Count: 5})
		// Empty repo might return error or empty string
		if err == nil {
			assert.Empty(t, log)
		}
	})

	t.Run("with commits", func(t *testing.T) {
		createAndStageFile(t, repoDir, "first.txt", "first")
		commitFile(t, repoDir, "feat: first commit")

		createAndStageFile(t, repoDir, "second.txt", "second")
		commitFile(t, repoDir, "fix: second commit")

		log, err := executor.Log(ctx, LogOptions{Count: 5})
		require.NoError(t, err)
		assert.Contains(t, log, "first commit")
		assert.Contains(t, log, "second commit")
	})

	t.Run("with count limit", func(t *testing.T) {
		log, err := executor.Log(ctx, LogOptions{Count: 1})
		require.NoError(t, err)
		assert.Contains(t, log, "second commit")
		assert.NotContains(t, log, "first commit")
	})
}

func TestExecutor_RecentSubjects(t *testing.T) {
	repoDir := setupTestRepo(t)
	executor := NewExecutor(repoDir)
	ctx := context.Background()

	subjects, err := executor.RecentSubjects(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, subjects)

	for _, name := range []string{"a", "b", "c", "d"} {
		createAndStageFile(t, repoDir, name+".txt", name)
		commitFile(t, repoDir, "feat: add "+name+"\n\nbody for "+name)
	}

	subjects, err = executor.RecentSubjects(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"feat: add d", "feat: add c", "feat: add b"}, subjects)

	subjects, err = executor.RecentSubjects(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, subjects)
}

func TestExecutor_Commit(t *testing.T) {
	repoDir := setupTestRepo(t)
	executor := NewExecutor(repoDir)
	ctx := context.Background()

	t.Run("commit staged changes", func(t *testing.T) {
		createAndStageFile(t, repoDir, "commit-test.txt", "test content")

		err := executor.Commit(ctx, "test: commit message")
		require.NoError(t, err)

		log, err := executor.Log(ctx, LogOptions{Count: 1})
		require.NoError(t, err)
		assert.Contains(t, log, "commit message")
	})

	t.Run("commit with body", func(t *testing.T) {
		createAndStageFile(t, repoDir, "commit-body.txt", "body test")

		message := "feat: add feature\n\nThis is the body of the commit.\nIt explains what and why."
		err := executor.Commit(ctx, message)
		require.NoError(t, err)

		log, err := executor.Log(ctx, LogOptions{Count: 1, Format: "%B"})
		require.NoError(t, err)
		assert.Equal(t, message, log)
	})

	t.Run("commit with empty staging area fails", func(t *testing.T) {
		err := executor.Commit(ctx, "empty commit")
		assert.Error(t, err)
	})
}

func TestExecutor_Push(t *testing.T) {
	repoDir := setupTestRepo(t)
	executor := NewExecutor(repoDir)
	ctx := context.Background()

	createAndStageFile(t, repoDir, "init.txt", "init")
	commitFile(t, repoDir, "chore: init")

	t.Run("no remote fails", func(t *testing.T) {
		assert.Error(t, executor.Push(ctx))
	})

	t.Run("pushes to upstream", func(t *testing.T) {
		remote := t.TempDir()
		runIn(t, remote, "init", "--bare")
		runIn(t, repoDir, "remote", "add", "origin", remote)

		branch, err := executor.CurrentBranch(ctx)
		require.NoError(t, err)
		runIn(t, repoDir, "push", "-u", "origin", branch)

		createAndStageFile(t, repoDir, "next.txt", "next")
		require.NoError(t, executor.Commit(ctx, "feat: next"))
		require.NoError(t, executor.Push(ctx))

		assert.Contains(t, runIn(t, remote, "log", "-1", "--format=%s", branch), "feat: next")
	})
}

func TestExecutor_CurrentBranch(t *testing.T) {
	repoDir := setupTestRepo(t)
	executor := NewExecutor(repoDir)
	ctx := context.Background()

	t.Run("unborn branch", func(t *testing.T) {
		runIn(t, repoDir, "checkout", "-b", "feature/unborn")

		branch, err := executor.CurrentBranch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "feature/unborn", branch)
	})

	t.Run("after commit", func(t *testing.T) {
		createAndStageFile(t, repoDir, "init.txt", "init")
		commitFile(t, repoDir, "initial commit")

		branch, err := executor.CurrentBranch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "feature/unborn", branch)
	})

	t.Run("detached head", func(t *testing.T) {
		runIn(t, repoDir, "checkout", "--detach")

		branch, err := executor.CurrentBranch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "HEAD", branch)
	})
}

func TestExecutor_RepoRoot(t *testing.T) {
	repoDir := setupTestRepo(t)
	sub := filepath.Join(repoDir, "nested", "dir")
	require.NoError(t, os.MkdirAll(sub, 0755))

	root, err := NewExecutor(sub).RepoRoot(context.Background())
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(repoDir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExecutor_NotAGitRepo(t *testing.T) {
	tmpDir := t.TempDir()
	executor := NewExecutor(tmpDir)
	ctx := context.Background()

	_, err := executor.RepoRoot(ctx)
	assert.Error(t, err)
}
