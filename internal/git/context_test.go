package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectContext(t *testing.T) {
	repoDir := setupTestRepo(t)
	runIn(t, repoDir, "checkout", "-b", "fix/token-expiry")
	createAndStageFile(t, repoDir, "auth.go", "package auth\n")
	commitFile(t, repoDir, "feat(auth): add token check")

	createAndStageFile(t, repoDir, "auth.go", "package auth\n\nconst ttl = 60\n")

	dc, err := CollectContext(context.Background(), NewExecutor(repoDir), CollectOptions{
		Hint:          "  ttl was wrong  ",
		RecentCommits: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "fix/token-expiry", dc.Branch)
	assert.Equal(t, "ttl was wrong", dc.Hint)
	assert.Equal(t, []string{"feat(auth): add token check"}, dc.RecentCommits)
	assert.Equal(t, []string{"M\tauth.go"}, dc.StagedFiles)
	assert.Contains(t, dc.Diff, "+const ttl = 60")
	assert.True(t, strings.HasSuffix(dc.Diff, "\n"))
}

func TestCollectContext_NothingStaged(t *testing.T) {
	repoDir := setupTestRepo(t)

	_, err := CollectContext(context.Background(), NewExecutor(repoDir), CollectOptions{})
	assert.ErrorIs(t, err, ErrNothingStaged)
}

type failingExecutor struct {
	DefaultExecutor
	diff string
	err  error
}

func (f *failingExecutor) DiffCached(context.Context) (string, error) {
	return f.diff, nil
}

func (f *failingExecutor) CurrentBranch(context.Context) (string, error) {
	return "", f.err
}

func TestCollectContext_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := CollectContext(context.Background(), &failingExecutor{diff: "diff --git a/x b/x", err: boom}, CollectOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "current branch")
}
