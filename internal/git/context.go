package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huimingz/commitsmith/internal/prompt"
)

// ErrNothingStaged is returned when the index holds no changes to describe
var ErrNothingStaged = errors.New("no staged changes found, use 'git add' to stage files")

// CollectOptions controls what CollectContext gathers besides the diff
type CollectOptions struct {
	Hint          string
	RecentCommits int
}

// CollectContext reads the staged change set and the surrounding metadata a
// prompt is built from.
func CollectContext(ctx context.Context, e Executor, opts CollectOptions) (prompt.DiffContext, error) {
	diff, err := e.DiffCached(ctx)
	if err != nil {
		return prompt.DiffContext{}, fmt.Errorf("failed to get staged diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		return prompt.DiffContext{}, ErrNothingStaged
	}

	branch, err := e.CurrentBranch(ctx)
	if err != nil {
		return prompt.DiffContext{}, fmt.Errorf("failed to get current branch: %w", err)
	}

	files, err := e.StagedFiles(ctx)
	if err != nil {
		return prompt.DiffContext{}, fmt.Errorf("failed to list staged files: %w", err)
	}

	recent, err := e.RecentSubjects(ctx, opts.RecentCommits)
	if err != nil {
		return prompt.DiffContext{}, fmt.Errorf("failed to read recent commits: %w", err)
	}

	return prompt.DiffContext{
		Branch:        branch,
		Hint:          strings.TrimSpace(opts.Hint),
		RecentCommits: recent,
		StagedFiles:   files,
		Diff:          diff + "\n",
	}, nil
}
