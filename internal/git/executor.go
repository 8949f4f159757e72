// Package git wraps the git commands commitsmith needs: reading the staged
// change set and recent history, committing, and pushing.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// LogOptions represents options for git log command
type LogOptions struct {
	Since  string
	Format string
	Count  int
}

// Executor defines the interface for git command execution
type Executor interface {
	// DiffCached returns the diff of staged changes
	DiffCached(ctx context.Context) (string, error)

	// StagedFiles returns one "<status>\t<path>" line per staged file
	StagedFiles(ctx context.Context) ([]string, error)

	// Log returns the commit log
	Log(ctx context.Context, opts LogOptions) (string, error)

	// RecentSubjects returns up to n commit subjects, newest first
	RecentSubjects(ctx context.Context, n int) ([]string, error)

	// Commit executes a git commit with the given message
	Commit(ctx context.Context, message string) error

	// Push pushes the current branch to its upstream
	Push(ctx context.Context) error

	// CurrentBranch returns the current branch name
	CurrentBranch(ctx context.Context) (string, error)

	// RepoRoot returns the top-level directory of the working tree
	RepoRoot(ctx context.Context) (string, error)
}

// DefaultExecutor is the default implementation of Executor
type DefaultExecutor struct {
	workDir string
}

// NewExecutor creates a new DefaultExecutor
func NewExecutor(workDir string) *DefaultExecutor {
	return &DefaultExecutor{workDir: workDir}
}

// runGit runs a git command and returns the output
func (e *DefaultExecutor) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w\n%s", strings.Join(args, " "), err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// DiffCached returns the diff of staged changes
func (e *DefaultExecutor) DiffCached(ctx context.Context) (string, error) {
	return e.runGit(ctx, "diff", "--cached")
}

// StagedFiles returns the name-status listing of staged changes
func (e *DefaultExecutor) StagedFiles(ctx context.Context) ([]string, error) {
	output, err := e.runGit(ctx, "diff", "--cached", "--name-status")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// Log returns the commit log
func (e *DefaultExecutor) Log(ctx context.Context, opts LogOptions) (string, error) {
	args := []string{"log"}

	if opts.Count > 0 {
		args = append(args, "-n", strconv.Itoa(opts.Count))
	}
	if opts.Since != "" {
		args = append(args, "--since="+opts.Since)
	}
	if opts.Format != "" {
		args = append(args, "--format="+opts.Format)
	}

	output, err := e.runGit(ctx, args...)
	if err != nil {
		// Empty repo returns error, return empty string instead
		if strings.Contains(err.Error(), "does not have any commits") {
			return "", nil
		}
		return "", err
	}
	return output, nil
}

// RecentSubjects returns the subjects of the last n commits
func (e *DefaultExecutor) RecentSubjects(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	output, err := e.Log(ctx, LogOptions{Count: n, Format: "%s"})
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// Commit executes a git commit with the given message
func (e *DefaultExecutor) Commit(ctx context.Context, message string) error {
	_, err := e.runGit(ctx, "commit", "-m", message)
	return err
}

// Push pushes the current branch
func (e *DefaultExecutor) Push(ctx context.Context) error {
	_, err := e.runGit(ctx, "push")
	return err
}

// CurrentBranch returns the current branch name. It works on an unborn
// branch and returns "HEAD" when detached.
func (e *DefaultExecutor) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := e.runGit(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if branch == "" {
		return "HEAD", nil
	}
	return branch, nil
}

// RepoRoot returns the repository root
func (e *DefaultExecutor) RepoRoot(ctx context.Context) (string, error) {
	return e.runGit(ctx, "rev-parse", "--show-toplevel")
}

func splitLines(output string) []string {
	if output == "" {
		return nil
	}
	lines := strings.Split(output, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimRight(line, "\r"); line != "" {
			out = append(out, line)
		}
	}
	return out
}
