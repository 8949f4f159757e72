package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinary writes an executable shell script and returns its path
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-cli")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func cliRegistry(id, binary string) Adapter {
	r := NewRegistry(Options{Overrides: map[string]Override{id: {Binary: binary}}})
	a, err := r.Get(id)
	if err != nil {
		panic(err)
	}
	return a
}

func TestCLIAdapter_PipesPromptAndReadsStdout(t *testing.T) {
	bin := fakeBinary(t, `printf '%s\n' "$*"; cat`)

	tests := []struct {
		id   string
		args string
	}{
		{"claude-code", "-p --model sonnet --output-format text"},
		{"gemini-cli", "--model gemini-2.5-flash"},
		{"codex", "exec --model gpt-5-codex -"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a := cliRegistry(tt.id, bin)

			res, err := a.Invoke(context.Background(), InvokeRequest{
				System:  "system rules",
				Prompt:  "Branch: main",
				Timeout: 5 * time.Second,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.args+"\nsystem rules\n\n---\n\nBranch: main", res.Text)
			assert.Greater(t, res.Elapsed, time.Duration(0))
		})
	}
}

func TestCLIAdapter_ExplicitModel(t *testing.T) {
	bin := fakeBinary(t, `printf '%s' "$3"`)
	a := cliRegistry("claude-code", bin)

	res, err := a.Invoke(context.Background(), InvokeRequest{Model: "opus", Prompt: "x", Timeout: 5 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, "opus", res.Text)
}

func TestCLIAdapter_NonZeroExit(t *testing.T) {
	bin := fakeBinary(t, `cat >/dev/null; echo "rate limited" >&2; exit 3`)
	a := cliRegistry("gemini-cli", bin)

	_, err := a.Invoke(context.Background(), InvokeRequest{Prompt: "x", Timeout: 5 * time.Second})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProvider))

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.ExitCode)
	assert.Equal(t, "rate limited", pe.Message)
}

func TestCLIAdapter_MissingBinary(t *testing.T) {
	a := cliRegistry("codex", filepath.Join(t.TempDir(), "does-not-exist"))

	assert.False(t, a.CheckAvailable(context.Background()))
	_, err := a.Invoke(context.Background(), InvokeRequest{Prompt: "x", Timeout: time.Second})
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestCLIAdapter_Timeout(t *testing.T) {
	bin := fakeBinary(t, `exec sleep 10`)
	a := cliRegistry("claude-code", bin)

	_, err := a.Invoke(context.Background(), InvokeRequest{Prompt: "x", Timeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, errors.Is(err, ErrCancelled))
}

func TestCLIAdapter_Cancelled(t *testing.T) {
	bin := fakeBinary(t, `exec sleep 10`)
	a := cliRegistry("claude-code", bin)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := a.Invoke(ctx, InvokeRequest{Prompt: "x", Timeout: 10 * time.Second})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestCLIAdapter_StaticModels(t *testing.T) {
	bin := fakeBinary(t, `true`)
	a := cliRegistry("claude-code", bin)

	assert.True(t, a.CheckAvailable(context.Background()))
	models, err := a.FetchModels(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, models)
	assert.Equal(t, "sonnet", models[0].ID)
	for i := 1; i < len(models); i++ {
		assert.Less(t, models[i-1].Priority, models[i].Priority)
	}
}

func TestCLIAdapter_RejectsInvalidRequest(t *testing.T) {
	bin := fakeBinary(t, `cat`)
	a := cliRegistry("claude-code", bin)

	_, err := a.Invoke(context.Background(), InvokeRequest{Timeout: time.Second})
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}
