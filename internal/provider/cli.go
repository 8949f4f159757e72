package provider

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/log"
)

// cliWaitDelay bounds how long a killed child may hold its output pipes open
const cliWaitDelay = 2 * time.Second

// cliAdapter spawns a local executable, pipes the prompt to stdin and reads
// the full stdout.
type cliAdapter struct {
	desc   Descriptor
	args   func(model string) []string
	models []catalog.Model
}

func (a *cliAdapter) Descriptor() Descriptor {
	return a.desc
}

func (a *cliAdapter) CheckAvailable(ctx context.Context) bool {
	_, err := exec.LookPath(a.desc.Binary)
	return err == nil
}

func (a *cliAdapter) FetchModels(ctx context.Context, apiKey string) ([]catalog.Model, error) {
	return append([]catalog.Model(nil), a.models...), nil
}

func (a *cliAdapter) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	path, err := exec.LookPath(a.desc.Binary)
	if err != nil {
		return nil, unavailable(a.desc.ID, "%s not found in PATH", a.desc.Binary)
	}

	model := req.Model
	if model == "" {
		model = a.desc.DefaultModel
	}

	callCtx, cancel := withDeadline(ctx, req.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(callCtx, path, a.args(model)...)
	cmd.Stdin = strings.NewReader(req.Combined())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = cliWaitDelay

	log.DebugRequest("EXEC", path+" "+strings.Join(cmd.Args[1:], " "))
	start := time.Now()

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil || callCtx.Err() != nil {
			return nil, classifyFailure(ctx, callCtx, a.desc.ID, err)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &Error{
				Kind:     ErrProvider,
				Provider: a.desc.ID,
				ExitCode: exitErr.ExitCode(),
				Message:  strings.TrimSpace(stderr.String()),
				Err:      err,
			}
		}
		return nil, classifyFailure(ctx, callCtx, a.desc.ID, err)
	}

	elapsed := time.Since(start)
	log.DebugDuration(a.desc.ID+" invoke", elapsed)

	return &InvokeResult{Text: stdout.String(), Elapsed: elapsed}, nil
}

func newClaudeCode(desc Descriptor) Adapter {
	return &cliAdapter{
		desc: desc,
		args: func(model string) []string {
			return []string{"-p", "--model", model, "--output-format", "text"}
		},
		models: staticModels("sonnet", "haiku", "opus"),
	}
}

func newGeminiCLI(desc Descriptor) Adapter {
	return &cliAdapter{
		desc: desc,
		args: func(model string) []string {
			return []string{"--model", model}
		},
		models: staticModels("gemini-2.5-flash", "gemini-2.5-flash-lite", "gemini-2.5-pro"),
	}
}

func newCodex(desc Descriptor) Adapter {
	return &cliAdapter{
		desc: desc,
		args: func(model string) []string {
			return []string{"exec", "--model", model, "-"}
		},
		models: staticModels("gpt-5-codex", "gpt-5", "gpt-5-mini"),
	}
}
