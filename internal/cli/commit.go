package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/huimingz/commitsmith/internal/generator"
	"github.com/huimingz/commitsmith/internal/git"
	"github.com/huimingz/commitsmith/internal/log"
	"github.com/huimingz/commitsmith/internal/prompt"
	"github.com/huimingz/commitsmith/internal/provider"
	"github.com/huimingz/commitsmith/internal/ui"
	"github.com/huimingz/commitsmith/pkg/lang"
)

var (
	commitContext    string
	commitLanguage   string
	commitAutoYes    bool
	commitPush       bool
	commitDryRun     bool
	commitTimeout    time.Duration
	commitMaxRetries int
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate and create a commit",
	Long: `Generate a commit message from the staged changes and commit it.

This command will:
1. Read the staged diff, changed files, branch, and recent commit subjects
2. Ask the provider for a Conventional Commits message
3. Reject messages whose header breaks the rules and ask again
4. Let you accept, refine with instructions, regenerate, or abandon

When the provider is unavailable (missing credential or binary), the
fallback_providers from the config are tried in order.

Examples:
  commitsmith commit
  commitsmith commit -c "token expiry was compared in local time"
  commitsmith commit --language ja
  commitsmith commit -p anthropic -m claude-3-5-haiku-latest
  commitsmith commit -y --push`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&commitContext, "context", "c", "", "Hint for the AI about the intent of the change")
	commitCmd.Flags().StringVarP(&commitLanguage, "language", "l", "", "Output language (en, zh, ja, etc.)")
	commitCmd.Flags().BoolVarP(&commitAutoYes, "yes", "y", false, "Commit the first valid message without prompting")
	commitCmd.Flags().BoolVar(&commitPush, "push", false, "Push after committing")
	commitCmd.Flags().BoolVar(&commitDryRun, "dry-run", false, "Print the accepted message instead of committing")
	commitCmd.Flags().DurationVar(&commitTimeout, "timeout", 0, "Per-call provider timeout (default from config, 60s)")
	commitCmd.Flags().IntVar(&commitMaxRetries, "max-retries", -1, "Automatic retries when a message fails validation (default from config, 2)")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx, interrupt := NewInterruptHandler(cmd.Context(), os.Stderr)
	defer interrupt.Stop()

	a, err := loadApp()
	if err != nil {
		return err
	}

	primary, err := a.cfg.GetProvider(providerName)
	if err != nil {
		return err
	}

	language := lang.ParseLanguage(a.cfg.GetLanguage(commitLanguage))
	log.Debug("Using provider: %s, language: %s", primary, language)

	genCfg := a.cfg.GetGenerationConfig()
	timeout := genCfg.Timeout()
	if commitTimeout > 0 {
		timeout = commitTimeout
	}
	maxRetries := genCfg.MaxAutoRetries
	if commitMaxRetries >= 0 {
		maxRetries = commitMaxRetries
	}

	gen, err := generator.New(generator.Config{
		Registry:       a.registry,
		Timeout:        timeout,
		MaxAutoRetries: maxRetries,
		Prompt: prompt.Options{
			Language:       language,
			ProjectContext: genCfg.Context,
			Style:          genCfg.Style,
			Examples:       genCfg.Examples,
		},
	})
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	candidates := []providerChoice{{ID: primary, Model: a.cfg.GetModel(primary, modelName)}}
	for _, id := range a.cfg.FallbackProviders {
		if id != primary {
			candidates = append(candidates, providerChoice{ID: id, Model: a.cfg.GetModel(id, "")})
		}
	}

	flow := &commitFlow{
		gen:           gen,
		git:           git.NewExecutor(cwd),
		providers:     candidates,
		hint:          commitContext,
		recentCommits: genCfg.RecentCommits,
		autoYes:       commitAutoYes,
		push:          commitPush,
		dryRun:        commitDryRun,
		input:         os.Stdin,
		output:        os.Stdout,
		spinner:       ui.NewSpinner(os.Stdout, !debugMode),
	}
	return flow.run(ctx)
}

// providerChoice is one provider the flow may generate with
type providerChoice struct {
	ID    string
	Model string
}

// commitFlow is the interactive loop around a generation session
type commitFlow struct {
	gen           *generator.Generator
	git           git.Executor
	providers     []providerChoice // primary first, then fallbacks
	hint          string
	recentCommits int
	autoYes       bool
	push          bool
	dryRun        bool
	input         io.Reader
	output        io.Writer
	spinner       *ui.Spinner
}

func (f *commitFlow) run(ctx context.Context) error {
	printer := ui.NewPrinter(f.output, ui.WithColor(!noColor), ui.WithVerbose(debugMode))

	root, err := f.git.RepoRoot(ctx)
	if err != nil {
		return fmt.Errorf("not inside a git repository: %w", err)
	}
	log.Debug("Repository root: %s", root)

	diff, err := git.CollectContext(ctx, f.git, git.CollectOptions{
		Hint:          f.hint,
		RecentCommits: f.recentCommits,
	})
	if errors.Is(err, git.ErrNothingStaged) {
		fmt.Fprintln(f.output, "No staged changes found.")
		fmt.Fprintln(f.output, "\nTo stage changes, use:")
		fmt.Fprintln(f.output, "  git add <file>")
		fmt.Fprintln(f.output, "  git add -A")
		return nil
	}
	if err != nil {
		return err
	}
	log.Debug("Diff context: branch=%s files=%d recent=%d", diff.Branch, len(diff.StagedFiles), len(diff.RecentCommits))

	start := time.Now()
	session, err := f.start(ctx, printer, diff)
	if err != nil {
		return f.explain(err, session, printer)
	}

	for {
		result := session.Result()
		if err := ui.ShowCommitMessage(result.Message, f.output); err != nil {
			return err
		}
		_ = printer.PrintStats(&ui.GenerationStats{
			Provider:    session.Provider(),
			Model:       session.Model(),
			Invocations: session.Invocations(),
			Elapsed:     time.Since(start),
		})

		action := ui.ActionAccept
		if !f.autoYes {
			if action, err = ui.ChooseAction(f.input, f.output); err != nil {
				_ = session.Abandon()
				return err
			}
		}

		start = time.Now()
		switch action {
		case ui.ActionAccept:
			accepted, err := session.Accept()
			if err != nil {
				return err
			}
			return f.commit(ctx, printer, accepted.Message)

		case ui.ActionRefine:
			instruction, err := (&ui.InstructionPrompt{
				Label:    "How should the message change?",
				Hint:     "Earlier instructions stay in effect.",
				Examples: []string{"make the header shorter", "use the auth scope", "mention the timezone fix"},
			}).Read(ctx, f.input, f.output)
			if errors.Is(err, ui.ErrEmptyInput) {
				continue
			}
			if errors.Is(err, ui.ErrInterrupted) {
				_ = session.Abandon()
				fmt.Fprintln(f.output, "\nCommit cancelled.")
				return nil
			}
			if err != nil {
				_ = session.Abandon()
				return err
			}
			err = f.spinner.Run("Refining commit message...", func() error {
				_, err := session.Refine(ctx, instruction)
				return err
			})
			if err != nil {
				return f.explain(err, session, printer)
			}

		case ui.ActionRegenerate:
			if err := session.Abandon(); err != nil {
				return err
			}
			next, err := f.generate(ctx, providerChoice{ID: session.Provider(), Model: session.Model()}, diff)
			if err != nil {
				return f.explain(err, next, printer)
			}
			session = next

		default:
			_ = session.Abandon()
			fmt.Fprintln(f.output, "Commit cancelled.")
			return nil
		}
	}
}

// start generates the first candidate, moving on to the next provider only
// when the current one is unavailable.
func (f *commitFlow) start(ctx context.Context, printer *ui.Printer, diff prompt.DiffContext) (*generator.Session, error) {
	var lastErr error
	for i, choice := range f.providers {
		session, err := f.generate(ctx, choice, diff)
		if err == nil {
			return session, nil
		}
		lastErr = err
		if !errors.Is(err, provider.ErrUnavailable) || i == len(f.providers)-1 {
			return session, err
		}
		_ = printer.PrintWarning(fmt.Sprintf("%v, trying %s", err, f.providers[i+1].ID))
	}
	return nil, lastErr
}

// generate runs a fresh session against one provider
func (f *commitFlow) generate(ctx context.Context, choice providerChoice, diff prompt.DiffContext) (*generator.Session, error) {
	session, err := f.gen.NewSession(choice.ID, choice.Model, diff)
	if err != nil {
		return nil, err
	}
	log.Debug("Session %s: %s/%s", session.ID(), session.Provider(), session.Model())

	err = f.spinner.Run(fmt.Sprintf("Generating commit message with %s...", choice.ID), func() error {
		_, err := session.Start(ctx)
		return err
	})
	return session, err
}

// explain prints what the user can do about a failed session
func (f *commitFlow) explain(err error, session *generator.Session, printer *ui.Printer) error {
	var exhausted *generator.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		_ = ui.ShowRejected(exhausted.LastMessage, exhausted.Rules(), f.output)
		_ = printer.PrintInfo("Edit the message above by hand, or run the command again.")
	case errors.Is(err, provider.ErrCancelled):
		_ = printer.PrintWarning("Generation cancelled.")
	case errors.Is(err, provider.ErrTimeout):
		_ = printer.PrintInfo("Raise --timeout or generation.timeout_seconds if the provider is slow.")
	case errors.Is(err, provider.ErrUnavailable):
		_ = printer.PrintInfo("Run 'commitsmith providers' to see which providers are ready.")
	}
	if session != nil {
		log.Debug("Session %s ended in state %s", session.ID(), session.State())
	}
	return err
}

func (f *commitFlow) commit(ctx context.Context, printer *ui.Printer, message string) error {
	if f.dryRun {
		_ = printer.PrintInfo("Dry run, not committing.")
		return nil
	}

	if err := f.git.Commit(ctx, message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	_ = printer.Newline()
	_ = printer.PrintSuccess("Commit created successfully!")

	if !f.push {
		return nil
	}
	_ = printer.PrintProgress("Pushing to remote...")
	if err := f.spinner.Run("Pushing...", func() error { return f.git.Push(ctx) }); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	_ = printer.PrintSuccess("Pushed.")
	return nil
}
