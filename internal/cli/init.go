package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/huimingz/commitsmith/internal/config"
	"github.com/huimingz/commitsmith/internal/ui"
)

const defaultConfigTemplate = `# commitsmith configuration file
# See: https://github.com/huimingz/commitsmith

# Provider used when --provider and COMMITSMITH_PROVIDER are not set.
# CLI providers: claude-code, gemini-cli, codex
# API providers: openai, anthropic, google, openrouter, cerebras, deepseek, grok, ollama
default_provider: claude-code

# Language of the commit message body (en, zh, ja, etc.)
language: en

# Tried in order, only when the active provider is unavailable
# (missing credential or binary)
fallback_providers:
  - openai

# Per-provider settings. api_key supports ${ENV_VAR} expansion; keys may also
# come from the environment or a .env file in the working directory.
providers:
  claude-code:
    model: sonnet
    # binary: /usr/local/bin/claude

  openai:
    model: gpt-4o-mini
    api_key: ${OPENAI_API_KEY}

  # anthropic:
  #   model: claude-3-5-haiku-latest
  #   api_key: ${ANTHROPIC_API_KEY}

  # google:
  #   model: gemini-2.5-flash
  #   api_key: ${GEMINI_API_KEY}

  # openrouter:
  #   model: openai/gpt-4o-mini
  #   api_key: ${OPENROUTER_API_KEY}

  # deepseek:
  #   model: deepseek-chat
  #   api_key: ${DEEPSEEK_API_KEY}

  # ollama:
  #   model: llama3.2
  #   base_url: http://localhost:11434/v1

generation:
  timeout_seconds: 60
  # Automatic regenerations when a message breaks the header rules
  max_auto_retries: 2
  # Recent commit subjects shown to the model as style examples
  recent_commits: 5
  # context: "Monorepo for the billing service; scopes are package names"
  # style: "Keep the body to two bullet points"
  # examples:
  #   - "fix(invoice): round totals before applying tax"

# Retries of model catalog fetches (never of generation)
retry:
  enabled: true
  max_attempts: 3
  backoff_base: 1.0
  backoff_max: 8.0

catalog:
  cache_ttl_minutes: 10
  cache_size: 16
`

var (
	initForce bool
	initLocal bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize commitsmith configuration",
	Long: `Create a default configuration file (~/.commitsmith.yaml).

With --local the file is written to the current directory instead, where it
takes precedence over the one in your home directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if !initLocal {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = homeDir
		}

		force := initForce
		existing := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(existing); err == nil && !force {
			ok, err := ui.Confirm(fmt.Sprintf("%s already exists. Overwrite?", existing), cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil || !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Keeping the existing config file.")
				return nil
			}
			force = true
		}

		path, err := writeConfigTemplate(dir, force)
		if err != nil {
			return err
		}
		printNextSteps(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
	initCmd.Flags().BoolVar(&initLocal, "local", false, "Write the config file to the current directory")
	rootCmd.AddCommand(initCmd)
}

// writeConfigTemplate writes the template into dir and returns its path
func writeConfigTemplate(dir string, force bool) (string, error) {
	path := filepath.Join(dir, config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

func printNextSteps(out io.Writer, path string) {
	fmt.Fprintf(out, "✅ Configuration file created: %s\n", path)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Pick a default_provider and add API keys if it needs one")
	fmt.Fprintln(out, "  2. Run 'commitsmith providers' to see which providers are ready")
	fmt.Fprintln(out, "  3. Stage changes and run 'commitsmith commit'")
}
