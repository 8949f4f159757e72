package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huimingz/commitsmith/internal/log"
)

var (
	// Global flags
	debugMode    bool
	noColor      bool
	configFile   string
	providerName string
	modelName    string

	// Version info
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "commitsmith",
	Short: "AI-written Conventional Commits from your staged diff",
	Long: `commitsmith sends your staged diff to an AI provider of your choice and
turns the answer into a Conventional Commits message you can review,
refine, and commit.

Providers can be local CLI tools (Claude Code, Gemini CLI, Codex) or
remote APIs (OpenAI, Anthropic, Google AI Studio, OpenRouter, Cerebras,
DeepSeek, Grok, Ollama).

Use "commitsmith [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		if debugMode {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.Error("%v", err)
		return err
	}
	return nil
}

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, commit, time string) {
	version = v
	gitCommit = commit
	buildTime = time
}

// GetVersionInfo returns version information
func GetVersionInfo() (string, string, string) {
	return version, gitCommit, buildTime
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode for verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: ./.commitsmith.yaml, then ~/.commitsmith.yaml)")
	rootCmd.PersistentFlags().StringVarP(&providerName, "provider", "p", "", "Provider to use (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model to use (overrides config)")
}
