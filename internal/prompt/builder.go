// Package prompt assembles the system and user prompts sent to a provider.
// Everything here is pure: the same inputs always produce the same strings.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/huimingz/commitsmith/internal/commitlint"
	"github.com/huimingz/commitsmith/pkg/lang"
)

var (
	systemTmpl  = template.Must(template.New("system").Parse(systemTemplate))
	contextTmpl = template.Must(template.New("context").Parse(contextTemplate))
)

// DiffContext is the git state a message is generated from
type DiffContext struct {
	Branch        string
	Hint          string
	RecentCommits []string
	StagedFiles   []string
	Diff          string
}

// Options are the user preferences that shape the system prompt
type Options struct {
	Language       lang.Language
	ProjectContext string
	Style          string
	Examples       []string
}

// Refinement carries the previous candidate and every instruction given so far
type Refinement struct {
	LastMessage  string
	Instructions []string
}

// Input is everything the user prompt is built from
type Input struct {
	DiffContext
	PriorError string
	Refinement *Refinement
}

// Prompt is the pair of strings sent to a provider
type Prompt struct {
	System string
	User   string
}

// Combined joins both prompts for backends that accept a single text input
func (p Prompt) Combined() string {
	return p.System + "\n\n---\n\n" + p.User
}

// Build assembles both prompts
func Build(opts Options, in Input) Prompt {
	return Prompt{
		System: BuildSystem(opts),
		User:   BuildUser(in),
	}
}

// BuildSystem renders the base template, then the project context block
// (only when context or style is set), then the examples block.
func BuildSystem(opts Options) string {
	language := opts.Language
	if language == "" {
		language = lang.DefaultLanguage()
	}

	var buf bytes.Buffer
	_ = systemTmpl.Execute(&buf, struct {
		MaxHeader int
		Types     []typeGuide
		Language  string
	}{
		MaxHeader: commitlint.MaxHeaderLength,
		Types:     typeGuides,
		Language:  language.PromptName(),
	})

	projectContext := strings.TrimSpace(opts.ProjectContext)
	style := strings.TrimSpace(opts.Style)
	if projectContext != "" || style != "" {
		_ = contextTmpl.Execute(&buf, struct {
			ProjectContext string
			Style          string
		}{projectContext, style})
	}

	examples := opts.Examples
	if len(examples) == 0 {
		examples = DefaultExamples
	}
	buf.WriteString("\n## Examples\n")
	buf.WriteString(strings.Join(examples, "\n\n"))
	buf.WriteString("\n")

	return buf.String()
}

// BuildUser renders the user prompt. Sections appear in a fixed order and the
// diff is always the final segment, unmodified.
func BuildUser(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Branch: %s\n\n", in.Branch)

	if len(in.RecentCommits) > 0 {
		b.WriteString("## Recent Commits\n")
		for _, subject := range in.RecentCommits {
			fmt.Fprintf(&b, "- %s\n", subject)
		}
		b.WriteString("\n")
	}

	if len(in.StagedFiles) > 0 {
		b.WriteString("## Changed Files\n")
		for _, file := range in.StagedFiles {
			fmt.Fprintf(&b, "- %s\n", file)
		}
		b.WriteString("\n")
	}

	if hint := strings.TrimSpace(in.Hint); hint != "" {
		fmt.Fprintf(&b, "## Developer Hint\n%s\n\n", hint)
	}

	if prior := strings.TrimSpace(in.PriorError); prior != "" {
		fmt.Fprintf(&b, "## Previous Attempt Rejected\n%s\n\n", prior)
	}

	if in.Refinement != nil {
		writeRefinement(&b, in.Refinement)
	}

	b.WriteString("## Staged Diff\n")
	b.WriteString(in.Diff)

	return b.String()
}

func writeRefinement(b *strings.Builder, r *Refinement) {
	b.WriteString("## Refinement\n")
	b.WriteString("Previous commit message:\n")
	b.WriteString(r.LastMessage)
	b.WriteString("\n\n")
	if len(r.Instructions) > 0 {
		b.WriteString("Apply ALL of the following changes, in order:\n")
		for i, instruction := range r.Instructions {
			fmt.Fprintf(b, "%d. %s\n", i+1, instruction)
		}
	}
	fmt.Fprintf(b, "Reminder: the header must stay at or under %d characters.\n\n", commitlint.MaxHeaderLength)
}
