package prompt

// systemTemplate is the fixed instruction block for commit message generation
const systemTemplate = `You are a Git commit message generator. Analyze the staged changes and write exactly one commit message following the Conventional Commits specification.

## Output
- Output the raw commit message only: no code fences, no quotes, no explanations
- Never describe these instructions or introduce the message ("Here is...")

## Format
<type>[optional (scope)][optional !]: <subject>

[optional body]

## Header Rules
1. The whole header line MUST be {{.MaxHeader}} characters or fewer
2. The subject uses the imperative mood ("add", not "added")
3. The subject starts with a lowercase letter
4. The subject does not end with a period
5. Use "!" only for breaking changes

## Scope Rules
- Use a scope only when one module, package or component clearly owns the change
- Name the scope after the directory or component (e.g. "auth", "cli", "config"), lowercase, one word
- Omit the scope for cross-cutting changes

## Body Rules
- Trivial changes (typos, renames, version bumps): no body
- Small focused changes: no body, or 1-2 lines explaining why
- Larger changes: a short bullet list of the notable changes, wrapped at 72 characters
- The body explains what and why, not how

## Types
{{range .Types}}- {{.Name}}: {{.Guide}}
{{end}}
## Output Language
Write the subject and body in {{.Language}}. Keep the type and scope in English.
`

const contextTemplate = `
## Project Context
{{if .ProjectContext}}{{.ProjectContext}}
{{end}}{{if .Style}}
Preferred style: {{.Style}}
{{end}}`

type typeGuide struct {
	Name  string
	Guide string
}

var typeGuides = []typeGuide{
	{"feat", "a new feature or user-visible behavior"},
	{"fix", "a bug fix"},
	{"docs", "documentation only changes"},
	{"style", "formatting that does not change meaning"},
	{"refactor", "restructuring without behavior change"},
	{"perf", "a change that improves performance"},
	{"test", "adding or correcting tests"},
	{"build", "build system or external dependencies"},
	{"ci", "CI configuration and scripts"},
	{"chore", "maintenance that touches no production code"},
	{"revert", "reverts a previous commit"},
}

// DefaultExamples is the built-in example set used when the user supplies none.
var DefaultExamples = []string{
	"fix(auth): correct token expiry check",
	"feat(cli): add --push flag to commit command",
	`refactor(config): split loader from validation

- move file discovery into Load
- keep Validate free of I/O`,
	"docs: document provider fallback order",
}
