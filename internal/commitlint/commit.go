// Package commitlint checks generated commit messages against the
// Conventional Commits header rules used by commitsmith.
package commitlint

import (
	"fmt"
	"regexp"
	"strings"
)

// Types lists the accepted commit type tokens, in the order they are
// presented to models.
var Types = []string{
	"feat",
	"fix",
	"docs",
	"style",
	"refactor",
	"perf",
	"test",
	"build",
	"ci",
	"chore",
	"revert",
}

var headerPattern = regexp.MustCompile(`^(` + strings.Join(Types, "|") + `)(\(([^()\s]+)\))?(!)?: (\S.*)?$`)

// Commit is the structured form of a commit message
type Commit struct {
	Type     string // Commit type: feat, fix, docs, ...
	Scope    string // Optional scope inside parentheses
	Breaking bool   // Header carries "!" before the colon
	Subject  string // Text after ": "
	Header   string // First line, verbatim
	Body     string // Everything after the separating blank line
}

// Title returns the formatted header
func (c *Commit) Title() string {
	var b strings.Builder
	b.WriteString(c.Type)
	if c.Scope != "" {
		fmt.Fprintf(&b, "(%s)", c.Scope)
	}
	if c.Breaking {
		b.WriteString("!")
	}
	b.WriteString(": ")
	b.WriteString(c.Subject)
	return b.String()
}

// Message returns the complete formatted commit message
func (c *Commit) Message() string {
	if c.Body == "" {
		return c.Title()
	}
	return c.Title() + "\n\n" + c.Body
}

// Parse splits a message into its header parts and body. The second return
// value reports whether the header matched the type/scope grammar.
func Parse(message string) (Commit, bool) {
	lines := strings.Split(message, "\n")
	c := Commit{Header: lines[0]}

	if len(lines) > 1 {
		rest := lines[1:]
		if strings.TrimSpace(rest[0]) == "" {
			rest = rest[1:]
		}
		c.Body = strings.TrimSpace(strings.Join(rest, "\n"))
	}

	m := headerPattern.FindStringSubmatch(c.Header)
	if m == nil {
		return c, false
	}
	c.Type = m[1]
	c.Scope = m[3]
	c.Breaking = m[4] == "!"
	c.Subject = m[5]
	return c, true
}
