package commitlint

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxHeaderLength is the hard limit for the header, the text before the
// first blank line.
const MaxHeaderLength = 50

// Rule identifies one validation rule
type Rule string

const (
	RuleEmptyMessage     Rule = "empty-message"
	RuleHeaderMaxLength  Rule = "header-max-length"
	RuleHeaderFormat     Rule = "header-format"
	RuleSubjectEmpty     Rule = "subject-empty"
	RuleSubjectCase      Rule = "subject-case"
	RuleSubjectFullStop  Rule = "subject-full-stop"
	RuleBodyLeadingBlank Rule = "body-leading-blank"
)

// Violation is a single failed rule with a human-readable detail
type Violation struct {
	Rule   Rule
	Detail string
}

// Verdict is the pass/fail classification of one candidate message
type Verdict struct {
	OK         bool
	Violations []Violation
}

// Rules returns the violated rule identifiers in check order
func (v Verdict) Rules() []string {
	out := make([]string, 0, len(v.Violations))
	for _, violation := range v.Violations {
		out = append(out, string(violation.Rule))
	}
	return out
}

// Has reports whether the verdict contains the given rule
func (v Verdict) Has(rule Rule) bool {
	for _, violation := range v.Violations {
		if violation.Rule == rule {
			return true
		}
	}
	return false
}

// Summary joins the violation details into one line
func (v Verdict) Summary() string {
	details := make([]string, 0, len(v.Violations))
	for _, violation := range v.Violations {
		details = append(details, violation.Detail)
	}
	return strings.Join(details, "; ")
}

// Lint validates a commit message. All violations are collected; an empty
// list means the message passes.
func Lint(message string) Verdict {
	if strings.TrimSpace(message) == "" {
		return fail([]Violation{{Rule: RuleEmptyMessage, Detail: "message is empty"}})
	}

	var violations []Violation
	commit, matched := Parse(message)

	if n := utf8.RuneCountInString(headerBlock(message)); n > MaxHeaderLength {
		violations = append(violations, Violation{
			Rule:   RuleHeaderMaxLength,
			Detail: fmt.Sprintf("header is %d characters, limit is %d", n, MaxHeaderLength),
		})
	}

	if !matched {
		violations = append(violations, Violation{
			Rule:   RuleHeaderFormat,
			Detail: fmt.Sprintf("header must look like <type>(<scope>)!: <subject> with type one of %s", strings.Join(Types, ", ")),
		})
	} else {
		violations = append(violations, lintSubject(commit.Subject)...)
	}

	lines := strings.Split(message, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		violations = append(violations, Violation{
			Rule:   RuleBodyLeadingBlank,
			Detail: "body must be separated from the header by a blank line",
		})
	}

	if len(violations) > 0 {
		return fail(violations)
	}
	return Verdict{OK: true}
}

// headerBlock returns every line before the first blank one, as written
func headerBlock(message string) string {
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			return strings.Join(lines[:i], "\n")
		}
	}
	return message
}

func lintSubject(subject string) []Violation {
	if strings.TrimSpace(subject) == "" {
		return []Violation{{Rule: RuleSubjectEmpty, Detail: "subject after the colon is empty"}}
	}

	var violations []Violation
	first, _ := utf8.DecodeRuneInString(subject)
	if unicode.IsUpper(first) {
		violations = append(violations, Violation{
			Rule:   RuleSubjectCase,
			Detail: "subject must start with a lowercase letter",
		})
	}
	if strings.HasSuffix(strings.TrimSpace(subject), ".") {
		violations = append(violations, Violation{
			Rule:   RuleSubjectFullStop,
			Detail: "subject must not end with a period",
		})
	}
	return violations
}

func fail(violations []Violation) Verdict {
	return Verdict{OK: false, Violations: violations}
}

// Describe turns a violation into a corrective instruction for the model
func Describe(v Violation) string {
	switch v.Rule {
	case RuleEmptyMessage:
		return "Return a commit message; the previous response was empty"
	case RuleHeaderMaxLength:
		return fmt.Sprintf("Shorten the header to at most %d characters (%s)", MaxHeaderLength, v.Detail)
	case RuleHeaderFormat:
		return fmt.Sprintf("Start the header with one of %s, an optional (scope), an optional !, then \": \"", strings.Join(Types, ", "))
	case RuleSubjectEmpty:
		return "Write a subject after the colon"
	case RuleSubjectCase:
		return "Start the subject with a lowercase letter"
	case RuleSubjectFullStop:
		return "Remove the trailing period from the subject"
	case RuleBodyLeadingBlank:
		return "Leave one blank line between the header and the body"
	default:
		return v.Detail
	}
}
