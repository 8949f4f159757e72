// Package catalog turns raw provider model listings into the ordered,
// de-duplicated model lists offered for selection.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// UnrankedPriority is the rank given to models missing from a priority table.
const UnrankedPriority = 100

var (
	// ErrModelNotFound is returned when a configured model is absent from the catalog
	ErrModelNotFound = errors.New("model not found")

	// ErrModelDeprecated is returned alongside a model the catalog flags as deprecated
	ErrModelDeprecated = errors.New("model is deprecated")
)

// Model is one selectable model of a provider
type Model struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Priority    int    `json:"priority"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

// Entry is one raw row of a provider catalog, before filtering
type Entry struct {
	ID          string
	DisplayName string
	Chat        bool // catalog marks the model as chat/generation capable
	Deprecated  bool
}

// Rules configures the resolve pipeline for one provider
type Rules struct {
	Include    []*regexp.Regexp // when non-empty, an id must match one of these
	Exclude    []*regexp.Regexp // ids matching any of these are dropped
	Priorities map[string]int   // keyed by BaseID
}

// Resolve applies, in order: the chat type filter, include/exclude patterns,
// a stable ascending priority sort, and base-id de-duplication keeping the
// first occurrence.
func Resolve(entries []Entry, rules Rules) []Model {
	models := make([]Model, 0, len(entries))
	for _, e := range entries {
		if !e.Chat {
			continue
		}
		id := strings.TrimPrefix(strings.TrimSpace(e.ID), "models/")
		if id == "" || !rules.allows(id) {
			continue
		}
		models = append(models, Model{
			ID:          id,
			DisplayName: DisplayName(id, e.DisplayName),
			Priority:    rules.rank(id),
			Deprecated:  e.Deprecated,
		})
	}

	sort.SliceStable(models, func(i, j int) bool {
		return models[i].Priority < models[j].Priority
	})

	seen := make(map[string]bool, len(models))
	out := models[:0]
	for _, m := range models {
		base := BaseID(m.ID)
		if seen[base] {
			continue
		}
		seen[base] = true
		out = append(out, m)
	}
	return out
}

func (r Rules) allows(id string) bool {
	if len(r.Include) > 0 && !matchAny(r.Include, id) {
		return false
	}
	return !matchAny(r.Exclude, id)
}

func (r Rules) rank(id string) int {
	if p, ok := r.Priorities[BaseID(id)]; ok {
		return p
	}
	return UnrankedPriority
}

func matchAny(patterns []*regexp.Regexp, id string) bool {
	for _, p := range patterns {
		if p.MatchString(id) {
			return true
		}
	}
	return false
}

// Patterns compiles a list of expressions, panicking on invalid input. It is
// meant for package-level rule tables.
func Patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

var snapshotSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`-\d{4}-\d{2}-\d{2}$`), // gpt-4o-2024-08-06
	regexp.MustCompile(`-\d{8}$`),             // claude-3-5-sonnet-20241022
	regexp.MustCompile(`-\d{4}$`),             // gpt-3.5-turbo-0125
	regexp.MustCompile(`-\d{3}$`),             // gemini-1.5-flash-001
	regexp.MustCompile(`-latest$`),
}

// BaseID normalizes a model id so dated or numbered snapshots of the same
// model collapse to one key.
func BaseID(id string) string {
	base := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(id), "models/"))
	for {
		stripped := base
		for _, suffix := range snapshotSuffixes {
			stripped = suffix.ReplaceAllString(stripped, "")
		}
		if stripped == base || stripped == "" {
			return base
		}
		base = stripped
	}
}

// DisplayName cleans a catalog display name, deriving one from the id when the
// catalog has none.
func DisplayName(id, name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name != "" {
		return name
	}

	id = strings.TrimPrefix(id, "models/")
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	parts := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	for i, part := range parts {
		runes := []rune(part)
		if len(runes) > 0 && unicode.IsLetter(runes[0]) {
			runes[0] = unicode.ToUpper(runes[0])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

// Find looks up a configured model id. A deprecated model is returned together
// with ErrModelDeprecated so callers can warn without failing.
func Find(models []Model, id string) (Model, error) {
	for _, m := range models {
		if m.ID == id {
			if m.Deprecated {
				return m, fmt.Errorf("%w: %s", ErrModelDeprecated, id)
			}
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
}

// IDs returns the model ids in order
func IDs(models []Model) []string {
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	return ids
}
