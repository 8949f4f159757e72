package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/huimingz/commitsmith/internal/catalog"
)

type modelItem struct {
	ID      string
	Name    string
	Current bool
	Tag     string
}

func modelItems(models []catalog.Model, current string) []modelItem {
	items := make([]modelItem, 0, len(models))
	for _, m := range models {
		item := modelItem{ID: m.ID, Name: m.DisplayName, Current: m.ID == current}
		switch {
		case item.Current:
			item.Tag = " (current)"
		case m.Deprecated:
			item.Tag = " (deprecated)"
		}
		items = append(items, item)
	}
	return items
}

func modelSearcher(items []modelItem) func(input string, index int) bool {
	return func(input string, index int) bool {
		item := items[index]
		needle := strings.ToLower(strings.ReplaceAll(input, " ", ""))
		haystack := strings.ToLower(strings.ReplaceAll(item.ID+item.Name, " ", ""))
		return strings.Contains(haystack, needle)
	}
}

func cursorFor(items []modelItem) int {
	for i, item := range items {
		if item.Current {
			return i
		}
	}
	return 0
}

// PickModel lets the user choose a model interactively with type-to-search.
// The list starts on the current model when it is present.
func PickModel(label string, models []catalog.Model, current string) (string, error) {
	if len(models) == 0 {
		return "", ErrNoOptions
	}

	items := modelItems(models, current)
	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .ID | cyan }}{{ .Tag | faint }}",
			Inactive: "  {{ .ID }}{{ .Tag | faint }}",
			Selected: "✔ {{ .ID | green }}",
			Details:  "{{ .Name | faint }}",
		},
		Searcher:  modelSearcher(items),
		CursorPos: cursorFor(items),
	}

	idx, _, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("model selection aborted: %w", err)
	}
	return items[idx].ID, nil
}
