package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// ErrNoOptions is returned when there is nothing to select from
var ErrNoOptions = errors.New("no options to select from")

// SelectOption shows a numbered list and reads the chosen number. Empty input
// picks defaultIndex; an out-of-range default falls back to the first option.
func SelectOption(message string, options []string, defaultIndex int, input io.Reader, output io.Writer) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoOptions
	}
	if defaultIndex < 0 || defaultIndex >= len(options) {
		defaultIndex = 0
	}

	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	if _, err := bold.Fprintln(output, message); err != nil {
		return -1, err
	}
	for i, option := range options {
		marker := " "
		if i == defaultIndex {
			marker = "*"
		}
		if _, err := fmt.Fprintf(output, " %s %d) %s\n", marker, i+1, option); err != nil {
			return -1, err
		}
	}

	scanner := bufio.NewScanner(input)
	for {
		if _, err := dim.Fprintf(output, "Enter choice [%d]: ", defaultIndex+1); err != nil {
			return -1, err
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return -1, err
			}
			return -1, io.EOF
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			return defaultIndex, nil
		}

		n, err := strconv.Atoi(text)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		if _, err := fmt.Fprintf(output, "Please enter a number between 1 and %d\n", len(options)); err != nil {
			return -1, err
		}
	}
}

// Action is the user's decision about a generated candidate
type Action int

const (
	ActionAccept Action = iota
	ActionRefine
	ActionRegenerate
	ActionAbandon
)

var actionLabels = []string{
	ActionAccept:     "Accept and commit",
	ActionRefine:     "Refine with instructions",
	ActionRegenerate: "Regenerate from scratch",
	ActionAbandon:    "Abandon",
}

func (a Action) String() string {
	if int(a) >= 0 && int(a) < len(actionLabels) {
		return actionLabels[a]
	}
	return "unknown"
}

// ChooseAction asks what to do with the current candidate
func ChooseAction(input io.Reader, output io.Writer) (Action, error) {
	idx, err := SelectOption("\nWhat would you like to do?", actionLabels, int(ActionAccept), input, output)
	if err != nil {
		return ActionAbandon, err
	}
	return Action(idx), nil
}
