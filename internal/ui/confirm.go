package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const rule = "──────────────────────────────────────────────────"

// Confirm asks the user for a yes/no confirmation
// Default is no (returns false on empty input)
func Confirm(message string, input io.Reader, output io.Writer) (bool, error) {
	return ConfirmWithDefault(message, false, input, output)
}

// ConfirmWithDefault asks the user for a yes/no confirmation with a specified default
func ConfirmWithDefault(message string, defaultYes bool, input io.Reader, output io.Writer) (bool, error) {
	scanner := bufio.NewScanner(input)

	choices := "[y/N]"
	if defaultYes {
		choices = "[Y/n]"
	}

	for {
		if _, err := fmt.Fprintf(output, "%s %s: ", message, choices); err != nil {
			return false, err
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, err
			}
			return false, io.EOF
		}

		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			if _, err := fmt.Fprintln(output, "Please enter 'y' or 'n'"); err != nil {
				return false, err
			}
		}
	}
}

// ShowCommitMessage displays a formatted commit message
func ShowCommitMessage(message string, output io.Writer) error {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	if _, err := bold.Fprintln(output, "\n📝 Generated Commit Message:"); err != nil {
		return err
	}
	if _, err := cyan.Fprintln(output, rule); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(output, message); err != nil {
		return err
	}
	_, err := cyan.Fprintln(output, rule)
	return err
}

// ShowRejected displays a candidate that failed validation with the rules
// it broke, so it can be fixed by hand.
func ShowRejected(message string, rules []string, output io.Writer) error {
	yellow := color.New(color.FgYellow)
	dim := color.New(color.FgHiBlack)

	if _, err := yellow.Fprintln(output, "\n⚠️  Last candidate failed validation:"); err != nil {
		return err
	}
	if _, err := dim.Fprintln(output, rule); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(output, message); err != nil {
		return err
	}
	if _, err := dim.Fprintln(output, rule); err != nil {
		return err
	}
	_, err := yellow.Fprintf(output, "Violated rules: %s\n", strings.Join(rules, ", "))
	return err
}
