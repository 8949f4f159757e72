package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	// ErrEmptyInput is returned when the user provides no input
	ErrEmptyInput = errors.New("empty input")

	// ErrInterrupted is returned when the user interrupts input with Ctrl+C
	ErrInterrupted = errors.New("input interrupted")

	// ErrTimeout is returned when input times out
	ErrTimeout = errors.New("input timeout")
)

// InstructionPrompt asks for one line of free text, such as a refinement
// instruction for the current candidate.
type InstructionPrompt struct {
	Label    string   // The main prompt message
	Hint     string   // Shown dimmed under the label
	Examples []string // Example inputs to show users
}

// Read displays the prompt and returns the trimmed line. On a terminal it uses
// readline for line editing; otherwise it reads input directly.
func (p *InstructionPrompt) Read(ctx context.Context, input io.Reader, output io.Writer) (string, error) {
	if err := ctxErr(ctx); err != nil {
		return "", err
	}

	if err := p.display(output); err != nil {
		return "", err
	}

	if input == os.Stdin && output == os.Stdout {
		return p.readWithReadline(ctx)
	}

	if _, err := fmt.Fprint(output, "> "); err != nil {
		return "", err
	}
	return readLine(ctx, func() (string, error) {
		scanner := bufio.NewScanner(input)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return scanner.Text(), nil
	})
}

func (p *InstructionPrompt) display(output io.Writer) error {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	if _, err := bold.Fprintf(output, "\n✏️  %s\n", p.Label); err != nil {
		return err
	}
	if p.Hint != "" {
		if _, err := dim.Fprintf(output, "   %s\n", p.Hint); err != nil {
			return err
		}
	}
	if len(p.Examples) > 0 {
		if _, err := dim.Fprintln(output, "   Examples:"); err != nil {
			return err
		}
		for _, example := range p.Examples {
			if _, err := green.Fprintf(output, "   • %s\n", example); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *InstructionPrompt) readWithReadline(ctx context.Context) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "^D",
	})
	if err != nil {
		return readLine(ctx, func() (string, error) {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return "", err
			}
			return line, nil
		})
	}
	defer rl.Close()

	return readLine(ctx, func() (string, error) {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return "", ErrInterrupted
		}
		return line, err
	})
}

// readLine runs a blocking read while honoring ctx, and normalizes the line.
func readLine(ctx context.Context, read func() (string, error)) (string, error) {
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := read()
		done <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctxErr(ctx)
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		line := strings.TrimSpace(strings.ReplaceAll(r.line, "\x04", ""))
		if line == "" {
			return "", ErrEmptyInput
		}
		return line, nil
	}
}

func ctxErr(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return ErrInterrupted
	case ctx.Err() != nil:
		return ErrTimeout
	default:
		return nil
	}
}
