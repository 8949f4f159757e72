package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// GenerationStats summarizes one generation for display
type GenerationStats struct {
	Provider    string
	Model       string
	Invocations int
	Elapsed     time.Duration
}

// PrinterOption is a functional option for Printer
type PrinterOption func(*Printer)

// WithColor enables or disables color output
func WithColor(enabled bool) PrinterOption {
	return func(p *Printer) {
		p.colorEnabled = enabled
	}
}

// WithVerbose enables or disables verbose mode
func WithVerbose(verbose bool) PrinterOption {
	return func(p *Printer) {
		p.verbose = verbose
	}
}

// Printer writes status lines for the commit flow
type Printer struct {
	writer       io.Writer
	colorEnabled bool
	verbose      bool
}

// NewPrinter creates a new Printer
func NewPrinter(writer io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{
		writer:       writer,
		colorEnabled: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.writer
}

func (p *Printer) line(attr color.Attribute, format string, args ...interface{}) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if p.colorEnabled {
		_, err := color.New(attr).Fprint(p.writer, text)
		return err
	}
	_, err := fmt.Fprint(p.writer, text)
	return err
}

// PrintInfo prints an info message
func (p *Printer) PrintInfo(message string) error {
	return p.line(color.FgCyan, "ℹ️  %s", message)
}

// PrintProgress prints a progress message
func (p *Printer) PrintProgress(message string) error {
	return p.line(color.FgYellow, "⏳ %s", message)
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	return p.line(color.FgGreen, "✅ %s", message)
}

// PrintWarning prints a warning
func (p *Printer) PrintWarning(message string) error {
	return p.line(color.FgYellow, "⚠️  %s", message)
}

// PrintError prints an error message
func (p *Printer) PrintError(message string) error {
	return p.line(color.FgRed, "❌ Error: %s", message)
}

// PrintStats prints the generation summary. Outside verbose mode only the
// elapsed time is shown.
func (p *Printer) PrintStats(stats *GenerationStats) error {
	if stats == nil {
		return nil
	}
	if !p.verbose {
		return p.line(color.FgHiBlack, "📊 Time: %s", formatDuration(stats.Elapsed))
	}
	return p.line(color.FgHiBlack, "📊 %s/%s | %d call(s) | Time: %s",
		stats.Provider, stats.Model, stats.Invocations, formatDuration(stats.Elapsed))
}

// Newline prints a newline
func (p *Printer) Newline() error {
	_, err := fmt.Fprintln(p.writer)
	return err
}

// formatDuration formats a duration in a human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
