package ui

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress while a provider call is in flight. It only spins
// when writing to a terminal, so redirected output stays clean.
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner writing to output. A non-file writer or a
// disabled flag yields a spinner whose methods do nothing.
func NewSpinner(output io.Writer, enabled bool) *Spinner {
	f, ok := output.(*os.File)
	if !ok || !enabled {
		return &Spinner{}
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriterFile(f))
	_ = s.Color("cyan")
	return &Spinner{s: s, enabled: true}
}

// Start shows message next to the spinner
func (sp *Spinner) Start(message string) {
	if !sp.enabled {
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Start()
}

// Stop clears the spinner line
func (sp *Spinner) Stop() {
	if !sp.enabled {
		return
	}
	sp.s.Stop()
}

// Run wraps fn with Start and Stop
func (sp *Spinner) Run(message string, fn func() error) error {
	sp.Start(message)
	defer sp.Stop()
	return fn()
}
