package generator

import (
	"errors"
	"fmt"

	"github.com/huimingz/commitsmith/internal/commitlint"
)

var (
	// ErrBusy is returned when a session is used while an invoke is in flight
	ErrBusy = errors.New("session is busy")

	// ErrInvalidState is returned for an operation the current state does not allow
	ErrInvalidState = errors.New("invalid session state")

	// ErrEmptyInstruction is returned by Refine for a blank instruction
	ErrEmptyInstruction = errors.New("refinement instruction is empty")

	// ErrValidationExhausted matches every *ExhaustedError
	ErrValidationExhausted = errors.New("validation exhausted")
)

// ExhaustedError reports that automatic retries ran out without a candidate
// passing validation. It carries the last candidate so it can be fixed by hand.
type ExhaustedError struct {
	Attempts    int
	LastMessage string
	Violations  []commitlint.Violation
}

func (e *ExhaustedError) Error() string {
	verdict := commitlint.Verdict{Violations: e.Violations}
	return fmt.Sprintf("%s after %d attempts: %s", ErrValidationExhausted, e.Attempts, verdict.Summary())
}

// Is matches ErrValidationExhausted
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrValidationExhausted
}

// Rules returns the rule ids the last candidate violated
func (e *ExhaustedError) Rules() []string {
	return commitlint.Verdict{Violations: e.Violations}.Rules()
}
