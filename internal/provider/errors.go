package provider

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable means the credential or binary is missing
	ErrUnavailable = errors.New("provider unavailable")

	// ErrTimeout means the invoke deadline elapsed before completion
	ErrTimeout = errors.New("provider timeout")

	// ErrProvider means the backend rejected the call
	ErrProvider = errors.New("provider error")

	// ErrCancelled means the caller aborted the call
	ErrCancelled = errors.New("cancelled")
)

// Error is the structured failure returned by adapters. Kind is one of the
// sentinel errors above and is matched by errors.Is.
type Error struct {
	Kind       error
	Provider   string
	StatusCode int    // upstream HTTP status, 0 if none
	ExitCode   int    // child process exit code, 0 if none
	Message    string // upstream message or stderr, verbatim
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	switch {
	case e.Message != "":
		b.WriteString(": ")
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is matches the error kind
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the upstream status code
func (e *Error) HTTPStatusCode() int {
	return e.StatusCode
}

func unavailable(providerID, format string, args ...interface{}) *Error {
	return &Error{
		Kind:     ErrUnavailable,
		Provider: providerID,
		Message:  fmt.Sprintf(format, args...),
	}
}

func upstreamError(providerID string, status int, message string) *Error {
	return &Error{
		Kind:       ErrProvider,
		Provider:   providerID,
		StatusCode: status,
		Message:    strings.TrimSpace(message),
	}
}
