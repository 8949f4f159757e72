// Package provider normalizes local CLI tools and remote model APIs behind a
// single Adapter contract.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/prompt"
)

// Mode tells how an adapter reaches its backend
type Mode string

const (
	ModeCLI Mode = "cli"
	ModeAPI Mode = "api"
)

// ErrInvalidRequest is returned for requests that fail InvokeRequest.Validate
var ErrInvalidRequest = errors.New("invalid invoke request")

// Descriptor identifies one backend. It is read-only once registered.
type Descriptor struct {
	ID           string
	Name         string
	Mode         Mode
	BaseURL      string
	Binary       string
	DefaultModel string
	SecretEnv    string // empty when the backend needs no credential
}

// RequiresSecret reports whether invoke needs a credential
func (d Descriptor) RequiresSecret() bool {
	return d.Mode == ModeAPI && d.SecretEnv != ""
}

// InvokeRequest is one generation attempt
type InvokeRequest struct {
	Model   string
	System  string
	Prompt  string
	Timeout time.Duration
}

// Validate checks the request invariants
func (r InvokeRequest) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt is empty", ErrInvalidRequest)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidRequest, r.Timeout)
	}
	return nil
}

// Combined returns the request as a single text, for backends without a
// separate system role.
func (r InvokeRequest) Combined() string {
	if r.System == "" {
		return r.Prompt
	}
	return prompt.Prompt{System: r.System, User: r.Prompt}.Combined()
}

// InvokeResult is the outcome of one successful attempt. Text may be empty.
type InvokeResult struct {
	Text    string
	Elapsed time.Duration
}

// Adapter is implemented by every backend. Adapters are stateless and safe to
// share across sessions. They never retry.
type Adapter interface {
	// Descriptor returns the backend identity
	Descriptor() Descriptor

	// Invoke sends one prompt and returns the raw response text. Failures are
	// *Error values matching ErrUnavailable, ErrTimeout, ErrProvider or
	// ErrCancelled.
	Invoke(ctx context.Context, req InvokeRequest) (*InvokeResult, error)

	// CheckAvailable reports whether the credential or binary is present. It is
	// advisory; Invoke may still fail with ErrUnavailable.
	CheckAvailable(ctx context.Context) bool

	// FetchModels returns the resolved model list. apiKey overrides the stored
	// secret when non-empty.
	FetchModels(ctx context.Context, apiKey string) ([]catalog.Model, error)
}

// Secrets looks up the credential for a provider id
type Secrets interface {
	Get(providerID string) (string, bool)
}

type noSecrets struct{}

func (noSecrets) Get(string) (string, bool) { return "", false }

// staticModels turns a compiled-in list into ranked models
func staticModels(ids ...string) []catalog.Model {
	models := make([]catalog.Model, 0, len(ids))
	for i, id := range ids {
		models = append(models, catalog.Model{
			ID:          id,
			DisplayName: catalog.DisplayName(id, ""),
			Priority:    i + 1,
		})
	}
	return models
}
