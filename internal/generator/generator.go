// Package generator drives one commit message generation session: it builds
// the prompt, invokes a provider, validates the candidate, and loops on
// refinement until the caller accepts or abandons.
package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huimingz/commitsmith/internal/prompt"
	"github.com/huimingz/commitsmith/internal/provider"
)

const (
	// DefaultTimeout bounds a single provider invoke
	DefaultTimeout = 60 * time.Second

	// DefaultMaxAutoRetries is how many times a rejected candidate is
	// regenerated automatically per user action
	DefaultMaxAutoRetries = 2
)

// Config is the explicit state shared by every session of a Generator
type Config struct {
	Registry       *provider.Registry
	Timeout        time.Duration  // per invoke; DefaultTimeout when zero
	MaxAutoRetries int            // 0 disables automatic retries
	Prompt         prompt.Options // system prompt preferences
}

// DefaultConfig returns a config with default bounds for registry
func DefaultConfig(registry *provider.Registry) Config {
	return Config{
		Registry:       registry,
		Timeout:        DefaultTimeout,
		MaxAutoRetries: DefaultMaxAutoRetries,
	}
}

// Validate validates the config and sets defaults
func (c *Config) Validate() error {
	if c.Registry == nil {
		return errors.New("provider registry is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxAutoRetries < 0 {
		return fmt.Errorf("max auto retries must not be negative, got %d", c.MaxAutoRetries)
	}
	return nil
}

// Generator creates sessions. It holds no per-session state and is safe for
// concurrent use.
type Generator struct {
	cfg Config
}

// New creates a Generator
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the validated config
func (g *Generator) Config() Config {
	return g.cfg
}

// NewSession starts an idle session against one provider. An empty model
// selects the provider's default model.
func (g *Generator) NewSession(providerID, model string, diff prompt.DiffContext) (*Session, error) {
	adapter, err := g.cfg.Registry.Get(providerID)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = adapter.Descriptor().DefaultModel
	}

	return &Session{
		id:         uuid.NewString(),
		adapter:    adapter,
		model:      model,
		diff:       diff,
		opts:       g.cfg.Prompt,
		timeout:    g.cfg.Timeout,
		maxRetries: g.cfg.MaxAutoRetries,
		state:      StateIdle,
	}, nil
}
