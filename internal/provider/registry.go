package provider

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProvider is returned for ids missing from the registry
var ErrUnknownProvider = errors.New("unsupported provider")

type constructor func(desc Descriptor, secrets Secrets, transport *Transport) Adapter

type builtin struct {
	desc  Descriptor
	build constructor
}

var builtins = []builtin{
	{
		desc:  Descriptor{ID: "claude-code", Name: "Claude Code", Mode: ModeCLI, Binary: "claude", DefaultModel: "sonnet"},
		build: func(d Descriptor, _ Secrets, _ *Transport) Adapter { return newClaudeCode(d) },
	},
	{
		desc:  Descriptor{ID: "gemini-cli", Name: "Gemini CLI", Mode: ModeCLI, Binary: "gemini", DefaultModel: "gemini-2.5-flash"},
		build: func(d Descriptor, _ Secrets, _ *Transport) Adapter { return newGeminiCLI(d) },
	},
	{
		desc:  Descriptor{ID: "codex", Name: "Codex CLI", Mode: ModeCLI, Binary: "codex", DefaultModel: "gpt-5-codex"},
		build: func(d Descriptor, _ Secrets, _ *Transport) Adapter { return newCodex(d) },
	},
	{
		desc:  Descriptor{ID: "openai", Name: "OpenAI", Mode: ModeAPI, BaseURL: "https://api.openai.com/v1", DefaultModel: "gpt-4o-mini", SecretEnv: "OPENAI_API_KEY"},
		build: func(d Descriptor, s Secrets, t *Transport) Adapter { return newOpenAICompat(d, s, t) },
	},
	{
		desc:  Descriptor{ID: "anthropic", Name: "Anthropic", Mode: ModeAPI, BaseURL: "https://api.anthropic.com", DefaultModel: "claude-3-5-haiku-latest", SecretEnv: "ANTHROPIC_API_KEY"},
		build: func(d Descriptor, s Secrets, t *Transport) Adapter { return newAnthropic(d, s, t) },
	},
	{
		desc:  Descriptor{ID: "google", Name: "Google AI Studio", Mode: ModeAPI, BaseURL: "https://generativelanguage.googleapis.com/", DefaultModel: "gemini-2.5-flash", SecretEnv: "GEMINI_API_KEY"},
		build: func(d Descriptor, s Secrets, t *Transport) Adapter { return newGoogle(d, s, t) },
	},
	{
		desc:  Descriptor{ID: "openrouter", Name: "OpenRouter", Mode: ModeAPI, BaseURL: "https://openrouter.ai/api/v1", DefaultModel: "openai/gpt-4o-mini", SecretEnv: "OPENROUTER_API_KEY"},
		build: func(d Descriptor, s Secrets, t *Transport) Adapter { return newOpenRouter(d, s, t) },
	},
	{
		desc:  Descriptor{ID: "cerebras", Name: "Cerebras", Mode: ModeAPI, BaseURL: "https://api.cerebras.ai/v1", DefaultModel: "llama-3.3-70b", SecretEnv: "CEREBRAS_API_KEY"},
		build: func(d Descriptor, s Secrets, t *Transport) Adapter { return newOpenAICompat(d, s, t) },
	},
	{
		desc:  Descriptor{ID: "deepseek", Name: "DeepSeek", Mode: ModeAPI, BaseURL: "https://api.deepseek.com/v1", DefaultModel: "deepseek-chat", SecretEnv: "DEEPSEEK_API_KEY"},
		build: func(d Descriptor, s Secrets, t *Transport) Adapter { return newOpenAICompat(d, s, t) },
	},
	{
		desc:  Descriptor{ID: "grok", Name: "Grok", Mode: ModeAPI, BaseURL: "https://api.x.ai/v1", DefaultModel: "grok-3-mini", SecretEnv: "XAI_API_KEY"},
		build: func(d Descriptor, s Secrets, t *Transport) Adapter { return newOpenAICompat(d, s, t) },
	},
	{
		desc:  Descriptor{ID: "ollama", Name: "Ollama", Mode: ModeAPI, BaseURL: "http://localhost:11434/v1", DefaultModel: "llama3.2"},
		build: func(d Descriptor, s Secrets, t *Transport) Adapter { return newOpenAICompat(d, s, t) },
	},
}

// Override replaces the endpoint of a builtin provider
type Override struct {
	BaseURL string
	Binary  string
}

// Options configures NewRegistry
type Options struct {
	Secrets   Secrets
	Transport *Transport
	Overrides map[string]Override

	// Adapters are registered after the builtins, replacing any with the same id
	Adapters []Adapter
}

// Registry maps provider ids to adapters. It is built once and read-only
// afterwards.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry builds every builtin adapter
func NewRegistry(opts Options) *Registry {
	if opts.Secrets == nil {
		opts.Secrets = noSecrets{}
	}
	if opts.Transport == nil {
		opts.Transport = NewTransport("")
	}

	r := &Registry{adapters: make(map[string]Adapter, len(builtins)+len(opts.Adapters))}
	for _, b := range builtins {
		desc := b.desc
		if o, ok := opts.Overrides[desc.ID]; ok {
			if o.BaseURL != "" {
				desc.BaseURL = o.BaseURL
			}
			if o.Binary != "" {
				desc.Binary = o.Binary
			}
		}
		r.add(b.build(desc, opts.Secrets, opts.Transport))
	}
	for _, a := range opts.Adapters {
		r.add(a)
	}
	return r
}

func (r *Registry) add(a Adapter) {
	id := a.Descriptor().ID
	if _, exists := r.adapters[id]; !exists {
		r.order = append(r.order, id)
	}
	r.adapters[id] = a
}

// Get returns the adapter for a provider id
func (r *Registry) Get(id string) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	return a, nil
}

// List returns adapters in registration order
func (r *Registry) List() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.adapters[id])
	}
	return out
}

// Descriptors returns every registered descriptor in registration order
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.adapters[id].Descriptor())
	}
	return out
}

// Lookup returns the builtin descriptor for id
func Lookup(id string) (Descriptor, bool) {
	for _, b := range builtins {
		if b.desc.ID == id {
			return b.desc, true
		}
	}
	return Descriptor{}, false
}

// IDs returns the sorted builtin provider ids
func IDs() []string {
	ids := make([]string, 0, len(builtins))
	for _, b := range builtins {
		ids = append(ids, b.desc.ID)
	}
	sort.Strings(ids)
	return ids
}
