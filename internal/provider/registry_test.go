package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitsmith/internal/catalog"
)

type mapSecrets map[string]string

func (m mapSecrets) Get(id string) (string, bool) {
	v, ok := m[id]
	return v, ok
}

type stubAdapter struct {
	desc Descriptor
}

func (s *stubAdapter) Descriptor() Descriptor { return s.desc }
func (s *stubAdapter) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResult, error) {
	return &InvokeResult{Text: "stub"}, nil
}
func (s *stubAdapter) CheckAvailable(ctx context.Context) bool { return true }
func (s *stubAdapter) FetchModels(ctx context.Context, apiKey string) ([]catalog.Model, error) {
	return nil, nil
}

func TestNewRegistry_Builtins(t *testing.T) {
	r := NewRegistry(Options{})

	for _, id := range IDs() {
		t.Run(id, func(t *testing.T) {
			a, err := r.Get(id)
			require.NoError(t, err)
			desc := a.Descriptor()
			assert.Equal(t, id, desc.ID)
			assert.NotEmpty(t, desc.Name)
			assert.NotEmpty(t, desc.DefaultModel)
			switch desc.Mode {
			case ModeCLI:
				assert.NotEmpty(t, desc.Binary)
				assert.Empty(t, desc.BaseURL)
			case ModeAPI:
				assert.NotEmpty(t, desc.BaseURL)
			default:
				t.Fatalf("unexpected mode %q", desc.Mode)
			}
		})
	}
}

func TestNewRegistry_UniqueIDsInOrder(t *testing.T) {
	r := NewRegistry(Options{})

	descs := r.Descriptors()
	require.Len(t, descs, len(builtins))
	seen := map[string]bool{}
	for i, d := range descs {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.Equal(t, builtins[i].desc.ID, d.ID)
	}
	assert.Len(t, r.List(), len(descs))
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry(Options{})

	_, err := r.Get("unsupported")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProvider))
	assert.Contains(t, err.Error(), "unsupported")
}

func TestNewRegistry_Overrides(t *testing.T) {
	r := NewRegistry(Options{
		Overrides: map[string]Override{
			"ollama":      {BaseURL: "http://gpu-box:11434/v1"},
			"claude-code": {Binary: "/opt/claude/bin/claude"},
		},
	})

	ollama, err := r.Get("ollama")
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434/v1", ollama.Descriptor().BaseURL)

	claude, err := r.Get("claude-code")
	require.NoError(t, err)
	assert.Equal(t, "/opt/claude/bin/claude", claude.Descriptor().Binary)

	builtin, ok := Lookup("ollama")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434/v1", builtin.BaseURL)
}

func TestNewRegistry_ExtraAdapters(t *testing.T) {
	r := NewRegistry(Options{
		Adapters: []Adapter{
			&stubAdapter{desc: Descriptor{ID: "openai", Name: "Stub OpenAI", Mode: ModeAPI}},
			&stubAdapter{desc: Descriptor{ID: "fake", Name: "Fake", Mode: ModeCLI}},
		},
	})

	a, err := r.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "Stub OpenAI", a.Descriptor().Name)

	_, err = r.Get("fake")
	require.NoError(t, err)

	descs := r.Descriptors()
	assert.Equal(t, len(builtins)+1, len(descs))
	assert.Equal(t, "fake", descs[len(descs)-1].ID)
}

func TestCheckAvailable_Secrets(t *testing.T) {
	r := NewRegistry(Options{Secrets: mapSecrets{"openai": "sk-test"}})

	ctx := context.Background()
	for id, want := range map[string]bool{
		"openai":     true,
		"anthropic":  false,
		"google":     false,
		"openrouter": false,
		"ollama":     true,
	} {
		a, err := r.Get(id)
		require.NoError(t, err)
		assert.Equal(t, want, a.CheckAvailable(ctx), id)
	}
}

func TestInvokeRequest_Validate(t *testing.T) {
	assert.NoError(t, InvokeRequest{Prompt: "p", Timeout: 1}.Validate())
	assert.True(t, errors.Is(InvokeRequest{Timeout: 1}.Validate(), ErrInvalidRequest))
	assert.True(t, errors.Is(InvokeRequest{Prompt: "p"}.Validate(), ErrInvalidRequest))
}

func TestInvokeRequest_Combined(t *testing.T) {
	assert.Equal(t, "user", InvokeRequest{Prompt: "user"}.Combined())
	assert.Equal(t, "sys\n\n---\n\nuser", InvokeRequest{System: "sys", Prompt: "user"}.Combined())
}
