// Package secret resolves provider credentials. Lookups never create or
// persist secrets.
package secret

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Store resolves the credential for a provider id
type Store interface {
	Get(providerID string) (string, bool)
}

// MapStore serves credentials from a fixed map, typically the api_key
// entries of the config file.
type MapStore map[string]string

// Get returns the non-empty credential for providerID
func (m MapStore) Get(providerID string) (string, bool) {
	v := strings.TrimSpace(m[providerID])
	return v, v != ""
}

// Chain consults stores in order and returns the first hit
type Chain []Store

// Get returns the first credential found
func (c Chain) Get(providerID string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Get(providerID); ok {
			return v, true
		}
	}
	return "", false
}

// Keys are the provider credentials read from the environment
type Keys struct {
	OpenAI     string `env:"OPENAI_API_KEY"`
	Anthropic  string `env:"ANTHROPIC_API_KEY"`
	Gemini     string `env:"GEMINI_API_KEY"`
	Google     string `env:"GOOGLE_API_KEY"`
	OpenRouter string `env:"OPENROUTER_API_KEY"`
	Cerebras   string `env:"CEREBRAS_API_KEY"`
	DeepSeek   string `env:"DEEPSEEK_API_KEY"`
	XAI        string `env:"XAI_API_KEY"`
	Ollama     string `env:"OLLAMA_API_KEY"`
}

func (k Keys) byProvider() MapStore {
	google := k.Gemini
	if google == "" {
		google = k.Google
	}
	return MapStore{
		"openai":     k.OpenAI,
		"anthropic":  k.Anthropic,
		"google":     google,
		"openrouter": k.OpenRouter,
		"cerebras":   k.Cerebras,
		"deepseek":   k.DeepSeek,
		"grok":       k.XAI,
		"ollama":     k.Ollama,
	}
}

// LoadEnv reads credentials from the process environment, falling back to
// the given .env files. Real environment variables win over file values and
// missing files are skipped.
func LoadEnv(files ...string) (MapStore, error) {
	environ := processEnv()
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for key, value := range values {
			if _, set := environ[key]; !set {
				environ[key] = value
			}
		}
	}
	return ParseEnv(environ)
}

// ParseEnv extracts credentials from an explicit environment map
func ParseEnv(environ map[string]string) (MapStore, error) {
	var keys Keys
	if err := env.ParseWithOptions(&keys, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse credentials from environment: %w", err)
	}
	return keys.byProvider(), nil
}

func processEnv() map[string]string {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			environ[key] = value
		}
	}
	return environ
}
