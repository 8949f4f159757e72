package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/provider"
	"github.com/huimingz/commitsmith/internal/secret"
	"github.com/huimingz/commitsmith/pkg/lang"
)

// FileName is the config file looked up in the working and home directories
const FileName = ".commitsmith.yaml"

// ErrNotFound is returned by Load when no config file exists
var ErrNotFound = errors.New("no configuration file found, run 'commitsmith init' to create one")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config represents the application configuration
type Config struct {
	DefaultProvider   string                    `yaml:"default_provider" mapstructure:"default_provider" validate:"required"`
	Language          string                    `yaml:"language" mapstructure:"language"`
	Providers         map[string]ProviderConfig `yaml:"providers" mapstructure:"providers" validate:"dive"`
	FallbackProviders []string                  `yaml:"fallback_providers" mapstructure:"fallback_providers" validate:"dive,required"`
	Generation        *GenerationConfig         `yaml:"generation" mapstructure:"generation"`
	Retry             *RetryConfig              `yaml:"retry" mapstructure:"retry"`
	Catalog           *CatalogConfig            `yaml:"catalog" mapstructure:"catalog"`
}

// ProviderConfig holds the per-provider settings
type ProviderConfig struct {
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	Binary  string `yaml:"binary" mapstructure:"binary"`
}

// GenerationConfig configures prompt building and the refinement loop
type GenerationConfig struct {
	TimeoutSeconds int      `yaml:"timeout_seconds" mapstructure:"timeout_seconds" validate:"gte=0,lte=600"`
	MaxAutoRetries int      `yaml:"max_auto_retries" mapstructure:"max_auto_retries" validate:"gte=0,lte=10"`
	RecentCommits  int      `yaml:"recent_commits" mapstructure:"recent_commits" validate:"gte=0,lte=50"`
	Context        string   `yaml:"context" mapstructure:"context"`
	Style          string   `yaml:"style" mapstructure:"style"`
	Examples       []string `yaml:"examples" mapstructure:"examples"`
}

// DefaultGenerationConfig returns the default generation configuration
func DefaultGenerationConfig() *GenerationConfig {
	return &GenerationConfig{
		TimeoutSeconds: 60,
		MaxAutoRetries: 2,
		RecentCommits:  5,
	}
}

// Timeout returns the per-invoke timeout
func (g *GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// RetryConfig configures retries of catalog fetches. Generation is never
// retried automatically.
type RetryConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=0,lte=10"`
	BackoffBase float64 `yaml:"backoff_base" mapstructure:"backoff_base" validate:"gte=0"` // in seconds
	BackoffMax  float64 `yaml:"backoff_max" mapstructure:"backoff_max" validate:"gte=0"`   // in seconds
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	d := catalog.DefaultRetryConfig()
	return &RetryConfig{
		Enabled:     d.Enabled,
		MaxAttempts: d.MaxAttempts,
		BackoffBase: d.BackoffBase,
		BackoffMax:  d.BackoffMax,
	}
}

// Catalog converts to the catalog retry settings
func (r *RetryConfig) Catalog() catalog.RetryConfig {
	return catalog.RetryConfig{
		Enabled:     r.Enabled,
		MaxAttempts: r.MaxAttempts,
		BackoffBase: r.BackoffBase,
		BackoffMax:  r.BackoffMax,
	}
}

// Validate validates the retry configuration
func (r *RetryConfig) Validate() error {
	c := r.Catalog()
	return c.Validate()
}

// CatalogConfig configures the in-memory model catalog cache
type CatalogConfig struct {
	CacheTTLMinutes int `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes" validate:"gte=0"`
	CacheSize       int `yaml:"cache_size" mapstructure:"cache_size" validate:"gte=0"`
}

// DefaultCatalogConfig returns the default catalog cache configuration
func DefaultCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		CacheTTLMinutes: 10,
		CacheSize:       16,
	}
}

// TTL returns the cache entry lifetime
func (c *CatalogConfig) TTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, ok := provider.Lookup(c.DefaultProvider); !ok {
		return fmt.Errorf("unsupported default_provider: %s", c.DefaultProvider)
	}

	for id := range c.Providers {
		if _, ok := provider.Lookup(id); !ok {
			return fmt.Errorf("unsupported provider in providers section: %s", id)
		}
	}

	seen := map[string]bool{c.DefaultProvider: true}
	for _, id := range c.FallbackProviders {
		if _, ok := provider.Lookup(id); !ok {
			return fmt.Errorf("unsupported fallback provider: %s", id)
		}
		if seen[id] {
			return fmt.Errorf("fallback provider listed twice or equal to default: %s", id)
		}
		seen[id] = true
	}

	if c.Language != "" && !lang.IsSupported(c.Language) {
		return fmt.Errorf("unsupported language: %s", c.Language)
	}

	if c.Retry != nil {
		if err := c.Retry.Validate(); err != nil {
			return fmt.Errorf("invalid retry configuration: %w", err)
		}
	}

	return nil
}

// GetProvider returns the provider id to use
// Priority: parameter > env variable (COMMITSMITH_PROVIDER) > default_provider
func (c *Config) GetProvider(providerParam string) (string, error) {
	id := providerParam
	if id == "" {
		id = os.Getenv("COMMITSMITH_PROVIDER")
	}
	if id == "" {
		id = c.DefaultProvider
	}
	if id == "" {
		return "", fmt.Errorf("no provider specified and no default_provider configured")
	}
	if _, ok := provider.Lookup(id); !ok {
		return "", fmt.Errorf("%w: %s", provider.ErrUnknownProvider, id)
	}
	return id, nil
}

// GetModel returns the model to use for a provider
// Priority: parameter > providers.<id>.model > provider default
func (c *Config) GetModel(providerID, modelParam string) string {
	if modelParam != "" {
		return modelParam
	}
	if p, ok := c.Providers[providerID]; ok && p.Model != "" {
		return p.Model
	}
	desc, _ := provider.Lookup(providerID)
	return desc.DefaultModel
}

// GetLanguage returns the language to use
// Priority: parameter > env variable (COMMITSMITH_LANG) > config file > default (en)
func (c *Config) GetLanguage(langParam string) string {
	if langParam != "" {
		return langParam
	}
	if envLang := os.Getenv("COMMITSMITH_LANG"); envLang != "" {
		return envLang
	}
	if c.Language != "" {
		return c.Language
	}
	return string(lang.DefaultLanguage())
}

// Secrets returns the api keys configured in the file, with ${VAR} references
// expanded.
func (c *Config) Secrets() secret.MapStore {
	keys := make(secret.MapStore, len(c.Providers))
	for id, p := range c.Providers {
		if p.APIKey != "" {
			keys[id] = expandEnv(p.APIKey)
		}
	}
	return keys
}

// Overrides returns the endpoint overrides for the provider registry
func (c *Config) Overrides() map[string]provider.Override {
	overrides := make(map[string]provider.Override)
	for id, p := range c.Providers {
		if p.BaseURL != "" || p.Binary != "" {
			overrides[id] = provider.Override{BaseURL: p.BaseURL, Binary: expandHome(p.Binary)}
		}
	}
	return overrides
}

// GetGenerationConfig returns the generation configuration with defaults applied
func (c *Config) GetGenerationConfig() *GenerationConfig {
	if c.Generation == nil {
		return DefaultGenerationConfig()
	}
	defaults := DefaultGenerationConfig()
	if c.Generation.TimeoutSeconds <= 0 {
		c.Generation.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if c.Generation.MaxAutoRetries < 0 {
		c.Generation.MaxAutoRetries = defaults.MaxAutoRetries
	}
	if c.Generation.RecentCommits < 0 {
		c.Generation.RecentCommits = defaults.RecentCommits
	}
	return c.Generation
}

// GetRetryConfig returns the retry configuration with defaults applied
func (c *Config) GetRetryConfig() *RetryConfig {
	if c.Retry == nil {
		return DefaultRetryConfig()
	}
	defaults := DefaultRetryConfig()
	if c.Retry.MaxAttempts < 0 {
		c.Retry.MaxAttempts = defaults.MaxAttempts
	}
	if c.Retry.BackoffBase < 0 {
		c.Retry.BackoffBase = defaults.BackoffBase
	}
	if c.Retry.BackoffMax < 0 {
		c.Retry.BackoffMax = defaults.BackoffMax
	}
	return c.Retry
}

// GetCatalogConfig returns the catalog configuration with defaults applied
func (c *Config) GetCatalogConfig() *CatalogConfig {
	if c.Catalog == nil {
		return DefaultCatalogConfig()
	}
	defaults := DefaultCatalogConfig()
	if c.Catalog.CacheTTLMinutes <= 0 {
		c.Catalog.CacheTTLMinutes = defaults.CacheTTLMinutes
	}
	if c.Catalog.CacheSize <= 0 {
		c.Catalog.CacheSize = defaults.CacheSize
	}
	return c.Catalog
}

// expandEnv expands environment variables in the format ${VAR} or $VAR
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func setDefaults(v *viper.Viper) {
	gen := DefaultGenerationConfig()
	v.SetDefault("generation.timeout_seconds", gen.TimeoutSeconds)
	v.SetDefault("generation.max_auto_retries", gen.MaxAutoRetries)
	v.SetDefault("generation.recent_commits", gen.RecentCommits)

	retry := DefaultRetryConfig()
	v.SetDefault("retry.enabled", retry.Enabled)
	v.SetDefault("retry.max_attempts", retry.MaxAttempts)
	v.SetDefault("retry.backoff_base", retry.BackoffBase)
	v.SetDefault("retry.backoff_max", retry.BackoffMax)

	cat := DefaultCatalogConfig()
	v.SetDefault("catalog.cache_ttl_minutes", cat.CacheTTLMinutes)
	v.SetDefault("catalog.cache_size", cat.CacheSize)
}

// LoadFromFile loads configuration from a file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Load loads configuration with the following priority:
// 1. Custom path if provided
// 2. Current directory .commitsmith.yaml
// 3. Home directory ~/.commitsmith.yaml
func Load(customPath string) (*Config, string, error) {
	if customPath != "" {
		cfg, err := LoadFromFile(customPath)
		return cfg, customPath, err
	}

	if _, err := os.Stat(FileName); err == nil {
		cfg, err := LoadFromFile(FileName)
		return cfg, FileName, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, FileName)
	if _, err := os.Stat(homePath); err == nil {
		cfg, err := LoadFromFile(homePath)
		return cfg, homePath, err
	}

	return nil, "", ErrNotFound
}

// SetProviderModel rewrites providers.<id>.model in the config file at path,
// optionally making the provider the default.
func SetProviderModel(path, providerID, model string, makeDefault bool) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	v.Set(fmt.Sprintf("providers.%s.model", providerID), model)
	if makeDefault {
		v.Set("default_provider", providerID)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
