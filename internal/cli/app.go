package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/config"
	"github.com/huimingz/commitsmith/internal/log"
	"github.com/huimingz/commitsmith/internal/provider"
	"github.com/huimingz/commitsmith/internal/secret"
)

// envFile holds credentials picked up from the working directory
const envFile = ".env"

// app bundles what every command builds from the configuration
type app struct {
	cfg        *config.Config
	configPath string // empty when running without a config file
	secrets    secret.Store
	registry   *provider.Registry
	cache      *catalog.Cache
}

// loadApp reads the configuration and builds the provider registry. Without a
// config file it still works when a provider is chosen by flag or env var.
func loadApp() (*app, error) {
	cfg, path, err := config.Load(configFile)
	switch {
	case errors.Is(err, config.ErrNotFound):
		if providerName == "" && os.Getenv("COMMITSMITH_PROVIDER") == "" {
			return nil, err
		}
		log.Warn("No config file found, using built-in defaults (run 'commitsmith init' to create one)")
		cfg = &config.Config{}
	case err != nil:
		return nil, fmt.Errorf("failed to load config: %w", err)
	default:
		log.Debug("Loaded config from %s", path)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	log.DebugConfig("Configuration", cfg)

	envKeys, err := secret.LoadEnv(envFile)
	if err != nil {
		return nil, err
	}
	secrets := secret.Chain{cfg.Secrets(), envKeys}

	catalogCfg := cfg.GetCatalogConfig()
	cache, err := catalog.NewCache(catalogCfg.CacheSize, catalogCfg.TTL())
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}

	return &app{
		cfg:        cfg,
		configPath: path,
		secrets:    secrets,
		registry: provider.NewRegistry(provider.Options{
			Secrets:   secrets,
			Transport: provider.NewTransport(version),
			Overrides: cfg.Overrides(),
		}),
		cache: cache,
	}, nil
}

// fetchModels returns the resolved catalog of a provider, served from the cache
// while fresh and retried on transient failures otherwise.
func (a *app) fetchModels(ctx context.Context, providerID string) ([]catalog.Model, error) {
	adapter, err := a.registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	retry := a.cfg.GetRetryConfig().Catalog()
	return a.cache.GetOrFetch(ctx, providerID, func(ctx context.Context) ([]catalog.Model, error) {
		return catalog.Fetch(ctx, retry, func(ctx context.Context) ([]catalog.Model, error) {
			return adapter.FetchModels(ctx, "")
		})
	})
}
