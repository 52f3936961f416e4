package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/voordathetnieuwswas/vhnw/internal/cache"
	"github.com/voordathetnieuwswas/vhnw/internal/correlate"
	"github.com/voordathetnieuwswas/vhnw/internal/extract/adapters"
	"github.com/voordathetnieuwswas/vhnw/internal/index"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"github.com/voordathetnieuwswas/vhnw/internal/pipeline"
	"github.com/voordathetnieuwswas/vhnw/internal/settings"
	"github.com/voordathetnieuwswas/vhnw/internal/util"
	"github.com/voordathetnieuwswas/vhnw/internal/wordlist"
	"github.com/voordathetnieuwswas/vhnw/internal/worker"
)

// app holds the components shared by the commands
type app struct {
	cfg        *model.Config
	registry   *adapters.Registry
	client     *index.Client
	correlator *correlate.Correlator
	store      *cache.Store // nil when caching is disabled
	pipeline   *pipeline.Pipeline

	closers []io.Closer
}

// loadConfig merges the config file, environment and flags over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	if cfg.Output.Verbose {
		verbose = true
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// cacheDir returns the configured cache directory, ~/.vhnw/cache by default
func cacheDir(cfg *model.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// openBackend returns the persistence backend named in the config
func openBackend(cfg *model.Config) (cache.Backend, io.Closer, error) {
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Cache.Backend {
	case "", "disk":
		return cache.NewDiskBackend(filepath.Join(dir, "entries")), nil, nil
	case "sqlite":
		b, err := cache.OpenSQLite(filepath.Join(dir, "cache.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		return b, b, nil
	case "memory":
		return cache.NewMemoryBackend(cfg.Cache.TTL()), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

// openStore creates and initializes the result cache. Scope setting changes
// since the previous run clear it.
func openStore(ctx context.Context, cfg *model.Config) (*cache.Store, io.Closer, error) {
	backend, closer, err := openBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	store := cache.NewStore(backend, cfg.Cache.TTL())
	store.OnInvalidate(settings.IsScopeChange)

	if err := store.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache init: %v\n", err)
	}

	dir, err := cacheDir(cfg)
	if err != nil {
		return store, closer, nil
	}
	changed, err := settings.Sync(ctx, viper.GetViper(), filepath.Join(dir, "scope.yaml"), store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: settings sync: %v\n", err)
	} else if len(changed) > 0 && verbose {
		fmt.Fprintf(os.Stderr, "Settings changed (%v), cache cleared\n", changed)
	}

	return store, closer, nil
}

// newWords returns the built-in regions plus those from configured files
func newWords(cfg *model.Config) (*wordlist.Set, error) {
	words := wordlist.NewSet()
	for _, path := range cfg.Extraction.WordListFiles {
		if err := words.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return words, nil
}

func newRegistry(words *wordlist.Set, cfg *model.Config) (*adapters.Registry, error) {
	registry, err := adapters.NewRegistry(words, cfg.Extraction)
	if err != nil {
		return nil, fmt.Errorf("error loading adapters: %w", err)
	}
	return registry, nil
}

// newClient creates the search index client
func newClient(cfg *model.Config) *index.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	httpClient := &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: transport,
	}

	client := index.NewClient(cfg.Search.BaseURL, httpClient, worker.NewLimiterFromConfig(cfg.RateLimiting))
	client.SetUserAgent(cfg.HTTP.UserAgent)
	return client
}

// newApp wires the configured components
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	words, err := newWords(cfg)
	if err != nil {
		return nil, err
	}
	registry, err := newRegistry(words, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		registry: registry,
		client:   newClient(cfg),
	}
	a.correlator = correlate.New(a.client, cfg.Search, cfg.Options)

	if cfg.Cache.Enabled {
		store, closer, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.store = store
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}

	a.pipeline = pipeline.NewPipeline(cfg, registry, a.correlator, a.store)
	if verbose {
		a.pipeline.Log = os.Stderr
		a.correlator.Log = os.Stderr
	}

	return a, nil
}

// Close releases the cache backend
func (a *app) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
