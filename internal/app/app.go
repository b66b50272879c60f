package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SuramyaVimal/dag-cd/internal/cache"
	"github.com/SuramyaVimal/dag-cd/internal/config"
	"github.com/SuramyaVimal/dag-cd/internal/ctxlog"
	"github.com/SuramyaVimal/dag-cd/internal/pipeline"
	"github.com/SuramyaVimal/dag-cd/internal/tac"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx      context.Context
	outW     io.Writer
	logW     io.Writer
	stdin    io.Reader
	logger   *slog.Logger
	config   *Config
	cache    *cache.Cache
	analyzer *pipeline.Analyzer
}

// NewApp is the constructor for the main application. Reports go to outW,
// logs and diagnostics to logW. stdin is read when the input path is
// StdinPath.
func NewApp(ctx context.Context, outW, logW io.Writer, stdin io.Reader, cfg *Config) (*App, error) {
	settings := cfg.Settings
	logger := newLogger(settings, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	c, err := newCache(ctx, settings.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to set up cache: %w", err)
	}
	logger.Debug("Cache configured.", "backend", settings.Cache.Backend)

	opts := []pipeline.Option{
		pipeline.WithParser(tac.NewParser(settings.ParserOptions()...)),
	}
	if c != nil {
		opts = append(opts, pipeline.WithCache(c))
	}

	return &App{
		ctx:      ctx,
		outW:     outW,
		logW:     logW,
		stdin:    stdin,
		logger:   logger,
		config:   cfg,
		cache:    c,
		analyzer: pipeline.New(opts...),
	}, nil
}

// Analyzer returns the application's analyzer. This is primarily for testing.
func (a *App) Analyzer() *pipeline.Analyzer {
	return a.analyzer
}

// Close releases the cache backend.
func (a *App) Close() error {
	if a.cache == nil {
		return nil
	}
	hits, misses := a.cache.Stats()
	a.logger.Debug("Closing cache.", "hits", hits, "misses", misses)
	return a.cache.Close()
}

func newCache(ctx context.Context, cfg config.Cache) (*cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return nil, nil
	case config.CacheGCS:
		store, err := cache.NewGCSStore(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return cache.New(store), nil
	default:
		return cache.New(cache.NewMemoryStore(cfg.MaxEntries)), nil
	}
}
