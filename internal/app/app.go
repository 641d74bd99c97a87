// Package app wires configuration into a ready resolution service.
package app

import (
	"context"
	"fmt"

	"booksphere/internal/config"
	"booksphere/internal/platform/archive"
	"booksphere/internal/platform/openlibrary"
	"booksphere/internal/platform/upstream"
	"booksphere/internal/resolution"

	"go.uber.org/zap"
)

type App struct {
	Cache   resolution.Cache
	Service *resolution.Service
}

// New opens the configured cache backend and builds the service around it.
// Callers own Close.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	policy, err := resolution.MatchPolicyByName(cfg.TitleMatch)
	if err != nil {
		return nil, err
	}

	cache, err := OpenCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	searchClient := openlibrary.NewClient(cfg.OpenLibraryBaseURL, upstream.Options{
		UserAgent:  cfg.UserAgent,
		RPS:        cfg.UpstreamRPS,
		MaxRetries: cfg.UpstreamMaxRetries,
		Timeout:    cfg.SearchTimeout,
	})
	archiveClient := archive.NewClient(cfg.ArchiveBaseURL, upstream.Options{
		UserAgent:  cfg.UserAgent,
		RPS:        cfg.UpstreamRPS,
		MaxRetries: cfg.UpstreamMaxRetries,
		Timeout:    cfg.MetadataTimeout,
	})

	svc := resolution.NewService(
		cache,
		resolution.NewOpenLibrarySearcher(searchClient),
		resolution.NewArchiveFetcher(archiveClient),
		resolution.Config{MatchPolicy: policy, ProbeConcurrency: cfg.ProbeConcurrency},
		logger.Named("resolution"),
	)

	return &App{Cache: cache, Service: svc}, nil
}

func (a *App) Close() error {
	return a.Cache.Close()
}

func OpenCache(ctx context.Context, cfg config.Config) (resolution.Cache, error) {
	switch cfg.CacheBackend {
	case config.BackendPostgres:
		repo, err := resolution.OpenPostgres(ctx, cfg.DBDSN, cfg.DBTimeout)
		if err != nil {
			return nil, fmt.Errorf("open postgres cache (%s): %w", RedactDSN(cfg.DBDSN), err)
		}
		return repo, nil
	case config.BackendBleve:
		repo, err := resolution.OpenBleve(cfg.BlevePath)
		if err != nil {
			return nil, fmt.Errorf("open bleve cache: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: unknown CACHE_BACKEND %q", config.ErrInvalidConfig, cfg.CacheBackend)
	}
}
