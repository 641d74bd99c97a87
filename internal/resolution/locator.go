package resolution

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var englishLanguages = map[string]bool{
	"eng":     true,
	"english": true,
}

// Locator probes archive identifiers for an English PDF scan.
// The first qualifying identifier in list order wins, whatever the concurrency.
type Locator struct {
	fetcher     MetadataFetcher
	concurrency int
	logger      *zap.Logger
}

// NewLocator returns a Locator. concurrency <= 1 probes strictly one at a time.
func NewLocator(fetcher MetadataFetcher, concurrency int, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{
		fetcher:     fetcher,
		concurrency: max(concurrency, 1),
		logger:      logger,
	}
}

// Locate returns the download URL of the first qualifying identifier, or
// ErrNoVerifiedPdf once the list is exhausted. A failed metadata fetch only
// disqualifies that identifier.
func (l *Locator) Locate(ctx context.Context, identifiers []string) (string, error) {
	var (
		url string
		ok  bool
	)
	if l.concurrency == 1 || len(identifiers) < 2 {
		url, ok = l.locateSequential(ctx, identifiers)
	} else {
		url, ok = l.locateConcurrent(ctx, identifiers)
	}
	if ok {
		return url, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrNoVerifiedPdf
}

func (l *Locator) locateSequential(ctx context.Context, identifiers []string) (string, bool) {
	for _, id := range identifiers {
		if ctx.Err() != nil {
			return "", false
		}
		if url, ok := l.probe(ctx, id); ok {
			return url, true
		}
	}
	return "", false
}

// locateConcurrent fans probes out but only commits the lowest-index success:
// a winner is declared once every identifier before it has finished without qualifying.
func (l *Locator) locateConcurrent(ctx context.Context, identifiers []string) (string, bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make([]string, len(identifiers))
		done    = make([]bool, len(identifiers))
		next    int
		winner  = -1
	)

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, id := range identifiers {
		mu.Lock()
		decided := winner >= 0
		mu.Unlock()
		if decided || ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			url, ok := l.probe(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			done[i] = true
			if ok {
				results[i] = url
			}
			for winner < 0 && next < len(identifiers) && done[next] {
				if results[next] != "" {
					winner = next
					cancel()
					break
				}
				next++
			}
			return nil
		})
	}
	_ = g.Wait()

	if winner < 0 {
		return "", false
	}
	return results[winner], true
}

func (l *Locator) probe(ctx context.Context, identifier string) (string, bool) {
	meta, err := l.fetcher.FetchItemMetadata(ctx, identifier)
	if err != nil {
		l.logger.Debug("metadata fetch failed, skipping identifier",
			zap.String("identifier", identifier), zap.Error(err))
		return "", false
	}

	lang := strings.ToLower(strings.TrimSpace(meta.Language))
	if !englishLanguages[lang] {
		return "", false
	}

	for _, f := range meta.Files {
		if strings.HasSuffix(f.Name, ".pdf") {
			return l.fetcher.DownloadURL(identifier, f.Name), true
		}
	}
	return "", false
}
