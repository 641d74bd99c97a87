package resolution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	// MatchPolicy decides which candidate titles answer a query. Defaults to SubstringMatch.
	MatchPolicy MatchPolicy
	// ProbeConcurrency bounds parallel archive probes. 1 probes sequentially.
	ProbeConcurrency int
}

// Service resolves free-text titles to PDF URLs, caching successful resolutions.
type Service struct {
	cache    Cache
	searcher Searcher
	selector *Selector
	locator  *Locator
	logger   *zap.Logger
}

func NewService(cache Cache, searcher Searcher, fetcher MetadataFetcher, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cache:    cache,
		searcher: searcher,
		selector: NewSelector(cfg.MatchPolicy),
		locator:  NewLocator(fetcher, cfg.ProbeConcurrency, logger),
		logger:   logger,
	}
}

// Resolve returns the PDF URL for title. A cache hit makes no external calls;
// a miss searches, selects, probes and then writes exactly one record.
// Negative outcomes are ErrNotFoundPublicDomain and ErrNoVerifiedPdf and are never cached.
func (s *Service) Resolve(ctx context.Context, title string) (pdfURL string, err error) {
	title = strings.TrimSpace(title)
	start := time.Now()
	outcome := ""
	defer func() {
		if outcome == "" {
			outcome = Outcome(err)
		}
		s.logOutcome(title, outcome, time.Since(start), err)
	}()

	if title == "" {
		return "", ErrInvalidRequest
	}

	rec, err := s.cache.Lookup(ctx, title)
	switch {
	case err == nil:
		outcome = OutcomeCacheHit
		return rec.PdfURL, nil
	case !errors.Is(err, ErrCacheMiss):
		return "", fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	candidates, err := s.searcher.SearchByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrExternalServiceUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrExternalServiceUnavailable, err)
	}

	candidate, ok := s.selector.Select(candidates, title)
	if !ok {
		return "", ErrNotFoundPublicDomain
	}

	pdfURL, err = s.locator.Locate(ctx, candidate.ArchiveIdentifiers)
	if err != nil {
		return "", err
	}

	record := newRecord(candidate, pdfURL)
	if insertErr := s.cache.Insert(ctx, &record); insertErr != nil {
		s.logger.Error("cache fill failed",
			zap.String("title", record.Title),
			zap.String("pdf_url", pdfURL),
			zap.Error(insertErr))
	}
	return pdfURL, nil
}

func newRecord(c Candidate, pdfURL string) BookRecord {
	author := AuthorUnknown
	if len(c.AuthorNames) > 0 {
		author = strings.Join(c.AuthorNames, ", ")
	}
	return BookRecord{
		Title:       c.Title,
		Author:      author,
		PublishYear: c.FirstPublishYear,
		PdfURL:      pdfURL,
	}
}

func (s *Service) logOutcome(title, outcome string, took time.Duration, err error) {
	fields := []zap.Field{
		zap.String("title", title),
		zap.String("outcome", outcome),
		zap.Int64("duration_ms", took.Milliseconds()),
	}
	switch outcome {
	case OutcomeCacheUnavailable, OutcomeError:
		s.logger.Error("resolution failed", append(fields, zap.Error(err))...)
	case OutcomeUpstreamUnavailable:
		s.logger.Warn("resolution failed", append(fields, zap.Error(err))...)
	default:
		s.logger.Info("resolution finished", fields...)
	}
}
