package resolution

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Cache.Lookup when no record matches.
var ErrCacheMiss = errors.New("no cached record matches title")

// Cache is the persistent title-to-record store in front of the external lookup.
type Cache interface {
	// Lookup returns the best full-text match for title, or ErrCacheMiss.
	Lookup(ctx context.Context, title string) (BookRecord, error)
	// Insert appends rec. It never merges with or replaces an existing record.
	Insert(ctx context.Context, rec *BookRecord) error
	Ping(ctx context.Context) error
	Close() error
}

// Searcher queries the bibliographic index.
type Searcher interface {
	SearchByTitle(ctx context.Context, title string) ([]Candidate, error)
}

// MetadataFetcher reads archive item metadata and builds download links.
type MetadataFetcher interface {
	FetchItemMetadata(ctx context.Context, identifier string) (ItemMetadata, error)
	DownloadURL(identifier, fileName string) string
}
