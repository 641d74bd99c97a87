package resolution

import (
	"context"
	"fmt"

	"booksphere/internal/platform/archive"
	"booksphere/internal/platform/openlibrary"
)

// OpenLibrarySearcher adapts the Open Library client to Searcher.
type OpenLibrarySearcher struct {
	client *openlibrary.Client
}

func NewOpenLibrarySearcher(client *openlibrary.Client) *OpenLibrarySearcher {
	return &OpenLibrarySearcher{client: client}
}

func (s *OpenLibrarySearcher) SearchByTitle(ctx context.Context, title string) ([]Candidate, error) {
	res, err := s.client.SearchByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalServiceUnavailable, err)
	}

	out := make([]Candidate, 0, len(res.Docs))
	for _, doc := range res.Docs {
		access := EbookAccess(doc.EbookAccess)
		if access == "" {
			access = AccessNoEbook
		}
		out = append(out, Candidate{
			Title:              doc.Title,
			AuthorNames:        doc.AuthorNames,
			FirstPublishYear:   doc.FirstPublishYear,
			EbookAccess:        access,
			ArchiveIdentifiers: doc.IA,
		})
	}
	return out, nil
}

// ArchiveFetcher adapts the archive client to MetadataFetcher.
type ArchiveFetcher struct {
	client *archive.Client
}

func NewArchiveFetcher(client *archive.Client) *ArchiveFetcher {
	return &ArchiveFetcher{client: client}
}

func (f *ArchiveFetcher) FetchItemMetadata(ctx context.Context, identifier string) (ItemMetadata, error) {
	res, err := f.client.FetchItemMetadata(ctx, identifier)
	if err != nil {
		return ItemMetadata{}, err
	}

	meta := ItemMetadata{
		Language: string(res.Metadata.Language),
		Files:    make([]ItemFile, 0, len(res.Files)),
	}
	for _, file := range res.Files {
		meta.Files = append(meta.Files, ItemFile{Name: file.Name})
	}
	return meta, nil
}

func (f *ArchiveFetcher) DownloadURL(identifier, fileName string) string {
	return f.client.DownloadURL(identifier, fileName)
}
