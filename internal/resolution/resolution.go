package resolution

import (
	"errors"
	"time"
)

var (
	// ErrInvalidRequest is returned when the title is missing or empty.
	ErrInvalidRequest = errors.New("title is required")
	// ErrCacheUnavailable is returned when the resolution cache cannot be reached.
	ErrCacheUnavailable = errors.New("resolution cache unavailable")
	// ErrExternalServiceUnavailable is returned when the bibliographic search fails
	// at the transport or HTTP level.
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
	// ErrNotFoundPublicDomain is returned when no search candidate is public and eligible.
	ErrNotFoundPublicDomain = errors.New("no public domain candidate found")
	// ErrNoVerifiedPdf is returned when a candidate was selected but none of its archive
	// identifiers exposes an English PDF.
	ErrNoVerifiedPdf = errors.New("no verified english pdf found")
)

// Outcome labels used in logs.
const (
	OutcomeCacheHit            = "cache_hit"
	OutcomeResolved            = "resolved"
	OutcomeInvalidRequest      = "invalid_request"
	OutcomeNotPublicDomain     = "not_public_domain"
	OutcomeNoVerifiedPdf       = "no_verified_pdf"
	OutcomeUpstreamUnavailable = "upstream_unavailable"
	OutcomeCacheUnavailable    = "cache_unavailable"
	OutcomeError               = "error"
)

// Outcome maps a Resolve error to its log label. A nil error maps to OutcomeResolved.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, ErrInvalidRequest):
		return OutcomeInvalidRequest
	case errors.Is(err, ErrCacheUnavailable):
		return OutcomeCacheUnavailable
	case errors.Is(err, ErrExternalServiceUnavailable):
		return OutcomeUpstreamUnavailable
	case errors.Is(err, ErrNotFoundPublicDomain):
		return OutcomeNotPublicDomain
	case errors.Is(err, ErrNoVerifiedPdf):
		return OutcomeNoVerifiedPdf
	default:
		return OutcomeError
	}
}

// AuthorUnknown is stored when a candidate carries no author names.
const AuthorUnknown = "N/A"

// BookRecord is a cached resolution. Records are append-only.
type BookRecord struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	PublishYear *int      `json:"publish_year,omitempty"`
	PdfURL      string    `json:"pdf_url"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// EbookAccess is the access level reported by the bibliographic index.
type EbookAccess string

const (
	AccessPublic        EbookAccess = "public"
	AccessBorrowable    EbookAccess = "borrowable"
	AccessPrintDisabled EbookAccess = "printdisabled"
	AccessNoEbook       EbookAccess = "no_ebook"
)

// Candidate is a search result not yet verified to have a downloadable PDF.
type Candidate struct {
	Title              string
	AuthorNames        []string
	FirstPublishYear   *int
	EbookAccess        EbookAccess
	ArchiveIdentifiers []string
}

// ItemFile is one file listed in an archive item.
type ItemFile struct {
	Name string
}

// ItemMetadata is the part of an archive item's metadata the locator inspects.
type ItemMetadata struct {
	Language string
	Files    []ItemFile
}
