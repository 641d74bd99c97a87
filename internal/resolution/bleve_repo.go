package resolution

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"
)

var bleveFields = []string{"title", "author", "publish_year", "pdf_url", "created_at"}

// BleveRepo is an embedded Cache backed by a Bleve full-text index.
// Only title is analysed; the rest of the record is stored alongside it.
type BleveRepo struct {
	index bleve.Index
	// Fuzziness is the edit distance allowed per title term.
	fuzziness int
}

// OpenBleve opens the index at path, creating it when missing.
// An empty path keeps the index in memory.
func OpenBleve(path string) (*BleveRepo, error) {
	if path == "" {
		index, err := bleve.NewMemOnly(bookMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &BleveRepo{index: index, fuzziness: 1}, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open index %s: %w", path, openErr)
		}
		return &BleveRepo{index: index, fuzziness: 1}, nil
	}

	index, err := bleve.New(path, bookMapping())
	if err != nil {
		return nil, fmt.Errorf("create index %s: %w", path, err)
	}
	return &BleveRepo{index: index, fuzziness: 1}, nil
}

func bookMapping() mapping.IndexMapping {
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Index = false
	storedOnly.IncludeInAll = false

	yearField := bleve.NewNumericFieldMapping()
	yearField.Index = false
	yearField.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false
	doc.AddFieldMappingsAt("title", titleField)
	doc.AddFieldMappingsAt("author", storedOnly)
	doc.AddFieldMappingsAt("pdf_url", storedOnly)
	doc.AddFieldMappingsAt("created_at", storedOnly)
	doc.AddFieldMappingsAt("publish_year", yearField)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	return im
}

func (r *BleveRepo) Lookup(ctx context.Context, title string) (BookRecord, error) {
	q := bleve.NewMatchQuery(title)
	q.SetField("title")
	q.SetFuzziness(r.fuzziness)

	req := bleve.NewSearchRequest(q)
	req.Size = 1
	req.Fields = bleveFields

	res, err := r.index.SearchInContext(ctx, req)
	if err != nil {
		return BookRecord{}, fmt.Errorf("search index: %w", err)
	}
	if len(res.Hits) == 0 {
		return BookRecord{}, ErrCacheMiss
	}

	hit := res.Hits[0]
	rec := BookRecord{ID: hit.ID}
	rec.Title, _ = hit.Fields["title"].(string)
	rec.Author, _ = hit.Fields["author"].(string)
	rec.PdfURL, _ = hit.Fields["pdf_url"].(string)
	if year, ok := hit.Fields["publish_year"].(float64); ok {
		y := int(year)
		rec.PublishYear = &y
	}
	if created, ok := hit.Fields["created_at"].(string); ok {
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	}
	return rec, nil
}

func (r *BleveRepo) Insert(ctx context.Context, rec *BookRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	doc := map[string]any{
		"title":      rec.Title,
		"author":     rec.Author,
		"pdf_url":    rec.PdfURL,
		"created_at": rec.CreatedAt.Format(time.RFC3339Nano),
	}
	if rec.PublishYear != nil {
		doc["publish_year"] = float64(*rec.PublishYear)
	}
	if err := r.index.Index(rec.ID, doc); err != nil {
		return fmt.Errorf("index record: %w", err)
	}
	return nil
}

func (r *BleveRepo) Ping(ctx context.Context) error {
	_, err := r.index.DocCount()
	return err
}

func (r *BleveRepo) Close() error {
	return r.index.Close()
}
