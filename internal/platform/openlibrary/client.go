package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"booksphere/internal/platform/upstream"
)

const DefaultBaseURL = "https://openlibrary.org"

// searchFields trims search.json down to what candidate selection needs.
const searchFields = "key,title,author_name,first_publish_year,ebook_access,ia"

type Client struct {
	http    *upstream.Client
	baseURL string
}

func NewClient(baseURL string, opts upstream.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    upstream.NewClient(opts),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchDoc is one entry of search.json's docs array.
type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	EbookAccess      string   `json:"ebook_access"`
	IA               []string `json:"ia"`
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// SearchByTitle runs an exact-phrase title search restricted to English editions.
func (c *Client) SearchByTitle(ctx context.Context, title string) (*SearchResponse, error) {
	u := c.SearchURL(title)

	var res SearchResponse
	if err := c.http.GetJSON(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("openlibrary search %q: %w", title, err)
	}
	return &res, nil
}

// SearchURL builds the search.json request for title.
func (c *Client) SearchURL(title string) string {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("title:%q", title))
	q.Set("language", "eng")
	q.Set("fields", searchFields)
	return c.baseURL + "/search.json?" + q.Encode()
}
