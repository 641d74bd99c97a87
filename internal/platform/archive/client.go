// Package archive talks to the scan archive's per-item metadata API.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"booksphere/internal/platform/upstream"
)

const DefaultBaseURL = "https://archive.org"

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

// Language holds metadata.language, which the archive sends either as a
// string or as a list of strings. For a list the first entry is kept.
type Language string

func (l *Language) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			*l = Language(list[0])
		} else {
			*l = ""
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = Language(s)
	return nil
}

type File struct {
	Name   string `json:"name"`
	Format string `json:"format,omitempty"`
}

// ItemMetadata matches metadata/{identifier}
type ItemMetadata struct {
	Metadata struct {
		Identifier string   `json:"identifier"`
		Title      string   `json:"title"`
		Language   Language `json:"language"`
	} `json:"metadata"`
	Files []File `json:"files"`
}

func (c *Client) FetchItemMetadata(ctx context.Context, identifier string) (*ItemMetadata, error) {
	u := fmt.Sprintf("%s/metadata/%s", c.baseURL, url.PathEscape(identifier))

	var res ItemMetadata
	if err := c.http.GetJSON(ctx, u, &res); err != nil {
		return nil, fmt.Errorf("archive metadata %q: %w", identifier, err)
	}
	return &res, nil
}

// DownloadURL builds {base}/download/{identifier}/{escaped file name}.
func (c *Client) DownloadURL(identifier, fileName string) string {
	return fmt.Sprintf("%s/download/%s/%s", c.baseURL, identifier, escapeComponent(fileName))
}

// escapeComponent percent-encodes s as a single URL component. Letters, digits
// and -_.!~*'() are left as they are; every other byte becomes %XX.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
