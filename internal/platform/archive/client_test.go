package archive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"booksphere/internal/platform/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguage_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Language
	}{
		{name: "string", in: `"English"`, want: "English"},
		{name: "list", in: `["eng", "fre"]`, want: "eng"},
		{name: "empty list", in: `[]`, want: ""},
		{name: "null", in: `null`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Language
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("number is rejected", func(t *testing.T) {
		var got Language
		assert.Error(t, json.Unmarshal([]byte(`42`), &got))
	})
}

func TestClient_FetchItemMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metadata/draculabr00stok", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"metadata": {"identifier": "draculabr00stok", "language": "eng"},
			"files": [{"name": "dracula_meta.xml"}, {"name": "dracula.pdf", "format": "Text PDF"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, upstream.Options{})
	meta, err := c.FetchItemMetadata(context.Background(), "draculabr00stok")
	require.NoError(t, err)

	assert.Equal(t, Language("eng"), meta.Metadata.Language)
	require.Len(t, meta.Files, 2)
	assert.Equal(t, "dracula.pdf", meta.Files[1].Name)
}

func TestClient_FetchItemMetadata_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, upstream.Options{})
	_, err := c.FetchItemMetadata(context.Background(), "missing")
	assert.Error(t, err)
}

func TestClient_DownloadURL(t *testing.T) {
	c := NewClient("https://archive.org/", upstream.Options{})

	assert.Equal(t,
		"https://archive.org/download/prideandprejud/pride.pdf",
		c.DownloadURL("prideandprejud", "pride.pdf"))
	assert.Equal(t,
		"https://archive.org/download/mobydick00melv/Moby%20Dick%20%26%20Other.pdf",
		c.DownloadURL("mobydick00melv", "Moby Dick & Other.pdf"))
	assert.Equal(t,
		"https://archive.org/download/id/sub%2Fdir.pdf",
		c.DownloadURL("id", "sub/dir.pdf"))
	assert.Equal(t,
		"https://archive.org/download/id/x%20(1).pdf",
		c.DownloadURL("id", "x (1).pdf"))
	assert.Equal(t,
		"https://archive.org/download/id/it's_a~b*c!.pdf",
		c.DownloadURL("id", "it's_a~b*c!.pdf"))
	assert.Equal(t,
		"https://archive.org/download/id/a%2Bb%3Fc%23d.pdf",
		c.DownloadURL("id", "a+b?c#d.pdf"))
	assert.Equal(t,
		"https://archive.org/download/id/caf%C3%A9.pdf",
		c.DownloadURL("id", "café.pdf"))
}
