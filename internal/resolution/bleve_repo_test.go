package resolution

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemBleve(t *testing.T) *BleveRepo {
	t.Helper()
	repo, err := OpenBleve("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestBleveRepo_LookupInsert(t *testing.T) {
	ctx := context.Background()
	repo := newMemBleve(t)

	_, err := repo.Lookup(ctx, "Moby Dick")
	assert.ErrorIs(t, err, ErrCacheMiss)

	rec := &BookRecord{
		Title:       "Moby Dick; Or, The Whale",
		Author:      "Herman Melville",
		PublishYear: intPtr(1851),
		PdfURL:      "https://archive.org/download/mobydick00melv/moby.pdf",
	}
	require.NoError(t, repo.Insert(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	t.Run("matches free text", func(t *testing.T) {
		got, err := repo.Lookup(ctx, "moby dick")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, "Moby Dick; Or, The Whale", got.Title)
		assert.Equal(t, "Herman Melville", got.Author)
		require.NotNil(t, got.PublishYear)
		assert.Equal(t, 1851, *got.PublishYear)
		assert.Equal(t, rec.PdfURL, got.PdfURL)
		assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, 0)
	})

	t.Run("tolerates a typo", func(t *testing.T) {
		got, err := repo.Lookup(ctx, "moby dik")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
	})

	t.Run("unrelated title misses", func(t *testing.T) {
		_, err := repo.Lookup(ctx, "Frankenstein")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestBleveRepo_InsertAppends(t *testing.T) {
	ctx := context.Background()
	repo := newMemBleve(t)

	first := &BookRecord{Title: "Emma", Author: "Jane Austen", PdfURL: "https://archive.test/1.pdf"}
	second := &BookRecord{Title: "Emma", Author: "Jane Austen", PdfURL: "https://archive.test/2.pdf"}
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	assert.NotEqual(t, first.ID, second.ID)
	count, err := repo.index.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	got, err := repo.Lookup(ctx, "emma")
	require.NoError(t, err)
	assert.Contains(t, []string{first.PdfURL, second.PdfURL}, got.PdfURL)
	assert.Nil(t, got.PublishYear)
}

func TestBleveRepo_BestMatchWins(t *testing.T) {
	ctx := context.Background()
	repo := newMemBleve(t)

	require.NoError(t, repo.Insert(ctx, &BookRecord{Title: "The Time Machine", PdfURL: "https://archive.test/time.pdf"}))
	require.NoError(t, repo.Insert(ctx, &BookRecord{Title: "The War of the Worlds", PdfURL: "https://archive.test/war.pdf"}))

	got, err := repo.Lookup(ctx, "war of the worlds")
	require.NoError(t, err)
	assert.Equal(t, "https://archive.test/war.pdf", got.PdfURL)
}

func TestBleveRepo_PersistsOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "books.bleve")

	repo, err := OpenBleve(path)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, &BookRecord{Title: "Treasure Island", PdfURL: "https://archive.test/ti.pdf"}))
	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.Close())

	reopened, err := OpenBleve(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Lookup(ctx, "treasure island")
	require.NoError(t, err)
	assert.Equal(t, "https://archive.test/ti.pdf", got.PdfURL)
}
