package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func testDocument(id, title, content string, published bool, createdAt time.Time, tags ...string) *Document {
	return EntryDocument(&domain.Entry{
		ID:        id,
		Title:     title,
		Content:   content,
		Published: published,
		CreatedAt: createdAt,
		Tags:      tags,
	})
}

func TestSearch_EmptyQuery(t *testing.T) {
	idx := newTestIndex(t)

	doc := testDocument("entry-1", "Hello", "world", true, time.Now())
	require.NoError(t, idx.IndexDocument(doc))

	for _, q := range []string{"", "   ", "\t\n"} {
		result, err := idx.Search(context.Background(), DefaultParams(q))
		require.NoError(t, err)
		assert.Empty(t, result.Hits, "query %q should match nothing", q)
		assert.Zero(t, result.Total)
	}
}

func TestSearch_MatchesIndexedText(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-1", "First Post", "welcome to the blog", true, now, "announce")))
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-2", "Second Post", "more writing", true, now)))

	result, err := idx.Search(ctx, DefaultParams("first"))
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "entry-1", result.Hits[0].EntryID)
	assert.Greater(t, result.Hits[0].Score, 0.0)

	// Tag tokens are part of the searchable text.
	result, err = idx.Search(ctx, DefaultParams("announce"))
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "entry-1", result.Hits[0].EntryID)

	result, err = idx.Search(ctx, DefaultParams("nonexistent"))
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestSearch_AllWordsRequired(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-1", "Go and SQLite", "storage notes", true, now)))
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-2", "Go servers", "network notes", true, now)))

	result, err := idx.Search(ctx, DefaultParams("go sqlite"))
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "entry-1", result.Hits[0].EntryID)
}

func TestSearch_DraftsExcluded(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-pub", "Shared Topic", "published text", true, now)))
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-draft", "Shared Topic", "draft text", false, now)))

	result, err := idx.Search(ctx, DefaultParams("shared"))
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "entry-pub", result.Hits[0].EntryID)

	params := DefaultParams("shared")
	params.IncludeDrafts = true
	result, err = idx.Search(ctx, params)
	require.NoError(t, err)
	assert.Len(t, result.Hits, 2)
}

func TestSearch_ReindexReplacesDocument(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-1", "Original Title", "original body", true, now)))
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-1", "Revised Title", "revised body", true, now)))

	result, err := idx.Search(ctx, DefaultParams("original"))
	require.NoError(t, err)
	assert.Empty(t, result.Hits, "stale terms must not match after reindex")

	result, err = idx.Search(ctx, DefaultParams("revised"))
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearch_PublishFlip(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, idx.IndexDocument(
		testDocument("entry-1", "Draft Piece", "work in progress", false, now)))

	result, err := idx.Search(ctx, DefaultParams("draft"))
	require.NoError(t, err)
	assert.Empty(t, result.Hits)

	require.NoError(t, idx.IndexDocument(
		testDocument("entry-1", "Draft Piece", "work in progress", true, now)))

	result, err = idx.Search(ctx, DefaultParams("draft"))
	require.NoError(t, err)
	assert.Len(t, result.Hits, 1)
}

func TestDeleteDocument(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexDocument(
		testDocument("entry-1", "Removable", "soon gone", true, time.Now())))
	require.NoError(t, idx.DeleteDocument("entry-1"))

	result, err := idx.Search(ctx, DefaultParams("removable"))
	require.NoError(t, err)
	assert.Empty(t, result.Hits)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexDocuments_Batch(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	now := time.Now()
	docs := []*Document{
		testDocument("entry-1", "Batch One", "alpha", true, now),
		testDocument("entry-2", "Batch Two", "beta", true, now),
		testDocument("entry-3", "Batch Three", "gamma", true, now),
	}
	require.NoError(t, idx.IndexDocuments(docs))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	result, err := idx.Search(ctx, DefaultParams("batch"))
	require.NoError(t, err)
	assert.Len(t, result.Hits, 3)
}

func TestSearch_Pagination(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	docs := make([]*Document, 0, 5)
	for i, id := range []string{"entry-1", "entry-2", "entry-3", "entry-4", "entry-5"} {
		docs = append(docs, testDocument(id, "Common Word", "body", true,
			base.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, idx.IndexDocuments(docs))

	params := DefaultParams("common")
	params.Limit = 2
	first, err := idx.Search(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), first.Total)
	require.Len(t, first.Hits, 2)

	params.Offset = 2
	second, err := idx.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, second.Hits, 2)
	assert.NotEqual(t, first.Hits[0].EntryID, second.Hits[0].EntryID)
}

func TestNeedsReload(t *testing.T) {
	dir := t.TempDir()

	idx, err := NewIndex(Options{DataPath: dir})
	require.NoError(t, err)
	assert.True(t, idx.NeedsReload(), "freshly created index must request a reload")

	require.NoError(t, idx.IndexDocuments([]*Document{
		testDocument("entry-1", "Persisted", "body", true, time.Now()),
	}))
	assert.False(t, idx.NeedsReload())
	require.NoError(t, idx.Close())

	// Reopening an intact index keeps its documents and needs no reload.
	idx, err = NewIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer idx.Close()
	assert.False(t, idx.NeedsReload())

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestRebuild(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexDocument(
		testDocument("entry-1", "Before Rebuild", "body", true, time.Now())))

	require.NoError(t, idx.Rebuild())
	assert.True(t, idx.NeedsReload())

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	result, err := idx.Search(ctx, DefaultParams("before"))
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestEntryDocument_Text(t *testing.T) {
	e := &domain.Entry{
		ID:      "entry-1",
		Title:   "Hello, World!",
		Content: "first post",
		Tags:    []string{"announce", "meta"},
	}

	doc := EntryDocument(e)
	assert.Equal(t, "Hello, World!\nfirst post\nannounce,meta", doc.Text)
}
