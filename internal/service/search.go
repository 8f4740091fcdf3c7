package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// SearchService bridges the ranked index with the canonical store. The
// index holds no truth of its own: documents are fed from committed entry
// state and the whole index can be rebuilt from the store at any time.
type SearchService struct {
	index  *search.Index
	store  store.EntryStore
	logger *slog.Logger
}

// NewSearchService creates a new search service. If the underlying index
// was created empty on open (first run or mapping change), it is loaded
// from the committed search documents before returning.
func NewSearchService(ctx context.Context, index *search.Index, st store.EntryStore, logger *slog.Logger) (*SearchService, error) {
	s := &SearchService{
		index:  index,
		store:  st,
		logger: logger,
	}

	if index.NeedsReload() {
		if err := s.reload(ctx); err != nil {
			return nil, fmt.Errorf("load search index: %w", err)
		}
	}

	return s, nil
}

// Search runs a ranked query and joins the hits back to their entries.
// A blank query yields an empty result. Only published entries surface;
// the index filters drafts and the store join re-checks as a backstop
// against transient index drift.
func (s *SearchService) Search(ctx context.Context, query string, opts store.ListOptions) ([]*domain.ScoredEntry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	res, err := s.index.Search(ctx, search.Params{
		Query:  query,
		Limit:  limit,
		Offset: opts.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "search")
	}

	results := make([]*domain.ScoredEntry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		entry, err := s.store.GetEntryByID(ctx, hit.EntryID)
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("search hit without entry row, skipping",
				"entry_id", hit.EntryID)
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "load search hit")
		}
		if !entry.Published {
			continue
		}
		results = append(results, &domain.ScoredEntry{
			Entry: entry,
			Score: hit.Score,
		})
	}

	return results, nil
}

// IndexEntry replaces the ranked-index document for an entry.
func (s *SearchService) IndexEntry(entry *domain.Entry) error {
	if err := s.index.IndexDocument(search.EntryDocument(entry)); err != nil {
		return fmt.Errorf("index entry %s: %w", entry.ID, err)
	}
	s.logger.Debug("indexed entry", "entry_id", entry.ID, "slug", entry.Slug)
	return nil
}

// RemoveEntry deletes an entry's document from the ranked index.
func (s *SearchService) RemoveEntry(entryID string) error {
	return s.index.DeleteDocument(entryID)
}

// Rebuild drops the ranked index and re-feeds it from committed state.
func (s *SearchService) Rebuild(ctx context.Context) error {
	if err := s.index.Rebuild(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "rebuild index")
	}
	if err := s.reload(ctx); err != nil {
		return errors.Wrap(err, errors.CodeIndexConsistency, "reload index")
	}
	return nil
}

// DocumentCount returns the number of documents in the ranked index.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// reload feeds every entry into the ranked index in batches.
func (s *SearchService) reload(ctx context.Context) error {
	entries, err := s.store.ListEntries(ctx, store.ListOptions{})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	docs := make([]*search.Document, len(entries))
	for i, e := range entries {
		docs[i] = search.EntryDocument(e)
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("search index loaded", "documents", len(docs))
	return nil
}
