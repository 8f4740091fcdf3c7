// Package store defines the persistence contract for the Inkwell core.
package store

import (
	"context"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// ListOptions controls pagination of listing queries.
// A zero Limit means no limit.
type ListOptions struct {
	Limit  int
	Offset int
}

// EntryStore is the canonical persistence interface for entries, tags, and
// search documents. Consumers should depend on this interface rather than
// the concrete sqlite implementation to facilitate testing with fakes.
//
// SaveEntry and DeleteEntry are transactional: the entry row, entry_tags
// associations, tag counts, and search document succeed or fail as one unit.
// No method of this interface may leave the four relations mutually
// inconsistent as an end condition.
type EntryStore interface {
	// SaveEntry inserts or updates an entry together with its derived state.
	// tokens is the entry's full normalized tag set; associations are diffed
	// against the stored set, so re-saving with an unchanged list is a no-op
	// for tag counts. Returns ErrAlreadyExists on a slug collision, with no
	// effect on any relation.
	SaveEntry(ctx context.Context, entry *domain.Entry, tokens []string) error

	// DeleteEntry removes an entry and cascades: associations deleted, tag
	// counts decremented, search document removed. Returns ErrNotFound for
	// an unknown id.
	DeleteEntry(ctx context.Context, entryID string) error

	GetEntryByID(ctx context.Context, entryID string) (*domain.Entry, error)
	GetEntryBySlug(ctx context.Context, slug string) (*domain.Entry, error)

	// ListEntries returns all entries ordered by creation time descending.
	ListEntries(ctx context.Context, opts ListOptions) ([]*domain.Entry, error)
	// ListPublic returns published entries ordered by creation time descending.
	ListPublic(ctx context.Context, opts ListOptions) ([]*domain.Entry, error)
	// ListDrafts returns unpublished entries ordered by creation time descending.
	ListDrafts(ctx context.Context, opts ListOptions) ([]*domain.Entry, error)

	// GetEntryTags returns the entry's normalized tag tokens.
	GetEntryTags(ctx context.Context, entryID string) ([]string, error)
	// GetTag returns one tag with its live usage count.
	GetTag(ctx context.Context, token string) (*domain.Tag, error)
	// ListTags returns all tags ordered by count descending, token ascending.
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	// EntryIDsForTag returns the ids of all entries carrying the token.
	EntryIDsForTag(ctx context.Context, token string) ([]string, error)
	// ListEntriesByTag returns published entries carrying the token, ordered
	// by creation time descending.
	ListEntriesByTag(ctx context.Context, token string, opts ListOptions) ([]*domain.Entry, error)

	// GetSearchDocument returns the stored search document for an entry.
	GetSearchDocument(ctx context.Context, entryID string) (*domain.SearchDocument, error)
	// ListSearchDocuments returns every stored search document, used to
	// rebuild the ranked index from committed state.
	ListSearchDocuments(ctx context.Context) ([]*domain.SearchDocument, error)

	Close() error
}
