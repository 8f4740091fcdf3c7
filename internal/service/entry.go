// Package service orchestrates the Inkwell core: entry persistence, tag
// index maintenance, and search-index synchronization.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/util"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// EntryService owns the write path for entries. Every save keeps the
// canonical entry row, the tag index, and the search index mutually
// consistent: the relational writes happen in one store transaction, and
// the ranked index is synchronized afterwards with compensation on failure.
type EntryService struct {
	store     store.EntryStore
	search    *SearchService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewEntryService creates a new entry service.
func NewEntryService(st store.EntryStore, search *SearchService, logger *slog.Logger) *EntryService {
	return &EntryService{
		store:     st,
		search:    search,
		validator: validation.New(),
		logger:    logger,
	}
}

// SaveEntryInput is the write request for Save. ID empty means create.
// Slug is optional: when empty on create it is derived from the title and
// fixed from then on. Tags is the raw, caller-supplied tag list.
type SaveEntryInput struct {
	ID        string   `json:"id"`
	Title     string   `json:"title" validate:"required"`
	Slug      string   `json:"slug"`
	Content   string   `json:"content" validate:"required"`
	Published bool     `json:"published"`
	Tags      []string `json:"tags"`
}

// Save validates and persists an entry together with its derived state.
//
// Returns a VALIDATION error for empty title/content or a title that
// normalizes to an empty slug, an ALREADY_EXISTS error when the slug
// collides with another entry, and an INDEX_CONSISTENCY error if the search
// index could not be synchronized — in which case the relational write has
// been rolled back and prior state is observable.
func (s *EntryService) Save(ctx context.Context, input SaveEntryInput) (*domain.Entry, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	tokens := util.NormalizeTagTokens(input.Tags)
	now := time.Now().UTC()

	var entry *domain.Entry
	var prev *domain.Entry

	if input.ID == "" {
		slug := input.Slug
		if slug == "" {
			slug = input.Title
		}
		slug = util.Slugify(slug)
		if slug == "" {
			return nil, errors.Validationf("title %q produces an empty slug", input.Title)
		}

		entryID, err := id.Generate("entry")
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "generate entry id")
		}

		entry = &domain.Entry{
			ID:        entryID,
			Title:     input.Title,
			Slug:      slug,
			Content:   input.Content,
			Published: input.Published,
			CreatedAt: now,
			UpdatedAt: now,
		}
	} else {
		existing, err := s.store.GetEntryByID(ctx, input.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("entry %q not found", input.ID)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "load entry")
		}

		// Keep a copy of the committed state for compensation.
		prevCopy := *existing
		prev = &prevCopy

		// Slug is fixed once set; title edits never regenerate it.
		existing.Title = input.Title
		existing.Content = input.Content
		existing.Published = input.Published
		existing.Touch()
		entry = existing
	}

	if err := s.store.SaveEntry(ctx, entry, tokens); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.AlreadyExistsf("slug %q is already in use", entry.Slug)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "save entry")
	}

	if err := s.search.IndexEntry(entry); err != nil {
		s.compensateSave(ctx, entry, prev)
		return nil, errors.Wrap(err, errors.CodeIndexConsistency,
			"search index update failed; entry write rolled back")
	}

	s.logger.Info("entry saved",
		"entry_id", entry.ID,
		"slug", entry.Slug,
		"published", entry.Published,
		"tags", len(tokens),
	)

	return entry, nil
}

// compensateSave undoes a committed relational write after the ranked index
// refused the matching document, restoring the pre-save state.
func (s *EntryService) compensateSave(ctx context.Context, entry, prev *domain.Entry) {
	if prev == nil {
		// Create: remove the new entry again.
		if err := s.store.DeleteEntry(ctx, entry.ID); err != nil {
			s.logger.Error("compensating delete failed; store and index diverged",
				"entry_id", entry.ID, "error", err)
		}
		return
	}

	// Update: restore the previous row, tag set, and search document.
	if err := s.store.SaveEntry(ctx, prev, prev.Tags); err != nil {
		s.logger.Error("compensating restore failed; store and index diverged",
			"entry_id", prev.ID, "error", err)
		return
	}
	if err := s.search.IndexEntry(prev); err != nil {
		s.logger.Warn("could not restore previous search document",
			"entry_id", prev.ID, "error", err)
	}
}

// Delete removes an entry and cascades to its associations, tag counts,
// search document, and ranked-index document.
func (s *EntryService) Delete(ctx context.Context, entryID string) error {
	entry, err := s.store.GetEntryByID(ctx, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return errors.NotFoundf("entry %q not found", entryID)
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "load entry")
	}

	if err := s.store.DeleteEntry(ctx, entryID); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "delete entry")
	}

	if err := s.search.RemoveEntry(entryID); err != nil {
		// Put the entry back so the relations and the index agree.
		if restoreErr := s.store.SaveEntry(ctx, entry, entry.Tags); restoreErr != nil {
			s.logger.Error("compensating restore failed; store and index diverged",
				"entry_id", entryID, "error", restoreErr)
		}
		return errors.Wrap(err, errors.CodeIndexConsistency,
			"search index delete failed; entry restored")
	}

	s.logger.Info("entry deleted", "entry_id", entryID, "slug", entry.Slug)
	return nil
}

// GetBySlug returns one entry for the detail view. Drafts are only visible
// when the caller has verified elevated access and passes includeDrafts.
func (s *EntryService) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Entry, error) {
	entry, err := s.store.GetEntryBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFoundf("entry %q not found", slug)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "load entry")
	}
	if !entry.Published && !includeDrafts {
		return nil, errors.NotFoundf("entry %q not found", slug)
	}
	return entry, nil
}

// Public returns published entries, newest first.
func (s *EntryService) Public(ctx context.Context, opts store.ListOptions) ([]*domain.Entry, error) {
	return s.store.ListPublic(ctx, opts)
}

// Drafts returns unpublished entries, newest first. The caller is
// responsible for verifying elevated access before exposing the result.
func (s *EntryService) Drafts(ctx context.Context, opts store.ListOptions) ([]*domain.Entry, error) {
	return s.store.ListDrafts(ctx, opts)
}
