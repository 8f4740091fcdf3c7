package service

import (
	"context"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/util"
)

// TagService serves the tag index: usage counts for the tag cloud and
// tag-filtered entry listings. All lookups normalize their input first, so
// matching is case- and punctuation-insensitive.
type TagService struct {
	store  store.EntryStore
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st store.EntryStore, logger *slog.Logger) *TagService {
	return &TagService{
		store:  st,
		logger: logger,
	}
}

// AllTags returns every tag with its live usage count, ordered by count
// descending for tag-cloud display.
func (s *TagService) AllTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// GetTag returns one tag by raw input.
func (s *TagService) GetTag(ctx context.Context, raw string) (*domain.Tag, error) {
	token, err := s.normalize(raw)
	if err != nil {
		return nil, err
	}

	tag, err := s.store.GetTag(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.NotFoundf("tag %q not found", token)
	}
	return tag, err
}

// EntryIDsForTag returns the ids of all entries carrying the tag,
// drafts included.
func (s *TagService) EntryIDsForTag(ctx context.Context, raw string) ([]string, error) {
	token, err := s.normalize(raw)
	if err != nil {
		return nil, err
	}
	return s.store.EntryIDsForTag(ctx, token)
}

// EntriesForTag returns published entries carrying the tag, newest first.
func (s *TagService) EntriesForTag(ctx context.Context, raw string, opts store.ListOptions) ([]*domain.Entry, error) {
	token, err := s.normalize(raw)
	if err != nil {
		return nil, err
	}
	return s.store.ListEntriesByTag(ctx, token, opts)
}

func (s *TagService) normalize(raw string) (string, error) {
	token := util.NormalizeTagToken(raw)
	if token == "" {
		return "", errors.Validationf("tag %q is empty after normalization", raw)
	}
	return token, nil
}
