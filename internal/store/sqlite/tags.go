package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// GetEntryTags returns the normalized tag tokens associated with an entry,
// ordered by token for determinism.
func (s *Store) GetEntryTags(ctx context.Context, entryID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token FROM entry_tags WHERE entry_id = ? ORDER BY token ASC`,
		entryID)
	if err != nil {
		return nil, fmt.Errorf("query entry_tags: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan entry_tag: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return tokens, nil
}

// GetTag retrieves a tag with its live usage count.
// Returns store.ErrNotFound if the token has no live usages.
func (s *Store) GetTag(ctx context.Context, token string) (*domain.Tag, error) {
	var t domain.Tag
	err := s.db.QueryRowContext(ctx,
		`SELECT token, count FROM tags WHERE token = ?`, token).
		Scan(&t.Token, &t.Count)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTags returns all tags ordered by count descending, token ascending.
// The secondary order keeps tag-cloud output deterministic for equal counts.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token, count FROM tags ORDER BY count DESC, token ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.Token, &t.Count); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// EntryIDsForTag returns the ids of all entries carrying the token.
func (s *Store) EntryIDsForTag(ctx context.Context, token string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id FROM entry_tags WHERE token = ? ORDER BY entry_id ASC`,
		token)
	if err != nil {
		return nil, fmt.Errorf("query entry_tags: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan entry_id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return ids, nil
}
