package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// entryColumns is the ordered list of columns selected in entry queries.
// Must match the scan order in scanEntry.
const entryColumns = `id, title, slug, content, published, created_at, updated_at`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Entry. Tags are left nil; callers attach them separately.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.Entry, error) {
	var e domain.Entry

	var (
		published int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&e.ID,
		&e.Title,
		&e.Slug,
		&e.Content,
		&published,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Published = published != 0

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// boolToInt converts a bool to its SQLite integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SaveEntry inserts or updates an entry and synchronizes its derived state
// in a single transaction: the entry row, the entry_tags associations
// (diffed against the stored set), the tag counts, and the search document.
// On any failure the whole write rolls back and prior state is untouched.
//
// The slug is written on insert only; updates never regenerate it.
// Returns store.ErrAlreadyExists when the slug collides with another entry.
func (s *Store) SaveEntry(ctx context.Context, entry *domain.Entry, tokens []string) error {
	if entry.ID == "" || entry.Slug == "" {
		return store.ErrInvalidInput.WithMessage("entry id and slug must be set")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (id, title, slug, content, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			content    = excluded.content,
			published  = excluded.published,
			updated_at = excluded.updated_at`,
		entry.ID,
		entry.Title,
		entry.Slug,
		entry.Content,
		boolToInt(entry.Published),
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists.WithMessage(
				fmt.Sprintf("slug %q is already in use", entry.Slug))
		}
		return fmt.Errorf("upsert entry: %w", err)
	}

	if err := syncEntryTags(ctx, tx, entry.ID, tokens); err != nil {
		return err
	}

	// Replace the search document wholesale; nothing is ever appended.
	text := domain.BuildSearchText(entry.Title, entry.Content, tokens)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO search_documents (entry_id, text)
		VALUES (?, ?)
		ON CONFLICT(entry_id) DO UPDATE SET text = excluded.text`,
		entry.ID, text)
	if err != nil {
		return fmt.Errorf("replace search document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	entry.Tags = tokens
	return nil
}

// syncEntryTags diffs the new token set against the entry's stored
// associations. Removed tokens are disassociated and decremented, added
// tokens associated and incremented, unchanged tokens left untouched.
// Tags whose count reaches zero are deleted.
func syncEntryTags(ctx context.Context, tx *sql.Tx, entryID string, tokens []string) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT token FROM entry_tags WHERE entry_id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("query entry_tags: %w", err)
	}

	prior := make(map[string]bool)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			rows.Close()
			return fmt.Errorf("scan entry_tag: %w", err)
		}
		prior[token] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("rows iteration: %w", err)
	}
	rows.Close()

	next := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		next[token] = true
	}

	// Removed: in prior, not in next.
	for token := range prior {
		if next[token] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM entry_tags WHERE entry_id = ? AND token = ?`,
			entryID, token); err != nil {
			return fmt.Errorf("delete entry_tag %q: %w", token, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE tags SET count = count - 1 WHERE token = ? AND count > 0`,
			token); err != nil {
			return fmt.Errorf("decrement tag %q: %w", token, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tags WHERE token = ? AND count = 0`, token); err != nil {
			return fmt.Errorf("cleanup tag %q: %w", token, err)
		}
	}

	// Added: in next, not in prior. The tag row must exist before the
	// association row to satisfy the foreign key.
	for _, token := range tokens {
		if prior[token] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tags (token, count) VALUES (?, 1)
			ON CONFLICT(token) DO UPDATE SET count = count + 1`,
			token); err != nil {
			return fmt.Errorf("increment tag %q: %w", token, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entry_tags (entry_id, token) VALUES (?, ?)`,
			entryID, token); err != nil {
			return fmt.Errorf("insert entry_tag %q: %w", token, err)
		}
	}

	return nil
}

// DeleteEntry removes an entry and all derived state in one transaction.
// Returns store.ErrNotFound for an unknown id.
func (s *Store) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Disassociating with an empty token set decrements every tag the
	// entry carried and cleans up zero-count rows.
	if err := syncEntryTags(ctx, tx, entryID, nil); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM search_documents WHERE entry_id = ?`, entryID); err != nil {
		return fmt.Errorf("delete search document: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(fmt.Sprintf("entry %q not found", entryID))
	}

	return tx.Commit()
}

// GetEntryByID retrieves an entry with its tags.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) GetEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, entryID)
	return s.finishEntry(ctx, row)
}

// GetEntryBySlug retrieves an entry by its slug with its tags.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) GetEntryBySlug(ctx context.Context, slug string) (*domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE slug = ?`, slug)
	return s.finishEntry(ctx, row)
}

// finishEntry scans a single-row result and attaches the entry's tags.
func (s *Store) finishEntry(ctx context.Context, row *sql.Row) (*domain.Entry, error) {
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	e.Tags, err = s.GetEntryTags(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEntries returns all entries ordered by creation time descending.
func (s *Store) ListEntries(ctx context.Context, opts store.ListOptions) ([]*domain.Entry, error) {
	return s.listEntries(ctx,
		`SELECT `+entryColumns+` FROM entries
		ORDER BY created_at DESC`+limitClause(opts), limitArgs(opts)...)
}

// ListPublic returns published entries ordered by creation time descending.
func (s *Store) ListPublic(ctx context.Context, opts store.ListOptions) ([]*domain.Entry, error) {
	return s.listEntries(ctx,
		`SELECT `+entryColumns+` FROM entries
		WHERE published = 1
		ORDER BY created_at DESC`+limitClause(opts), limitArgs(opts)...)
}

// ListDrafts returns unpublished entries ordered by creation time descending.
func (s *Store) ListDrafts(ctx context.Context, opts store.ListOptions) ([]*domain.Entry, error) {
	return s.listEntries(ctx,
		`SELECT `+entryColumns+` FROM entries
		WHERE published = 0
		ORDER BY created_at DESC`+limitClause(opts), limitArgs(opts)...)
}

// ListEntriesByTag returns published entries carrying the token, ordered by
// creation time descending.
func (s *Store) ListEntriesByTag(ctx context.Context, token string, opts store.ListOptions) ([]*domain.Entry, error) {
	args := append([]any{token}, limitArgs(opts)...)
	return s.listEntries(ctx,
		`SELECT `+prefixedEntryColumns+` FROM entries e
		JOIN entry_tags et ON et.entry_id = e.id
		WHERE et.token = ? AND e.published = 1
		ORDER BY e.created_at DESC`+limitClause(opts), args...)
}

// prefixedEntryColumns qualifies entryColumns for joined queries.
var prefixedEntryColumns = "e." + strings.ReplaceAll(entryColumns, ", ", ", e.")

func (s *Store) listEntries(ctx context.Context, query string, args ...any) ([]*domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		e.Tags, err = s.GetEntryTags(ctx, e.ID)
		if err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// limitClause renders the LIMIT/OFFSET suffix for a listing query.
// SQLite requires a LIMIT before OFFSET; -1 means unbounded.
func limitClause(opts store.ListOptions) string {
	switch {
	case opts.Limit > 0:
		return " LIMIT ? OFFSET ?"
	case opts.Offset > 0:
		return " LIMIT -1 OFFSET ?"
	default:
		return ""
	}
}

func limitArgs(opts store.ListOptions) []any {
	switch {
	case opts.Limit > 0:
		return []any{opts.Limit, opts.Offset}
	case opts.Offset > 0:
		return []any{opts.Offset}
	default:
		return nil
	}
}
