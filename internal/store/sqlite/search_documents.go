package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// GetSearchDocument returns the stored search document for an entry.
// Returns store.ErrNotFound if no document exists for the id.
func (s *Store) GetSearchDocument(ctx context.Context, entryID string) (*domain.SearchDocument, error) {
	var doc domain.SearchDocument
	err := s.db.QueryRowContext(ctx,
		`SELECT entry_id, text FROM search_documents WHERE entry_id = ?`,
		entryID).Scan(&doc.EntryID, &doc.Text)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListSearchDocuments returns every stored search document ordered by
// entry id. Used to rebuild the ranked index from committed state and to
// audit derived-state consistency.
func (s *Store) ListSearchDocuments(ctx context.Context) ([]*domain.SearchDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, text FROM search_documents ORDER BY entry_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*domain.SearchDocument{}
	for rows.Next() {
		var doc domain.SearchDocument
		if err := rows.Scan(&doc.EntryID, &doc.Text); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}
