// Package search provides ranked full-text search over entries using Bleve.
// The index is derived state: it is fed from the committed search_documents
// relation and can be rebuilt from it at any time.
package search

import (
	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// Document is the Bleve representation of one entry's searchable state.
// Text carries the denormalized title/content/tags concatenation; published
// and created_at are indexed so queries can filter drafts and break score
// ties deterministically.
type Document struct {
	EntryID   string `json:"id"`
	Text      string `json:"text"`
	Published bool   `json:"published"`
	CreatedAt int64  `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         d.EntryID,
		"text":       d.Text,
		"published":  d.Published,
		"created_at": d.CreatedAt,
	}
}

// EntryDocument builds the index document for an entry. The text is derived
// from the entry's canonical fields and tag set, matching what the store
// persists in search_documents.
func EntryDocument(e *domain.Entry) *Document {
	return &Document{
		EntryID:   e.ID,
		Text:      domain.BuildSearchText(e.Title, e.Content, e.Tags),
		Published: e.Published,
		CreatedAt: e.CreatedAt.UnixMilli(),
	}
}
