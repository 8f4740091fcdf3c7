// Package domain defines the core entities of the publishing system.
package domain

import "time"

// Entry is the canonical record for a single piece of writing.
// The slug is derived from the title on first save and fixed afterwards:
// later title edits never regenerate it, so published URLs stay stable.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"` // Unique, word characters and hyphens only
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Tags holds the entry's normalized tag tokens. Populated by the store
	// on read; persisted through the entry_tags relation, not this struct.
	Tags []string `json:"tags,omitempty"`
}

// Touch updates the UpdatedAt timestamp.
func (e *Entry) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// ScoredEntry pairs an entry with its search relevance score.
// Higher score means more relevant.
type ScoredEntry struct {
	Entry *Entry  `json:"entry"`
	Score float64 `json:"score"`
}
