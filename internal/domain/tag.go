package domain

import "strings"

// Tag is a normalized tag token with its live usage count.
// The token is the source of truth for tag identity; clients transform it
// for display: "slow-burn" → "Slow Burn". Count always equals the number of
// entries currently carrying the token and is never negative.
type Tag struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// EntryTag represents one tag assignment of one entry.
// Identity is the (entry id, token) pair.
type EntryTag struct {
	EntryID string `json:"entry_id"`
	Token   string `json:"token"`
}

// SearchDocument is the denormalized searchable text for one entry,
// rebuilt from scratch on every save. It holds no independent truth:
// exactly one document exists per entry and its text is always derivable
// from the entry row and its tag set.
type SearchDocument struct {
	EntryID string `json:"entry_id"`
	Text    string `json:"text"`
}

// BuildSearchText derives the searchable text for an entry: the title, the
// raw content, and the comma-joined tag tokens, newline separated. Rebuilt
// from scratch on every save so repeated saves never accumulate stale text.
func BuildSearchText(title, content string, tokens []string) string {
	return title + "\n" + content + "\n" + strings.Join(tokens, ",")
}

// NewSearchDocument builds the search document for an entry from its
// canonical fields and tag set.
func NewSearchDocument(e *Entry) *SearchDocument {
	return &SearchDocument{
		EntryID: e.ID,
		Text:    BuildSearchText(e.Title, e.Content, e.Tags),
	}
}
