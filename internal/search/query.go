package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string // User's search query

	// IncludeDrafts lifts the published-only restriction. Off by default;
	// only callers that have verified elevated access should set it.
	IncludeDrafts bool

	// Pagination
	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults.
func DefaultParams(q string) Params {
	return Params{
		Query: q,
		Limit: 20,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is a single ranked match. Only the entry id and score come from the
// index; callers join the id back to the canonical store.
type Hit struct {
	EntryID string  `json:"entry_id"`
	Score   float64 `json:"score"`
}

// Search executes a ranked query over indexed entries.
//
// The query is tokenized on whitespace and empty tokens are discarded; if
// nothing remains the result is empty — never an error, never match-all.
// Results are ordered by score descending with created_at and id as
// deterministic tie-breakers. Drafts never match unless IncludeDrafts is set.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := &Result{
		Query: params.Query,
		Hits:  []Hit{},
	}

	words := strings.Fields(params.Query)
	if len(words) == 0 {
		return result, nil
	}

	searchQuery := buildEntryQuery(strings.Join(words, " "), params.IncludeDrafts)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, params.Offset, false)
	searchRequest.SortBy([]string{"-_score", "-created_at", "_id"})
	searchRequest.Fields = []string{"id"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result.Total = searchResult.Total
	result.TookMs = searchResult.Took.Milliseconds()
	for _, hit := range searchResult.Hits {
		result.Hits = append(result.Hits, Hit{
			EntryID: hit.ID,
			Score:   hit.Score,
		})
	}

	return result, nil
}

// buildEntryQuery constructs the Bleve query: every query word must match
// the text field (conjunction mirrors the original FTS semantics), and
// unless drafts are included, published must be true.
func buildEntryQuery(text string, includeDrafts bool) query.Query {
	textMatch := bleve.NewMatchQuery(text)
	textMatch.SetField("text")
	textMatch.SetOperator(query.MatchQueryOperatorAnd)

	if includeDrafts {
		return textMatch
	}

	publishedOnly := bleve.NewBoolFieldQuery(true)
	publishedOnly.SetField("published")

	return bleve.NewConjunctionQuery(textMatch, publishedOnly)
}
