package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for entry documents.
//
// The mapping is designed with these priorities:
//  1. Full-text search on the denormalized text with English stemming
//  2. Exact filtering on the published flag so drafts never surface
//  3. Numeric created_at for deterministic score tie-breaking
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Text - the only full-text field; not stored (entries are joined back
	// from the canonical store).
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName
	textFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	// ID - stored but not analyzed.
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	idFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Published - boolean filter field.
	publishedFieldMapping := bleve.NewBooleanFieldMapping()
	publishedFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("published", publishedFieldMapping)

	// Created at - numeric, sortable.
	createdFieldMapping := bleve.NewNumericFieldMapping()
	createdFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("created_at", createdFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping
}
