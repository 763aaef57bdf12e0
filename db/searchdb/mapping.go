package searchdb

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/meghashyamc/hotelfinder/services/search"
)

const (
	indexFieldID     = "id"
	indexFieldAll    = search.FieldAll
	indexFieldScore  = "score"
	indexFieldSource = "source"
)

// suggestAnalyzer keeps each suggestion entry as one lower-cased token so that prefix
// queries complete whole entries.
const suggestAnalyzer = "suggest"

func createIndexMapping() (mapping.IndexMapping, error) {

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false

	err := indexMapping.AddCustomAnalyzer(suggestAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}

	docMapping := bleve.NewDocumentMapping()
	docMapping.Dynamic = false

	idFieldMapping := keywordField()
	docMapping.AddFieldMappingsAt(indexFieldID, idFieldMapping)

	// Catch-all text searched by the key
	allFieldMapping := bleve.NewTextFieldMapping()
	allFieldMapping.Analyzer = standard.Name
	allFieldMapping.Store = false
	allFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(indexFieldAll, allFieldMapping)

	// Exact-match fields used by filters and facets
	for _, field := range []string{search.FieldBrand, search.FieldCity, search.FieldStarName} {
		docMapping.AddFieldMappingsAt(field, keywordField())
	}

	for _, field := range []string{search.FieldPrice, indexFieldScore} {
		numericFieldMapping := bleve.NewNumericFieldMapping()
		numericFieldMapping.Store = false
		numericFieldMapping.IncludeInAll = false
		docMapping.AddFieldMappingsAt(field, numericFieldMapping)
	}

	adFieldMapping := bleve.NewBooleanFieldMapping()
	adFieldMapping.Store = false
	adFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(search.FieldIsAD, adFieldMapping)

	locationFieldMapping := bleve.NewGeoPointFieldMapping()
	locationFieldMapping.Store = false
	locationFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(search.FieldLocation, locationFieldMapping)

	suggestionFieldMapping := bleve.NewTextFieldMapping()
	suggestionFieldMapping.Analyzer = suggestAnalyzer
	suggestionFieldMapping.Store = false
	suggestionFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(search.FieldSuggestion, suggestionFieldMapping)

	// Stored only, never searched
	sourceFieldMapping := bleve.NewTextFieldMapping()
	sourceFieldMapping.Index = false
	sourceFieldMapping.Store = true
	sourceFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(indexFieldSource, sourceFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping, nil
}

func keywordField() *mapping.FieldMapping {
	fieldMapping := bleve.NewTextFieldMapping()
	fieldMapping.Analyzer = keyword.Name
	fieldMapping.Store = false
	fieldMapping.IncludeInAll = false
	return fieldMapping
}
