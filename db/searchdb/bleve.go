package searchdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/numeric"
	bsearch "github.com/blevesearch/bleve/v2/search"
	bleveindex "github.com/blevesearch/bleve_index_api"
	"github.com/meghashyamc/hotelfinder/config"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/services/search"
)

// IndexingBatchSize is the number of documents written per bleve batch.
const IndexingBatchSize = 100

// suggestionOversample sets the suggestion page size relative to the requested size, since
// one document may carry several entries and many documents share an entry.
const suggestionOversample = 3

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

// New opens the hotel index at the configured path, creating it when missing.
// An empty path keeps the index in memory.
func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	indexMapping, err := createIndexMapping()
	if err != nil {
		logger.Error("could not build index mapping", "err", err.Error())
		return nil, err
	}

	indexPath := cfg.GetIndexPath()
	var index bleve.Index
	if indexPath == "" {
		index, err = bleve.NewMemOnly(indexMapping)
	} else {
		index, err = bleve.New(indexPath, indexMapping)
		if err != nil {
			index, err = bleve.Open(indexPath)
		}
	}
	if err != nil {
		logger.Error("could not open index", "path", indexPath, "err", err.Error())
		return nil, err
	}

	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

// Execute runs a bounded query in one search call.
func (b *BleveDB) Execute(ctx context.Context, bounded search.BoundedQuery) (*search.RawResult, error) {
	if bounded.Suggestion != nil {
		return b.suggest(ctx, bounded.Suggestion)
	}

	op := search.OpSearch
	if len(bounded.Facets) > 0 {
		op = search.OpFilters
	}

	q, err := buildQuery(bounded.Query)
	if err != nil {
		return nil, &search.BackendError{Op: op, Err: err}
	}

	request := bleve.NewSearchRequestOptions(q, bounded.Size, bounded.From, false)
	request.Fields = []string{indexFieldSource}
	for _, facet := range bounded.Facets {
		request.AddFacet(facet.Name, bleve.NewFacetRequest(facet.Field, facet.Size))
	}

	if bounded.Sort.Mode == search.SortDistance {
		anchor := bounded.Sort.Anchor
		geoSort, err := bsearch.NewSortGeoDistance(search.FieldLocation, bounded.Sort.Unit, anchor.Lon, anchor.Lat, false)
		if err != nil {
			return nil, &search.BackendError{Op: op, Err: err}
		}
		request.SortByCustom(bsearch.SortOrder{geoSort})
	}

	result, err := b.index.SearchInContext(ctx, request)
	if err != nil {
		b.logger.Error("search failed", "op", op, "err", err.Error())
		return nil, &search.BackendError{Op: op, Err: err}
	}

	raw := &search.RawResult{
		Total: result.Total,
		Hits:  make([]search.RawHit, 0, len(result.Hits)),
	}

	for _, hit := range result.Hits {
		source, ok := storedSource(hit.Fields)
		if !ok {
			return nil, &search.BackendError{Op: op, Err: fmt.Errorf("hit %s has no stored source", hit.ID)}
		}
		rawHit := search.RawHit{ID: hit.ID, Source: source, Score: hit.Score}
		if bounded.Sort.Mode == search.SortDistance {
			rawHit.Sort = make([]string, 0, len(hit.Sort))
			for _, value := range hit.Sort {
				rawHit.Sort = append(rawHit.Sort, decodeSortValue(value))
			}
		}
		raw.Hits = append(raw.Hits, rawHit)
	}

	for _, facet := range bounded.Facets {
		raw.Facets = append(raw.Facets, rawFacet(facet.Name, result.Facets))
	}

	return raw, nil
}

// suggest pages through documents whose suggestion entries start with the prefix until
// Size distinct entries are collected. The field dictionary bounds how many distinct entries
// exist, so paging stops early once all of them have been seen.
func (b *BleveDB) suggest(ctx context.Context, suggestion *search.SuggestionRequest) (*search.RawResult, error) {
	want, err := b.countSuggestionTerms(suggestion.Field, strings.ToLower(suggestion.Prefix), suggestion.Size)
	if err != nil {
		b.logger.Error("could not read suggestion terms", "prefix", suggestion.Prefix, "err", err.Error())
		return nil, &search.BackendError{Op: search.OpSuggest, Err: err}
	}

	raw := &search.RawResult{}
	if want == 0 {
		return raw, nil
	}

	pageSize := suggestion.Size * suggestionOversample
	distinct := make(map[string]struct{}, want)
	for from := 0; ; from += pageSize {
		request := bleve.NewSearchRequestOptions(suggestionQuery(suggestion), pageSize, from, false)
		request.Fields = []string{indexFieldSource}
		request.SortBy([]string{"-_score", "_id"})

		result, err := b.index.SearchInContext(ctx, request)
		if err != nil {
			b.logger.Error("suggestion search failed", "prefix", suggestion.Prefix, "err", err.Error())
			return nil, &search.BackendError{Op: search.OpSuggest, Err: err}
		}
		raw.Total = result.Total

		for _, hit := range result.Hits {
			for _, entry := range storedSuggestions(hit.Fields) {
				if entry == "" || !search.MatchesPrefix(entry, suggestion.Prefix) {
					continue
				}
				key := strings.ToLower(entry)
				_, duplicate := distinct[key]
				distinct[key] = struct{}{}
				if duplicate && suggestion.SkipDuplicates {
					continue
				}
				raw.Suggestions = append(raw.Suggestions, search.RawSuggestion{Text: entry})
			}
		}

		if len(distinct) >= want || len(result.Hits) < pageSize || uint64(from+len(result.Hits)) >= result.Total {
			break
		}
	}

	return raw, nil
}

// countSuggestionTerms returns how many distinct suggestion terms start with prefix, capped at limit.
func (b *BleveDB) countSuggestionTerms(field string, prefix string, limit int) (int, error) {
	var dict bleveindex.FieldDict
	var err error
	if prefix == "" {
		dict, err = b.index.FieldDict(field)
	} else {
		dict, err = b.index.FieldDictPrefix(field, []byte(prefix))
	}
	if err != nil {
		return 0, err
	}
	defer dict.Close()

	count := 0
	for count < limit {
		entry, err := dict.Next()
		if err != nil {
			return 0, err
		}
		if entry == nil {
			break
		}
		if entry.Term == "" || entry.Count == 0 {
			continue
		}
		count++
	}
	return count, nil
}

// Upsert replaces the document stored under id.
func (b *BleveDB) Upsert(ctx context.Context, id string, doc search.Document) error {
	if err := ctx.Err(); err != nil {
		return &search.BackendError{Op: search.OpUpsert, Err: err}
	}

	doc.ID = id
	indexed, err := indexedDocument(doc)
	if err != nil {
		return &search.BackendError{Op: search.OpUpsert, Err: err}
	}

	if err := b.index.Index(id, indexed); err != nil {
		b.logger.Error("could not index document", "id", id, "err", err.Error())
		return &search.BackendError{Op: search.OpUpsert, Err: err}
	}
	return nil
}

// Delete removes the document stored under id. Deleting an absent id is not an error.
func (b *BleveDB) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return &search.BackendError{Op: search.OpDelete, Err: err}
	}

	if err := b.index.Delete(id); err != nil {
		b.logger.Error("could not delete document", "id", id, "err", err.Error())
		return &search.BackendError{Op: search.OpDelete, Err: err}
	}
	return nil
}

// BuildIndex writes documents in batches of IndexingBatchSize.
func (b *BleveDB) BuildIndex(ctx context.Context, documents []search.Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {
		if err := ctx.Err(); err != nil {
			return err
		}

		indexed, err := indexedDocument(doc)
		if err != nil {
			b.logger.Error("could not encode document", "id", doc.ID, "err", err.Error())
			return err
		}

		if err := batch.Index(doc.ID, indexed); err != nil {
			b.logger.Error("could not index document", "id", doc.ID, "err", err.Error())
			return err
		}

		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				b.logger.Error("could not write index batch", "err", err.Error())
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not write index batch", "err", err.Error())
			return err
		}
	}

	return nil
}

// DocumentIDs lists the ids of every indexed document.
func (b *BleveDB) DocumentIDs(ctx context.Context) ([]string, error) {
	count, err := b.index.DocCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	request := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	request.SortBy([]string{"_id"})

	result, err := b.index.SearchInContext(ctx, request)
	if err != nil {
		b.logger.Error("could not list documents", "err", err.Error())
		return nil, err
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}

func rawFacet(name string, facets bsearch.FacetResults) search.RawFacet {
	raw := search.RawFacet{Name: name}
	result, ok := facets[name]
	if !ok || result == nil || result.Terms == nil {
		return raw
	}
	for _, term := range result.Terms.Terms() {
		raw.Buckets = append(raw.Buckets, search.RawBucket{Value: term.Term, Count: term.Count})
	}
	return raw
}

// decodeSortValue turns a bleve sort key into a decimal string. Geo distance keys are
// prefix-coded int64 encodings of the float distance.
func decodeSortValue(value string) string {
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return value
	}
	i64, err := numeric.PrefixCoded(value).Int64()
	if err != nil {
		return value
	}
	return strconv.FormatFloat(numeric.Int64ToFloat64(i64), 'f', -1, 64)
}
