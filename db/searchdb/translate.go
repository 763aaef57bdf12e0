package searchdb

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/hotelfinder/services/search"
)

// filterBoost keeps filters out of the relevance score.
const filterBoost = 0.0

// buildQuery translates a CompositeQuery into a bleve query.
//
// bleve has no function score, so the boost overlay is expressed as two mutually exclusive
// branches: documents matching the boost term score through the required clause boosted by
// Weight, all others through the unboosted clause. Filters and the branch selectors carry
// no weight, so a promoted document scores exactly Weight times its base relevance.
func buildQuery(q search.CompositeQuery) (query.Query, error) {
	if q.Boost == nil {
		required, err := requiredQuery(q.Required, 1)
		if err != nil {
			return nil, err
		}
		return conjunction(required, q.Filters, nil)
	}

	promoted, err := requiredQuery(q.Required, q.Boost.Weight)
	if err != nil {
		return nil, err
	}
	promotedBranch, err := conjunction(promoted, q.Filters, selector(q.Boost.Field, q.Boost.Value))
	if err != nil {
		return nil, err
	}

	regular, err := requiredQuery(q.Required, 1)
	if err != nil {
		return nil, err
	}
	regularBranch, err := conjunction(regular, q.Filters, selector(q.Boost.Field, !q.Boost.Value))
	if err != nil {
		return nil, err
	}

	return bleve.NewDisjunctionQuery(promotedBranch, regularBranch), nil
}

func requiredQuery(required search.Required, boost float64) (query.Query, error) {
	switch required.Kind {
	case search.MatchAll:
		matchAll := bleve.NewMatchAllQuery()
		matchAll.SetBoost(boost)
		return matchAll, nil
	case search.MatchText:
		match := bleve.NewMatchQuery(required.Text)
		match.SetField(required.Field)
		match.SetBoost(boost)
		return match, nil
	default:
		return nil, fmt.Errorf("unsupported required clause kind %d", required.Kind)
	}
}

func conjunction(required query.Query, filters []search.Filter, extra query.Query) (query.Query, error) {
	if len(filters) == 0 && extra == nil {
		return required, nil
	}

	conjunct := bleve.NewConjunctionQuery(required)
	for _, filter := range filters {
		filterQuery, err := filterQuery(filter)
		if err != nil {
			return nil, err
		}
		conjunct.AddQuery(filterQuery)
	}
	if extra != nil {
		conjunct.AddQuery(extra)
	}

	return conjunct, nil
}

func filterQuery(filter search.Filter) (query.Query, error) {
	switch filter.Kind {
	case search.FilterTerm:
		term := bleve.NewTermQuery(filter.Term)
		term.SetField(filter.Field)
		term.SetBoost(filterBoost)
		return term, nil
	case search.FilterRange:
		inclusive := true
		numericRange := bleve.NewNumericRangeInclusiveQuery(filter.Min, filter.Max, &inclusive, &inclusive)
		numericRange.SetField(filter.Field)
		numericRange.SetBoost(filterBoost)
		return numericRange, nil
	default:
		return nil, fmt.Errorf("unsupported filter kind %d", filter.Kind)
	}
}

func selector(field string, value bool) query.Query {
	boolQuery := bleve.NewBoolFieldQuery(value)
	boolQuery.SetField(field)
	boolQuery.SetBoost(filterBoost)
	return boolQuery
}

// suggestionQuery matches documents with at least one suggestion entry starting with prefix.
func suggestionQuery(request *search.SuggestionRequest) query.Query {
	prefix := strings.ToLower(request.Prefix)
	if prefix == "" {
		return bleve.NewMatchAllQuery()
	}
	prefixQuery := bleve.NewPrefixQuery(prefix)
	prefixQuery.SetField(request.Field)
	return prefixQuery
}
