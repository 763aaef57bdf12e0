package search

import (
	"context"
	"errors"
	"testing"

	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/metrics"
	"github.com/stretchr/testify/require"
)

// fakeBackend records the last query and answers with a canned result.
type fakeBackend struct {
	result *RawResult
	err    error
	calls  int
	last   BoundedQuery
}

func (b *fakeBackend) Execute(ctx context.Context, query BoundedQuery) (*RawResult, error) {
	b.calls++
	b.last = query
	if b.err != nil {
		return nil, b.err
	}
	return b.result, nil
}

func newTestService(backend Backend) *Service {
	return New(logger.New("error"), backend, metrics.NewSearchMetrics("search_test"), Options{})
}

func TestServiceSearch(t *testing.T) {
	assert := require.New(t)
	backend := &fakeBackend{result: &RawResult{
		Total: 2,
		Hits: []RawHit{
			{ID: "2", Source: []byte(`{"id":"2","name":"Jingan Garden Hotel","isAD":true}`)},
			{ID: "1", Source: []byte(`{"id":"1","name":"Bund Riverside Hotel"}`)},
		},
	}}

	result, err := newTestService(backend).Search(context.Background(), Params{
		City: "Shanghai", MinPrice: floatPtr(100), MaxPrice: floatPtr(300), Page: 1, Size: 2,
	})
	assert.NoError(err)
	assert.Equal(uint64(2), result.Total)
	assert.Equal("2", result.Hotels[0].ID)
	assert.Nil(result.Hotels[0].Distance)

	assert.Equal(1, backend.calls)
	assert.Equal(0, backend.last.From)
	assert.Equal(2, backend.last.Size)
	assert.Equal(SortRelevance, backend.last.Sort.Mode)
	assert.Len(backend.last.Query.Filters, 3)
	assert.NotNil(backend.last.Query.Boost)
}

func TestServiceSearchRejectsBeforeBackend(t *testing.T) {
	assert := require.New(t)
	backend := &fakeBackend{result: &RawResult{}}

	_, err := newTestService(backend).Search(context.Background(), Params{Page: 0, Size: 10})
	assert.ErrorIs(err, ErrValidation)
	assert.Zero(backend.calls)
}

func TestServiceSearchBackendFailure(t *testing.T) {
	assert := require.New(t)
	backend := &fakeBackend{err: errors.New("connection refused")}

	_, err := newTestService(backend).Search(context.Background(), Params{Page: 1, Size: 10})
	assert.ErrorIs(err, ErrBackend)

	var backendErr *BackendError
	assert.ErrorAs(err, &backendErr)
	assert.Equal(OpSearch, backendErr.Op)
	assert.Equal(1, backend.calls, "backend failures are not retried")
}

func TestServiceSearchDistanceContract(t *testing.T) {
	assert := require.New(t)
	backend := &fakeBackend{result: &RawResult{
		Total: 1,
		Hits:  []RawHit{{ID: "1", Source: []byte(`{"id":"1"}`)}},
	}}

	_, err := newTestService(backend).Search(context.Background(), Params{Page: 1, Size: 10, Location: "31,121"})
	assert.Error(err)
	assert.NotErrorIs(err, ErrValidation)
	assert.NotErrorIs(err, ErrBackend)
}

func TestServiceFilters(t *testing.T) {
	assert := require.New(t)
	backend := &fakeBackend{result: &RawResult{
		Facets: []RawFacet{{Name: FacetBrand, Buckets: []RawBucket{{Value: "Hilton", Count: 2}}}},
	}}

	facets, err := newTestService(backend).Filters(context.Background(), Params{City: "Shanghai"})
	assert.NoError(err)
	assert.Equal(FacetMap{FacetBrand: {"Hilton"}, FacetCity: {}, FacetStarName: {}}, facets)
	assert.Equal(0, backend.last.Size)
	assert.Nil(backend.last.Query.Boost)
	assert.Len(backend.last.Facets, 3)
}

func TestServiceFiltersIgnoresPaging(t *testing.T) {
	assert := require.New(t)
	backend := &fakeBackend{result: &RawResult{}}

	_, err := newTestService(backend).Filters(context.Background(), Params{Page: 0, Size: 0})
	assert.NoError(err)

	_, err = newTestService(backend).Filters(context.Background(), Params{Location: "100,0"})
	assert.ErrorIs(err, ErrValidation)
}

func TestServiceSuggest(t *testing.T) {
	assert := require.New(t)
	backend := &fakeBackend{result: &RawResult{
		Suggestions: []RawSuggestion{{Text: "hotel one"}, {Text: "harbor inn"}, {Text: "Hotel One"}},
	}}

	suggestions, err := newTestService(backend).Suggest(context.Background(), "h")
	assert.NoError(err)
	assert.Equal([]string{"hotel one", "harbor inn"}, suggestions)
	assert.Equal("h", backend.last.Suggestion.Prefix)
	assert.Equal(DefaultSuggestionSize, backend.last.Suggestion.Size)
}

func TestServiceSuggestBackendFailure(t *testing.T) {
	assert := require.New(t)
	backendErr := &BackendError{Op: OpSuggest, Err: context.Canceled}
	backend := &fakeBackend{err: backendErr}

	_, err := newTestService(backend).Suggest(context.Background(), "h")
	assert.ErrorIs(err, ErrBackend)
	assert.ErrorIs(err, context.Canceled)
}
