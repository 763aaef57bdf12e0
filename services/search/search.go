package search

import (
	"context"
	"errors"
	"time"

	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/metrics"
)

type Options struct {
	BoostWeight    float64
	FacetSize      int
	SuggestionSize int
}

// Service compiles hotel queries, runs them against the backend and reduces the responses.
// It keeps no per-request state; concurrent calls are independent.
type Service struct {
	logger         logger.Logger
	backend        Backend
	metrics        *metrics.SearchMetrics
	compiler       Compiler
	facetSize      int
	suggestionSize int
}

func New(logger logger.Logger, backend Backend, metrics *metrics.SearchMetrics, opts Options) *Service {
	if opts.FacetSize <= 0 {
		opts.FacetSize = DefaultFacetSize
	}
	if opts.SuggestionSize <= 0 {
		opts.SuggestionSize = DefaultSuggestionSize
	}

	return &Service{
		logger:         logger,
		backend:        backend,
		metrics:        metrics,
		compiler:       NewCompiler(opts.BoostWeight),
		facetSize:      opts.FacetSize,
		suggestionSize: opts.SuggestionSize,
	}
}

// Search returns one page of hotels, by relevance or by distance from params.Location.
func (s *Service) Search(ctx context.Context, params Params) (*PageResult, error) {
	defer s.observe(OpSearch, time.Now())

	params = params.Normalize()
	if err := params.Validate(); err != nil {
		s.fail(OpSearch, err)
		return nil, err
	}

	bounded, err := ApplyPagingAndSort(s.compiler.Compile(params), params)
	if err != nil {
		s.fail(OpSearch, err)
		return nil, err
	}

	raw, err := s.execute(ctx, OpSearch, bounded)
	if err != nil {
		return nil, err
	}

	result, err := Reduce(raw, bounded.Sort)
	if err != nil {
		s.logger.Error("could not reduce search response", "sort", bounded.Sort.Mode.String(), "err", err.Error())
		s.fail(OpSearch, err)
		return nil, err
	}

	s.metrics.RecordResults(OpSearch, len(result.Hotels))
	return result, nil
}

// Filters returns the brand, city and starName values present in the documents matching
// params. Pagination fields are ignored.
func (s *Service) Filters(ctx context.Context, params Params) (FacetMap, error) {
	defer s.observe(OpFilters, time.Now())

	params = params.Normalize()
	if err := params.validateFilters(); err != nil {
		s.fail(OpFilters, err)
		return nil, err
	}

	bounded := ApplyFacets(s.compiler.Compile(params), s.facetSize)

	raw, err := s.execute(ctx, OpFilters, bounded)
	if err != nil {
		return nil, err
	}

	facets := ReduceFacets(raw.Facets, bounded.Facets)
	s.metrics.RecordResults(OpFilters, len(facets))
	return facets, nil
}

// Suggest returns up to the configured number of completions for prefix.
func (s *Service) Suggest(ctx context.Context, prefix string) ([]string, error) {
	defer s.observe(OpSuggest, time.Now())

	bounded := BuildSuggestionRequest(prefix, s.suggestionSize)

	raw, err := s.execute(ctx, OpSuggest, bounded)
	if err != nil {
		return nil, err
	}

	suggestions := ReduceSuggestions(raw.Suggestions, bounded.Suggestion.Size)
	s.metrics.RecordResults(OpSuggest, len(suggestions))
	return suggestions, nil
}

func (s *Service) execute(ctx context.Context, op string, bounded BoundedQuery) (*RawResult, error) {
	raw, err := s.backend.Execute(ctx, bounded)
	if err != nil {
		s.logger.Error("search backend call failed", "op", op, "err", err.Error())
		var backendErr *BackendError
		if !errors.As(err, &backendErr) {
			err = &BackendError{Op: op, Err: err}
		}
		s.fail(op, err)
		return nil, err
	}
	return raw, nil
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.RecordRequest(op)
	s.metrics.RecordDuration(op, time.Since(start).Seconds())
}

func (s *Service) fail(op string, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		s.logger.Warn("rejected search request", "op", op, "err", err.Error())
		s.metrics.RecordError(op, metrics.ErrorTypeValidation)
	case errors.Is(err, ErrBackend):
		s.metrics.RecordError(op, metrics.ErrorTypeBackend)
	default:
		s.metrics.RecordError(op, metrics.ErrorTypeReduce)
	}
}
