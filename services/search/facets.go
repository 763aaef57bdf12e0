package search

const DefaultFacetSize = 10

// Facet names exposed to callers.
const (
	FacetBrand    = "brand"
	FacetCity     = "city"
	FacetStarName = "starName"
)

// FacetMap holds the distinct values of each facet, most frequent first.
type FacetMap map[string][]string

type FacetRequest struct {
	Name  string
	Field string
	Size  int
}

// FacetRequests returns the fixed brand/city/starName grouping requests.
func FacetRequests(size int) []FacetRequest {
	if size <= 0 {
		size = DefaultFacetSize
	}
	return []FacetRequest{
		{Name: FacetBrand, Field: FieldBrand, Size: size},
		{Name: FacetCity, Field: FieldCity, Size: size},
		{Name: FacetStarName, Field: FieldStarName, Size: size},
	}
}

// ApplyFacets turns a compiled query into an aggregation-only request: no documents,
// no boost overlay, one grouping per facet.
func ApplyFacets(q CompositeQuery, size int) BoundedQuery {
	return BoundedQuery{
		Query:  q.WithoutBoost(),
		Size:   0,
		Sort:   RelevanceSort(),
		Facets: FacetRequests(size),
	}
}

// ReduceFacets keeps non-empty bucket values in backend order and drops the counts. Every requested
// facet is present in the result, empty when the backend returned no buckets for it.
func ReduceFacets(raw []RawFacet, requests []FacetRequest) FacetMap {
	byName := make(map[string]RawFacet, len(raw))
	for _, facet := range raw {
		byName[facet.Name] = facet
	}

	facets := make(FacetMap, len(requests))
	for _, request := range requests {
		buckets := byName[request.Name].Buckets
		values := make([]string, 0, min(len(buckets), request.Size))
		seen := make(map[string]struct{}, len(buckets))
		for _, bucket := range buckets {
			if len(values) == request.Size {
				break
			}
			if bucket.Value == "" {
				continue
			}
			if _, ok := seen[bucket.Value]; ok {
				continue
			}
			seen[bucket.Value] = struct{}{}
			values = append(values, bucket.Value)
		}
		facets[request.Name] = values
	}

	return facets
}
