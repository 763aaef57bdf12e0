package search

const DistanceUnitKilometers = "km"

// SortMode is decided once per request and carried through execution and reduction.
type SortMode int

const (
	SortRelevance SortMode = iota
	SortDistance
)

func (m SortMode) String() string {
	switch m {
	case SortRelevance:
		return "relevance"
	case SortDistance:
		return "distance"
	default:
		return "unknown"
	}
}

// Sort is the ordering of a bounded query. Anchor and Unit are only meaningful in
// SortDistance mode.
type Sort struct {
	Mode   SortMode
	Anchor GeoPoint
	Unit   string
}

func RelevanceSort() Sort {
	return Sort{Mode: SortRelevance}
}

func DistanceSort(anchor GeoPoint) Sort {
	return Sort{Mode: SortDistance, Anchor: anchor, Unit: DistanceUnitKilometers}
}

// BoundedQuery is a CompositeQuery plus everything the backend needs to run it once.
type BoundedQuery struct {
	Query      CompositeQuery
	From       int
	Size       int
	Sort       Sort
	Facets     []FacetRequest
	Suggestion *SuggestionRequest
}

// ApplyPagingAndSort bounds q to the requested page and picks the ordering:
// ascending distance from the location anchor when one is given, engine relevance otherwise.
func ApplyPagingAndSort(q CompositeQuery, p Params) (BoundedQuery, error) {
	if p.Page < 1 {
		return BoundedQuery{}, &ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if p.Size < 1 {
		return BoundedQuery{}, &ValidationError{Field: "size", Reason: "must be at least 1"}
	}

	bounded := BoundedQuery{
		Query: q,
		From:  (p.Page - 1) * p.Size,
		Size:  p.Size,
		Sort:  RelevanceSort(),
	}

	if p.Location != "" {
		anchor, err := ParseGeoPoint(p.Location)
		if err != nil {
			return BoundedQuery{}, &ValidationError{Field: "location", Reason: err.Error()}
		}
		bounded.Sort = DistanceSort(anchor)
	}

	return bounded, nil
}
