package search

// Index fields referenced by compiled queries.
const (
	FieldAll        = "all"
	FieldBrand      = "brand"
	FieldCity       = "city"
	FieldStarName   = "starName"
	FieldPrice      = "price"
	FieldIsAD       = "isAD"
	FieldLocation   = "location"
	FieldSuggestion = "suggestion"
)

const DefaultBoostWeight = 10.0

type RequiredKind int

const (
	MatchAll RequiredKind = iota
	MatchText
)

// Required is the scoring clause every document must satisfy.
type Required struct {
	Kind  RequiredKind
	Field string
	Text  string
}

type FilterKind int

const (
	FilterTerm FilterKind = iota
	FilterRange
)

// Filter is a score-neutral restriction. Range bounds are inclusive; a nil bound is open.
type Filter struct {
	Kind  FilterKind
	Field string
	Term  string
	Min   *float64
	Max   *float64
}

// Boost multiplies the base relevance of documents whose Field equals Value by Weight.
type Boost struct {
	Field  string
	Value  bool
	Weight float64
}

// CompositeQuery is the engine-agnostic form of a hotel query. Filters are AND-combined.
type CompositeQuery struct {
	Required Required
	Filters  []Filter
	Boost    *Boost
}

// WithoutBoost drops the scoring overlay. The overlay never changes which documents match,
// so the result is suitable wherever only membership matters.
func (q CompositeQuery) WithoutBoost() CompositeQuery {
	q.Boost = nil
	return q
}

// Compiler turns Params into a CompositeQuery. It holds only immutable configuration and is
// safe for concurrent use.
type Compiler struct {
	boostWeight float64
}

func NewCompiler(boostWeight float64) Compiler {
	if boostWeight <= 0 {
		boostWeight = DefaultBoostWeight
	}
	return Compiler{boostWeight: boostWeight}
}

// Compile is total: absent optional fields are omitted. Callers validate Params first.
func (c Compiler) Compile(p Params) CompositeQuery {
	p = p.Normalize()

	q := CompositeQuery{
		Required: Required{Kind: MatchAll},
	}
	if p.Key != "" {
		q.Required = Required{Kind: MatchText, Field: FieldAll, Text: p.Key}
	}

	for _, term := range []struct{ field, value string }{
		{FieldCity, p.City},
		{FieldBrand, p.Brand},
		{FieldStarName, p.StarName},
	} {
		if term.value == "" {
			continue
		}
		q.Filters = append(q.Filters, Filter{Kind: FilterTerm, Field: term.field, Term: term.value})
	}

	if p.MinPrice != nil {
		minPrice := *p.MinPrice
		q.Filters = append(q.Filters, Filter{Kind: FilterRange, Field: FieldPrice, Min: &minPrice})
	}
	if p.MaxPrice != nil {
		maxPrice := *p.MaxPrice
		q.Filters = append(q.Filters, Filter{Kind: FilterRange, Field: FieldPrice, Max: &maxPrice})
	}

	q.Boost = &Boost{Field: FieldIsAD, Value: true, Weight: c.boostWeight}

	return q
}
