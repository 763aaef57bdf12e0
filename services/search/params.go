package search

import (
	"math"
	"strings"
)

// Accepted values of Params.SortBy. Only the presence of a location changes ordering;
// the other values are accepted for compatibility with the filter UI.
const (
	SortByDefault = "default"
	SortByScore   = "score"
	SortByPrice   = "price"
)

// Params is a partially specified hotel query. Zero values mean "not given".
type Params struct {
	Key      string
	Page     int
	Size     int
	SortBy   string
	City     string
	Brand    string
	StarName string
	MinPrice *float64
	MaxPrice *float64
	Location string
}

// Normalize returns a copy with surrounding whitespace removed from every text field,
// so that blank filters are treated exactly like absent ones.
func (p Params) Normalize() Params {
	p.Key = strings.TrimSpace(p.Key)
	p.SortBy = strings.TrimSpace(p.SortBy)
	p.City = strings.TrimSpace(p.City)
	p.Brand = strings.TrimSpace(p.Brand)
	p.StarName = strings.TrimSpace(p.StarName)
	p.Location = strings.TrimSpace(p.Location)
	return p
}

// Validate checks the caller contract for a page query.
func (p Params) Validate() error {
	if p.Page < 1 {
		return &ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if p.Size < 1 {
		return &ValidationError{Field: "size", Reason: "must be at least 1"}
	}
	return p.validateFilters()
}

// validateFilters checks everything except pagination; the facet flow ignores paging.
func (p Params) validateFilters() error {
	switch p.SortBy {
	case "", SortByDefault, SortByScore, SortByPrice:
	default:
		return &ValidationError{Field: "sortBy", Reason: "unknown sort " + p.SortBy}
	}

	if err := validatePrice("minPrice", p.MinPrice); err != nil {
		return err
	}
	if err := validatePrice("maxPrice", p.MaxPrice); err != nil {
		return err
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return &ValidationError{Field: "minPrice", Reason: "must not exceed maxPrice"}
	}

	if p.Location != "" {
		if _, err := ParseGeoPoint(p.Location); err != nil {
			return &ValidationError{Field: "location", Reason: err.Error()}
		}
	}

	return nil
}

func validatePrice(field string, bound *float64) error {
	if bound == nil {
		return nil
	}
	if math.IsNaN(*bound) || math.IsInf(*bound, 0) {
		return &ValidationError{Field: field, Reason: "not a number"}
	}
	if *bound < 0 {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return nil
}
