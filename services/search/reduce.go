package search

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PageResult is one page of hotels plus the exact number of matching documents.
type PageResult struct {
	Total  uint64     `json:"total"`
	Hotels []Document `json:"hotels"`
}

// Reduce maps raw hits back into documents. In distance mode the first sort value of every
// hit is its distance from the anchor; a hit without one is a backend contract violation.
func Reduce(raw *RawResult, sort Sort) (*PageResult, error) {
	result := &PageResult{
		Total:  raw.Total,
		Hotels: make([]Document, 0, len(raw.Hits)),
	}

	for _, hit := range raw.Hits {
		var doc Document
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("could not decode hit %s: %w", hit.ID, err)
		}
		if doc.ID == "" {
			doc.ID = hit.ID
		}

		// A stored document never carries a distance of its own.
		doc.Distance = nil
		if sort.Mode == SortDistance {
			distance, err := sortValueAsDistance(hit)
			if err != nil {
				return nil, err
			}
			doc.Distance = &distance
		}

		result.Hotels = append(result.Hotels, doc)
	}

	return result, nil
}

func sortValueAsDistance(hit RawHit) (float64, error) {
	if len(hit.Sort) == 0 {
		return 0, fmt.Errorf("hit %s has no sort value for a distance ordered query", hit.ID)
	}
	distance, err := strconv.ParseFloat(hit.Sort[0], 64)
	if err != nil {
		return 0, fmt.Errorf("hit %s has a non-numeric distance %q: %w", hit.ID, hit.Sort[0], err)
	}
	return distance, nil
}
