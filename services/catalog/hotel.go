package catalog

import (
	"strings"

	"github.com/meghashyamc/hotelfinder/services/search"
)

// Hotel is the catalog record owned by the admin side. The search index holds a
// projection of it, see ToDocument.
type Hotel struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Price     int     `json:"price"`
	Score     int     `json:"score"`
	Brand     string  `json:"brand"`
	City      string  `json:"city"`
	StarName  string  `json:"starName"`
	Business  string  `json:"business"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Pic       string  `json:"pic"`
	IsAD      bool    `json:"isAD"`
}

// businessSeparator joins several business districts in one Business value.
const businessSeparator = "/"

// ToDocument projects a catalog record into the indexed hotel document.
func ToDocument(h Hotel) search.Document {
	return search.Document{
		ID:         h.ID,
		Name:       h.Name,
		Address:    h.Address,
		Price:      h.Price,
		Score:      h.Score,
		Brand:      h.Brand,
		City:       h.City,
		StarName:   h.StarName,
		Business:   h.Business,
		Location:   search.GeoPoint{Lat: h.Latitude, Lon: h.Longitude},
		Pic:        h.Pic,
		IsAD:       h.IsAD,
		Suggestion: suggestionsFor(h),
	}
}

// suggestionsFor completes on the brand and on every business district.
func suggestionsFor(h Hotel) []string {
	candidates := []string{h.Brand}
	if strings.Contains(h.Business, businessSeparator) {
		candidates = append(candidates, strings.Split(h.Business, businessSeparator)...)
	} else {
		candidates = append(candidates, h.Business)
	}

	suggestions := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			suggestions = append(suggestions, candidate)
		}
	}
	return suggestions
}
