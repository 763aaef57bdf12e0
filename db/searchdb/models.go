package searchdb

import (
	"encoding/json"
	"strings"

	"github.com/meghashyamc/hotelfinder/services/search"
)

// indexedDocument is the shape written to bleve. Keyword fields keep their exact text,
// "all" is the analyzed catch-all searched by the key, and "source" holds the document
// as returned to callers.
func indexedDocument(doc search.Document) (map[string]any, error) {
	doc.Distance = nil
	source, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	all := make([]string, 0, 4)
	for _, value := range []string{doc.Name, doc.Brand, doc.Business, doc.City} {
		if value != "" {
			all = append(all, value)
		}
	}

	indexed := map[string]any{
		indexFieldID:         doc.ID,
		indexFieldAll:        strings.Join(all, " "),
		search.FieldPrice:    float64(doc.Price),
		indexFieldScore:      float64(doc.Score),
		search.FieldIsAD:     doc.IsAD,
		search.FieldLocation: map[string]any{
			"lat": doc.Location.Lat,
			"lon": doc.Location.Lon,
		},
		search.FieldSuggestion: doc.Suggestion,
		indexFieldSource:       string(source),
	}

	// An empty keyword would be indexed as an "" term and surface as a facet value.
	for field, value := range map[string]string{
		search.FieldBrand:    doc.Brand,
		search.FieldCity:     doc.City,
		search.FieldStarName: doc.StarName,
	} {
		if strings.TrimSpace(value) != "" {
			indexed[field] = value
		}
	}

	return indexed, nil
}

// storedSource pulls the document JSON back out of a hit's stored fields.
func storedSource(fields map[string]any) ([]byte, bool) {
	source, ok := fields[indexFieldSource].(string)
	if !ok || source == "" {
		return nil, false
	}
	return []byte(source), true
}

// storedSuggestions returns the suggestion entries of a stored document in their original case.
func storedSuggestions(fields map[string]any) []string {
	source, ok := storedSource(fields)
	if !ok {
		return nil
	}
	var doc struct {
		Suggestion []string `json:"suggestion"`
	}
	if err := json.Unmarshal(source, &doc); err != nil {
		return nil
	}
	return doc.Suggestion
}
