package search

import "strings"

const DefaultSuggestionSize = 10

// SuggestionRequest asks for the top completions of Prefix over a dedicated completion field.
type SuggestionRequest struct {
	Prefix         string
	Field          string
	Size           int
	SkipDuplicates bool
}

func BuildSuggestionRequest(prefix string, size int) BoundedQuery {
	if size <= 0 {
		size = DefaultSuggestionSize
	}
	return BoundedQuery{
		Query: CompositeQuery{Required: Required{Kind: MatchAll}},
		Size:  size,
		Sort:  RelevanceSort(),
		Suggestion: &SuggestionRequest{
			Prefix:         strings.TrimSpace(prefix),
			Field:          FieldSuggestion,
			Size:           size,
			SkipDuplicates: true,
		},
	}
}

// ReduceSuggestions keeps option texts in backend order, drops case-insensitive duplicates
// and caps the list at size.
func ReduceSuggestions(raw []RawSuggestion, size int) []string {
	if size <= 0 {
		size = DefaultSuggestionSize
	}

	suggestions := make([]string, 0, min(len(raw), size))
	seen := make(map[string]struct{}, len(raw))
	for _, option := range raw {
		if len(suggestions) == size {
			break
		}
		if option.Text == "" {
			continue
		}
		key := strings.ToLower(option.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, option.Text)
	}

	return suggestions
}

// MatchesPrefix reports whether text starts with prefix, ignoring case.
// An empty prefix matches everything.
func MatchesPrefix(text string, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(text), strings.ToLower(prefix))
}
