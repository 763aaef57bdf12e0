package search

import "context"

// Backend runs a bounded query against the document index in a single round-trip.
type Backend interface {
	Execute(ctx context.Context, query BoundedQuery) (*RawResult, error)
}

// Indexer writes documents into the index. Both operations are idempotent per id.
type Indexer interface {
	Upsert(ctx context.Context, id string, doc Document) error
	Delete(ctx context.Context, id string) error
}

// RawResult is what the backend reports for one executed query, before reduction.
type RawResult struct {
	Total       uint64
	Hits        []RawHit
	Facets      []RawFacet
	Suggestions []RawSuggestion
}

// RawHit carries the stored document source and the engine-computed values that only
// exist in the response.
type RawHit struct {
	ID     string
	Source []byte
	Score  float64
	Sort   []string
}

type RawFacet struct {
	Name    string
	Buckets []RawBucket
}

type RawBucket struct {
	Value string
	Count int
}

type RawSuggestion struct {
	Text string
}
