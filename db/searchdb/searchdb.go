package searchdb

import (
	"context"

	"github.com/meghashyamc/hotelfinder/services/search"
)

// DB is the hotel index. It answers bounded queries and accepts document writes.
type DB interface {
	search.Backend
	search.Indexer
	BuildIndex(ctx context.Context, documents []search.Document) error
	DocumentIDs(ctx context.Context) ([]string, error)
	GetDocCount() (uint64, error)
	Close() error
}
