package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/meghashyamc/hotelfinder/db/kvdb"
	"github.com/meghashyamc/hotelfinder/db/searchdb"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/services/catalog"
	"github.com/meghashyamc/hotelfinder/services/search"
)

// Indexer represents the search database operations needed for a full re-index.
type Indexer interface {
	BuildIndex(ctx context.Context, documents []search.Document) error
	DocumentIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// Catalog is the source of truth walked by a re-index.
type Catalog interface {
	Get(id string) (*catalog.Hotel, error)
	ForEach(fn func(catalog.Hotel) error) error
	Count() (int, error)
}

// StatusStore persists the progress of re-index requests.
type StatusStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
}

const (
	ProgressStatusStep1    = 10
	ProgressStatusStep2    = 20
	ProgressStatusComplete = 100
	ProgressStatusFailed   = -1

	maxIndexBuildingTime = 30 * time.Minute
)

var ErrInProgress = errors.New("indexing already in progress")

type Service struct {
	logger      logger.Logger
	indexer     Indexer
	catalog     Catalog
	statusStore StatusStore
	buildIndexC chan string
}

func New(ctx context.Context, logger logger.Logger, indexer Indexer, catalog Catalog, statusStore StatusStore) *Service {
	indexService := &Service{
		logger:      logger,
		indexer:     indexer,
		catalog:     catalog,
		statusStore: statusStore,
		buildIndexC: make(chan string, 1),
	}

	go indexService.build(ctx)
	return indexService
}

// Build queues an asynchronous re-index of the whole catalog. Re-indexes run one at a time
// and at most one waits behind the running one.
func (s *Service) Build(requestID string) error {

	s.setRequestStatus(requestID, 0)

	select {
	// This leads to s.Rebuild being called
	case s.buildIndexC <- requestID:
		return nil
	default:
		s.logger.Warn("request to index while another one is already queued", "request_id", requestID)
		s.setRequestStatus(requestID, ProgressStatusFailed)
		return ErrInProgress
	}
}

// GetStatus returns the progress of a re-index request in percent, or ProgressStatusFailed.
func (s *Service) GetStatus(requestID string) (int, error) {
	value, err := s.statusStore.Get(kvdb.RequestsBucket, requestID)
	if err != nil {
		return 0, fmt.Errorf("request not found: %w", err)
	}

	status, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid status value: %w", err)
	}

	return status, nil
}

func (s *Service) build(ctx context.Context) {

	for {
		select {
		case requestID := <-s.buildIndexC:
			indexTimeoutCtx, cancel := context.WithTimeout(ctx, maxIndexBuildingTime)
			if _, err := s.Rebuild(indexTimeoutCtx, requestID); err != nil {
				s.logger.Error("failed to rebuild index", "request_id", requestID, "err", err.Error())
			}
			cancel()
		case <-ctx.Done():
			s.logger.Info("index service stopped", "reason", ctx.Err())
			return
		}
	}
}

// Rebuild removes index documents whose record no longer exists, then writes every catalog
// record into the index. It returns the number of documents written.
func (s *Service) Rebuild(ctx context.Context, requestID string) (int, error) {
	total, err := s.catalog.Count()
	if err != nil {
		s.setRequestStatus(requestID, ProgressStatusFailed)
		return 0, fmt.Errorf("failed to count hotels: %w", err)
	}
	s.logger.Info("rebuilding index", "request_id", requestID, "hotels", total)

	// Update progress to ProgressStatusStep1% once the catalog size is known
	s.setRequestStatus(requestID, ProgressStatusStep1)

	if err := s.removeStaleDocuments(ctx); err != nil {
		s.setRequestStatus(requestID, ProgressStatusFailed)
		return 0, err
	}

	// Update progress to ProgressStatusStep2% after stale documents are gone
	s.setRequestStatus(requestID, ProgressStatusStep2)

	indexed, err := s.doBuildIndex(ctx, requestID, total)
	if err != nil {
		s.setRequestStatus(requestID, ProgressStatusFailed)
		return indexed, err
	}

	s.setRequestStatus(requestID, ProgressStatusComplete)
	s.logger.Info("finished rebuilding index", "request_id", requestID, "indexed", indexed)
	return indexed, nil
}

// doBuildIndex reads the catalog first and writes the index afterwards, since progress is
// recorded in the same bbolt file and must not be written inside its read transaction.
func (s *Service) doBuildIndex(ctx context.Context, requestID string, total int) (int, error) {
	documents := make([]search.Document, 0, total)
	err := s.catalog.ForEach(func(hotel catalog.Hotel) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		documents = append(documents, catalog.ToDocument(hotel))
		return nil
	})
	if err != nil {
		s.logger.Error("failed to read hotels", "request_id", requestID, "err", err.Error())
		return 0, fmt.Errorf("failed to read hotels: %w", err)
	}

	indexed := 0
	for start := 0; start < len(documents); start += searchdb.IndexingBatchSize {
		end := min(start+searchdb.IndexingBatchSize, len(documents))
		if err := s.indexer.BuildIndex(ctx, documents[start:end]); err != nil {
			s.logger.Error("failed to index hotels", "request_id", requestID, "err", err.Error())
			return indexed, fmt.Errorf("failed to index hotels: %w", err)
		}
		indexed = end
		s.setRequestStatus(requestID, getProgressPercentage(indexed, len(documents), ProgressStatusStep2, ProgressStatusComplete))
	}

	return indexed, nil
}

func (s *Service) removeStaleDocuments(ctx context.Context) error {
	ids, err := s.indexer.DocumentIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list indexed documents", "err", err.Error())
		return fmt.Errorf("failed to list indexed documents: %w", err)
	}

	removed := 0
	for _, id := range ids {
		_, err := s.catalog.Get(id)
		if err == nil {
			continue
		}
		if !errors.Is(err, kvdb.ErrNotFound) {
			return fmt.Errorf("failed to look up hotel %s: %w", id, err)
		}
		if err := s.indexer.Delete(ctx, id); err != nil {
			s.logger.Error("failed to delete stale document", "id", id, "err", err.Error())
			return fmt.Errorf("failed to delete stale document %s: %w", id, err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("removed stale documents from index", "count", removed)
	}
	return nil
}

func (s *Service) setRequestStatus(requestID string, status int) {
	if requestID == "" {
		return
	}
	if err := s.statusStore.Set(kvdb.RequestsBucket, requestID, strconv.Itoa(status)); err != nil {
		s.logger.Error("failed to update request status", "request_id", requestID, "progress", status, "err", err.Error())
	}
}

func getProgressPercentage(done int, total int, initial int, final int) int {
	if done == 0 || total == 0 {
		return initial
	}

	if done >= total {
		return final
	}

	// Calculate the percentage between initial and final
	progress := float64(done) / float64(total)
	result := float64(initial) + progress*float64(final-initial)

	return int(result)

}
