package listener

import (
	"context"
	"errors"
	"fmt"

	"github.com/meghashyamc/hotelfinder/db/kvdb"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/metrics"
	"github.com/meghashyamc/hotelfinder/mq"
	"github.com/meghashyamc/hotelfinder/services/catalog"
	"github.com/meghashyamc/hotelfinder/services/search"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// CatalogReader fetches the current version of a record.
type CatalogReader interface {
	Get(id string) (*catalog.Hotel, error)
}

// Listener keeps the search index in step with the catalog by applying change events.
type Listener struct {
	logger  logger.Logger
	catalog CatalogReader
	indexer search.Indexer
	metrics *metrics.SearchMetrics
	workers int
}

func New(logger logger.Logger, catalog CatalogReader, indexer search.Indexer, metrics *metrics.SearchMetrics, workers int) *Listener {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Listener{
		logger:  logger,
		catalog: catalog,
		indexer: indexer,
		metrics: metrics,
		workers: workers,
	}
}

// Run applies events with a bounded pool of workers until events is closed or ctx is done.
// Failed events are logged and counted; they never stop the listener.
func (l *Listener) Run(ctx context.Context, events <-chan mq.Event) error {
	l.logger.Info("change listener started", "workers", l.workers)

	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < l.workers; i++ {
		group.Go(func() error {
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case event, ok := <-events:
					if !ok {
						return nil
					}
					if err := l.Handle(groupCtx, event); err != nil {
						l.logger.Error("could not apply change event", "kind", event.Kind, "id", event.ID, "err", err.Error())
					}
				}
			}
		})
	}

	err := group.Wait()
	l.logger.Info("change listener stopped")
	return err
}

// Handle applies one event. A record that vanished from the catalog before its insert was
// processed is dropped without error.
func (l *Listener) Handle(ctx context.Context, event mq.Event) error {
	if err := event.Validate(); err != nil {
		l.logger.Warn("dropping invalid change event", "kind", event.Kind, "id", event.ID, "err", err.Error())
		l.metrics.RecordChangeEvent(string(event.Kind), metrics.OutcomeDropped)
		return nil
	}

	var err error
	switch event.Kind {
	case mq.KindDelete:
		err = l.indexer.Delete(ctx, event.ID)
	default:
		err = l.upsert(ctx, event.ID)
	}

	switch {
	case errors.Is(err, kvdb.ErrNotFound):
		l.logger.Warn("dropping change event for missing hotel", "kind", event.Kind, "id", event.ID)
		l.metrics.RecordChangeEvent(string(event.Kind), metrics.OutcomeDropped)
		return nil
	case err != nil:
		l.metrics.RecordChangeEvent(string(event.Kind), metrics.OutcomeFailed)
		return err
	}

	l.logger.Debug("applied change event", "kind", event.Kind, "id", event.ID)
	l.metrics.RecordChangeEvent(string(event.Kind), metrics.OutcomeApplied)
	return nil
}

func (l *Listener) upsert(ctx context.Context, id string) error {
	hotel, err := l.catalog.Get(id)
	if err != nil {
		return err
	}

	if err := l.indexer.Upsert(ctx, id, catalog.ToDocument(*hotel)); err != nil {
		return fmt.Errorf("failed to index hotel %s: %w", id, err)
	}
	return nil
}
