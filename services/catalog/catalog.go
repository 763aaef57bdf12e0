package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meghashyamc/hotelfinder/db/kvdb"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/mq"
)

// Store is the subset of the key-value database the catalog needs.
type Store interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	ForEach(bucket string, fn func(key string, value string) error) error
	Count(bucket string) (int, error)
}

// Service keeps hotel records and announces every change on the event bus.
type Service struct {
	logger    logger.Logger
	store     Store
	publisher mq.Publisher
}

func New(logger logger.Logger, store Store, publisher mq.Publisher) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		publisher: publisher,
	}
}

// Get returns the record stored under id, or an error matching kvdb.ErrNotFound.
func (s *Service) Get(id string) (*Hotel, error) {
	value, err := s.store.Get(kvdb.HotelsBucket, id)
	if err != nil {
		return nil, err
	}

	var hotel Hotel
	if err := json.Unmarshal([]byte(value), &hotel); err != nil {
		s.logger.Error("failed to unmarshal hotel", "id", id, "err", err.Error())
		return nil, fmt.Errorf("failed to unmarshal hotel %s: %w", id, err)
	}
	return &hotel, nil
}

// Save inserts or replaces a record and publishes the matching change event. A record
// without an id gets a new one.
func (s *Service) Save(ctx context.Context, hotel Hotel) (*Hotel, error) {
	kind := mq.KindInsert
	if hotel.ID == "" {
		hotel.ID = uuid.NewString()
	} else if _, err := s.store.Get(kvdb.HotelsBucket, hotel.ID); err == nil {
		kind = mq.KindUpdate
	} else if !errors.Is(err, kvdb.ErrNotFound) {
		return nil, err
	}

	data, err := json.Marshal(hotel)
	if err != nil {
		s.logger.Error("failed to marshal hotel", "id", hotel.ID, "err", err.Error())
		return nil, fmt.Errorf("failed to marshal hotel %s: %w", hotel.ID, err)
	}

	if err := s.store.Set(kvdb.HotelsBucket, hotel.ID, string(data)); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, mq.Event{Kind: kind, ID: hotel.ID}); err != nil {
		return nil, fmt.Errorf("hotel %s saved but change event not published: %w", hotel.ID, err)
	}

	s.logger.Info("saved hotel", "id", hotel.ID, "kind", kind)
	return &hotel, nil
}

// Delete removes the record and publishes a delete event. Deleting an absent id still
// publishes, so a stale index entry gets cleaned up.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(kvdb.HotelsBucket, id); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, mq.Event{Kind: mq.KindDelete, ID: id}); err != nil {
		return fmt.Errorf("hotel %s deleted but change event not published: %w", id, err)
	}

	s.logger.Info("deleted hotel", "id", id)
	return nil
}

// ForEach calls fn for every record in id order. Returning an error from fn stops the walk.
func (s *Service) ForEach(fn func(Hotel) error) error {
	return s.store.ForEach(kvdb.HotelsBucket, func(key string, value string) error {
		var hotel Hotel
		if err := json.Unmarshal([]byte(value), &hotel); err != nil {
			s.logger.Error("failed to unmarshal hotel", "id", key, "err", err.Error())
			return fmt.Errorf("failed to unmarshal hotel %s: %w", key, err)
		}
		return fn(hotel)
	})
}

func (s *Service) Count() (int, error) {
	return s.store.Count(kvdb.HotelsBucket)
}
