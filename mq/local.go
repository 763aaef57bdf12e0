package mq

import (
	"context"
	"sync"

	"github.com/meghashyamc/hotelfinder/logger"
)

const defaultLocalBufferSize = 256

// LocalBus is an in-process Publisher/Subscriber used when no broker is configured.
// It supports a single subscriber.
type LocalBus struct {
	logger logger.Logger
	events chan Event
	once   sync.Once
}

func NewLocalBus(logger logger.Logger, bufferSize int) *LocalBus {
	if bufferSize <= 0 {
		bufferSize = defaultLocalBufferSize
	}
	return &LocalBus{
		logger: logger,
		events: make(chan Event, bufferSize),
	}
}

func (b *LocalBus) Publish(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	select {
	case b.events <- event:
		return nil
	case <-ctx.Done():
		b.logger.Warn("could not publish change event", "kind", event.Kind, "id", event.ID, "err", ctx.Err())
		return ctx.Err()
	}
}

func (b *LocalBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			select {
			case event := <-b.events:
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *LocalBus) Close() error {
	b.once.Do(func() {
		b.logger.Info("closing local event bus", "pending", len(b.events))
	})
	return nil
}
