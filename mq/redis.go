package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	InsertChannel string
	DeleteChannel string
}

// RedisBus carries change events over redis pub/sub. Inserts and updates share one channel,
// deletes use another; the payload is the record id.
type RedisBus struct {
	client        *redis.Client
	logger        logger.Logger
	insertChannel string
	deleteChannel string
}

func NewRedisBus(logger logger.Logger, cfg RedisConfig) (*RedisBus, error) {
	if cfg.InsertChannel == "" || cfg.DeleteChannel == "" {
		return nil, fmt.Errorf("insert and delete channels are required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		logger.Error("could not connect to redis", "addr", cfg.Addr, "err", err.Error())
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBus{
		client:        client,
		logger:        logger,
		insertChannel: cfg.InsertChannel,
		deleteChannel: cfg.DeleteChannel,
	}, nil
}

func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	channel := b.channelFor(event.Kind)
	if err := b.client.Publish(ctx, channel, event.ID).Err(); err != nil {
		b.logger.Error("could not publish change event", "channel", channel, "id", event.ID, "err", err.Error())
		return fmt.Errorf("failed to publish %s event for %s: %w", event.Kind, event.ID, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub := b.client.Subscribe(ctx, b.insertChannel, b.deleteChannel)

	// Wait for the subscription to be confirmed so that no event published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		b.logger.Error("could not subscribe to change events", "err", err.Error())
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	messages := pubsub.Channel()
	out := make(chan Event)

	go func() {
		defer close(out)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					b.logger.Warn("change event subscription closed")
					return
				}
				event, err := b.eventFrom(msg)
				if err != nil {
					b.logger.Warn("dropping malformed change event", "channel", msg.Channel, "payload", msg.Payload, "err", err.Error())
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}

func (b *RedisBus) channelFor(kind Kind) string {
	if kind == KindDelete {
		return b.deleteChannel
	}
	return b.insertChannel
}

func (b *RedisBus) eventFrom(msg *redis.Message) (Event, error) {
	var event Event
	switch msg.Channel {
	case b.insertChannel:
		event = Event{Kind: KindInsert, ID: msg.Payload}
	case b.deleteChannel:
		event = Event{Kind: KindDelete, ID: msg.Payload}
	default:
		return Event{}, fmt.Errorf("unexpected channel %s", msg.Channel)
	}
	return event, event.Validate()
}
