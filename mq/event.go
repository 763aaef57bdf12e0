package mq

import (
	"context"
	"fmt"
)

type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Event notifies that the catalog record with ID changed. Delivery is at least once and
// unordered.
type Event struct {
	Kind Kind
	ID   string
}

func (e Event) Validate() error {
	switch e.Kind {
	case KindInsert, KindUpdate, KindDelete:
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.ID == "" {
		return fmt.Errorf("event %s has no id", e.Kind)
	}
	return nil
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber delivers events until ctx is done, then closes the returned channel.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}
