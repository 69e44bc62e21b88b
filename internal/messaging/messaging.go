// Package messaging publishes domain events after successful writes.
package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topics carrying catalog and order events. Adapters may prefix them.
const (
	TopicProductSubmitted   = "product.submitted"
	TopicProductApproved    = "product.approved"
	TopicProductDeleted     = "product.deleted"
	TopicOrderPlaced        = "order.placed"
	TopicOrderStatusChanged = "order.status_changed"
)

// Event is the envelope written to every topic.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// NewEvent stamps data with a fresh id and the current time.
func NewEvent(topic string, data any) Event {
	return Event{ID: uuid.NewString(), Type: topic, OccurredAt: time.Now().UTC(), Data: data}
}

// Publisher sends an event keyed by the entity id.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                            { return nil }

// Published is one event captured by Memory.
type Published struct {
	Topic string
	Key   string
	Event any
}

// Memory keeps published events in process, for tests and local runs.
type Memory struct {
	mu     sync.Mutex
	events []Published
}

func (m *Memory) PublishEvent(_ context.Context, topic, key string, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Published{Topic: topic, Key: key, Event: event})
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything published so far.
func (m *Memory) Events() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Published(nil), m.events...)
}

// Topics returns the topic of every published event, in order.
func (m *Memory) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Topic
	}
	return out
}
