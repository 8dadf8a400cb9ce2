// internal/events/bus.go
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"receipt-service/internal/model"
)

// Publisher is the write side of the bus
type Publisher interface {
	Publish(event *model.Event)
}

// Bus fans published events out to subscribers.
// Publishing never blocks: a full queue or a slow subscriber drops the event.
type Bus struct {
	subscribers map[model.EventType][]chan *model.Event
	wildcard    []chan *model.Event
	events      chan *model.Event
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// NewBus creates a new event bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subscribers: make(map[model.EventType][]chan *model.Event),
		events:      make(chan *model.Event, 1000),
		logger:      logger.With(zap.String("component", "event-bus")),
	}
}

// Run distributes events until ctx is done
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-b.events:
			b.distribute(event)
		}
	}
}

// Publish queues an event for distribution
func (b *Bus) Publish(event *model.Event) {
	select {
	case b.events <- event:
	default:
		b.logger.Warn("Event bus full, dropping event",
			zap.String("event_type", string(event.EventType)),
		)
	}
}

// Subscribe returns a channel receiving the given event types, or every
// event when no type is named
func (b *Bus) Subscribe(types ...model.EventType) <-chan *model.Event {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	subscriber := make(chan *model.Event, 100)
	if len(types) == 0 {
		b.wildcard = append(b.wildcard, subscriber)
		return subscriber
	}
	for _, eventType := range types {
		b.subscribers[eventType] = append(b.subscribers[eventType], subscriber)
	}
	return subscriber
}

func (b *Bus) distribute(event *model.Event) {
	b.mutex.RLock()
	targets := make([]chan *model.Event, 0, len(b.wildcard)+len(b.subscribers[event.EventType]))
	targets = append(targets, b.subscribers[event.EventType]...)
	targets = append(targets, b.wildcard...)
	b.mutex.RUnlock()

	for _, subscriber := range targets {
		select {
		case subscriber <- event:
		default:
			// slow subscriber
		}
	}
}
