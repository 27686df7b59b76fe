package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

type Handler func(ctx context.Context, event Event) error

// HandlerID identifies one registration so it can be removed again.
type HandlerID uint64

type EventBus struct {
	handlers map[string]map[HandlerID]Handler
	nextID   HandlerID
	logger   *slog.Logger
	mu       sync.RWMutex
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string]map[HandlerID]Handler),
		logger:   logger,
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) HandlerID {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := eb.nextID
	if eb.handlers[eventType] == nil {
		eb.handlers[eventType] = make(map[HandlerID]Handler)
	}
	eb.handlers[eventType][id] = handler

	eb.logger.Debug("event handler registered",
		"event_type", eventType,
		"handler_id", id,
		"total_handlers", len(eb.handlers[eventType]))
	return id
}

// Unsubscribe removes a handler. Removing an unknown id is a no-op.
func (eb *EventBus) Unsubscribe(eventType string, id HandlerID) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	hs, ok := eb.handlers[eventType]
	if !ok {
		return
	}
	delete(hs, id)
	if len(hs) == 0 {
		delete(eb.handlers, eventType)
	}
	eb.logger.Debug("event handler removed", "event_type", eventType, "handler_id", id)
}

// HandlerCount reports how many handlers listen on eventType.
func (eb *EventBus) HandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

func (eb *EventBus) snapshot(eventType string) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	hs := eb.handlers[eventType]
	out := make([]Handler, 0, len(hs))
	for _, h := range hs {
		out = append(out, h)
	}
	return out
}

func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	handlers := eb.snapshot(event.EventType())
	if len(handlers) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}

	eb.logger.Debug("publishing event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers_count", len(handlers))

	for _, handler := range handlers {
		go func(h Handler) {
			if err := h(ctx, event); err != nil {
				eb.logger.Error("event handler failed",
					"event_type", event.EventType(),
					"event_id", event.EventID(),
					"error", err)
			}
		}(handler)
	}

	return nil
}
