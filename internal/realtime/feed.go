// Package realtime delivers per-user row change notifications and keeps
// snapshots fresh by re-fetching whenever one arrives.
package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/mibu/internal/core/events"
)

// Change is what a subscriber receives. It carries no row data; receivers
// re-fetch what they need.
type Change struct {
	Table      string          `json:"table"`
	Op         events.ChangeOp `json:"op"`
	RowID      int64           `json:"row_id"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Notifier is implemented by anything that can announce a row change.
// Services depend on this instead of the concrete feed.
type Notifier interface {
	Notify(ctx context.Context, userID int64, table string, op events.ChangeOp, rowID int64)
}

// Subscriber opens a change subscription for one user.
type Subscriber interface {
	Subscribe(userID int64, tables ...string) *Subscription
}

// NopNotifier drops every notification. Used where nobody listens, such as
// the seed command.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, int64, string, events.ChangeOp, int64) {}

const subscriptionBuffer = 16

type Feed struct {
	bus    *events.EventBus
	logger *slog.Logger
}

func NewFeed(bus *events.EventBus, logger *slog.Logger) *Feed {
	return &Feed{bus: bus, logger: logger}
}

func (f *Feed) Notify(ctx context.Context, userID int64, table string, op events.ChangeOp, rowID int64) {
	if userID == 0 {
		return
	}
	// handlers outlive the request that caused the change
	ctx = context.WithoutCancel(ctx)
	if err := f.bus.Publish(ctx, events.NewRowChangedEvent(table, op, userID, rowID)); err != nil {
		f.logger.Warn("failed to publish change", "table", table, "user_id", userID, "error", err)
	}
}

// Subscribe listens for changes of the given tables that belong to userID.
// Notifications are dropped rather than blocking the publisher when the
// subscriber falls behind; a pending notification already implies a re-fetch.
func (f *Feed) Subscribe(userID int64, tables ...string) *Subscription {
	s := &Subscription{
		ch:  make(chan Change, subscriptionBuffer),
		ids: make(map[string]events.HandlerID, len(tables)),
		bus: f.bus,
	}

	for _, table := range tables {
		topic := events.ChangeEventType(table)
		if _, dup := s.ids[topic]; dup {
			continue
		}
		s.ids[topic] = f.bus.Subscribe(topic, func(_ context.Context, event events.Event) error {
			rc, ok := event.(*events.RowChangedEvent)
			if !ok || rc.UserID != userID {
				return nil
			}
			s.deliver(Change{Table: rc.Table, Op: rc.Op, RowID: rc.RowID, OccurredAt: rc.OccurredAt()})
			return nil
		})
	}

	f.logger.Debug("change feed subscribed", "user_id", userID, "tables", tables)
	return s
}

type Subscription struct {
	ch     chan Change
	ids    map[string]events.HandlerID
	bus    *events.EventBus
	mu     sync.RWMutex
	closed bool
}

// C yields notifications until Close is called.
func (s *Subscription) C() <-chan Change {
	return s.ch
}

func (s *Subscription) deliver(c Change) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- c:
	default:
	}
}

// Close unsubscribes from the bus and closes the channel. Safe to call twice.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for topic, id := range s.ids {
		s.bus.Unsubscribe(topic, id)
	}
	close(s.ch)
}
