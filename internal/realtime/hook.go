package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/mibu/pkg/logger"
)

// Snapshot is the state a hook exposes to its consumer.
type Snapshot[T any] struct {
	Data      T         `json:"data"`
	IsLoading bool      `json:"is_loading"`
	Err       error     `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FetchFunc loads a full snapshot for one user.
type FetchFunc[T any] func(ctx context.Context, userID int64) (T, error)

type hookConfig struct {
	timeout time.Duration
	logger  *slog.Logger
}

type HookOption func(*hookConfig)

// WithFetchTimeout bounds every fetch; the default is five seconds.
func WithFetchTimeout(d time.Duration) HookOption {
	return func(c *hookConfig) { c.timeout = d }
}

func WithLogger(l *slog.Logger) HookOption {
	return func(c *hookConfig) { c.logger = l }
}

// Hook keeps a snapshot of T for one user and re-fetches it in full whenever
// the change feed reports a change on one of its tables.
type Hook[T any] struct {
	userID int64
	fetch  FetchFunc[T]
	cfg    hookConfig

	mu      sync.RWMutex
	snap    Snapshot[T]
	changes chan Snapshot[T]
	stopped bool

	fetchMu   sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// NewHook starts a hook bound to ctx. Cancelling ctx or calling Close stops it
// and releases the feed subscription. A zero userID (no session) yields an
// empty snapshot and never touches the feed or the fetcher.
func NewHook[T any](ctx context.Context, sub Subscriber, userID int64, fetch FetchFunc[T], tables []string, opts ...HookOption) *Hook[T] {
	cfg := hookConfig{timeout: 5 * time.Second, logger: logger.LoggerWrapper()}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Hook[T]{
		userID:  userID,
		fetch:   fetch,
		cfg:     cfg,
		changes: make(chan Snapshot[T], 1),
		done:    make(chan struct{}),
	}

	if userID == 0 {
		h.cancel = func() {}
		h.stopped = true
		close(h.changes)
		close(h.done)
		return h
	}

	h.snap.IsLoading = true
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	// subscribe before the first fetch so no change slips in between
	subscription := sub.Subscribe(userID, tables...)
	go h.run(runCtx, subscription)

	return h
}

func (h *Hook[T]) run(ctx context.Context, subscription *Subscription) {
	defer close(h.done)
	defer h.stop()
	defer subscription.Close()

	h.refetch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-subscription.C():
			if !ok {
				return
			}
			h.cfg.logger.Debug("change received, refetching",
				"user_id", h.userID, "table", change.Table, "op", change.Op)
			h.refetch(ctx)
		}
	}
}

func (h *Hook[T]) refetch(ctx context.Context) error {
	h.fetchMu.Lock()
	defer h.fetchMu.Unlock()

	fctx, cancel := context.WithTimeout(ctx, h.cfg.timeout)
	defer cancel()

	data, err := h.fetch(fctx, h.userID)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.snap.IsLoading = false
	h.snap.UpdatedAt = time.Now()
	if err != nil {
		// keep the last good data, surface the failure
		h.snap.Err = err
		h.cfg.logger.Warn("hook fetch failed", "user_id", h.userID, "error", err)
	} else {
		h.snap.Data = data
		h.snap.Err = nil
	}
	h.emitLocked()
	return err
}

// emitLocked publishes the latest snapshot, replacing one the consumer has not read yet.
func (h *Hook[T]) emitLocked() {
	if h.stopped {
		return
	}
	select {
	case <-h.changes:
	default:
	}
	h.changes <- h.snap
}

func (h *Hook[T]) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.changes)
}

// Snapshot returns the current state.
func (h *Hook[T]) Snapshot() Snapshot[T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Refresh forces a synchronous re-fetch.
func (h *Hook[T]) Refresh(ctx context.Context) error {
	if h.userID == 0 {
		return nil
	}
	select {
	case <-h.done:
		return context.Canceled
	default:
	}
	return h.refetch(ctx)
}

// Changes delivers each new snapshot; it is closed when the hook stops.
func (h *Hook[T]) Changes() <-chan Snapshot[T] {
	return h.changes
}

// Done is closed once the hook has released its subscription.
func (h *Hook[T]) Done() <-chan struct{} {
	return h.done
}

func (h *Hook[T]) Close() {
	h.closeOnce.Do(func() {
		h.cancel()
		<-h.done
	})
}
