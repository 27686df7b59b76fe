package shopping

import (
	"context"
	"log/slog"
	"sync"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/expense"
)

// ExpenseLedger records and removes the expenses behind purchases.
// *expense.Service satisfies it.
type ExpenseLedger interface {
	RecordExpense(ctx context.Context, userID int64, dto expense.RecordExpenseDTO) (*expense.Expense, error)
	RemoveExpense(ctx context.Context, userID int64, dto expense.RemoveExpenseDTO) error
	PurchasedItemIDs(ctx context.Context, userID int64) (map[int64]bool, error)
}

type entry struct {
	item  Item
	phase Phase
	// prior is the exact item before the pending flip
	prior *Item
	// sem admits one toggle per item at a time
	sem chan struct{}
}

// List is the live view of one user's shopping list. Toggles flip the item
// right away, then confirm against the ledger and either keep the flip or
// put the prior item back.
type List struct {
	userID int64
	ledger ExpenseLedger
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[int64]*entry
	order   []int64
}

func NewList(userID int64, ledger ExpenseLedger, logger *slog.Logger) *List {
	return &List{
		userID:  userID,
		ledger:  ledger,
		logger:  logger,
		entries: make(map[int64]*entry),
	}
}

// Items returns the current view, optimistic flips included.
func (l *List) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]Item, 0, len(l.order))
	for _, id := range l.order {
		items = append(items, l.entries[id].item)
	}
	return items
}

func (l *List) Get(itemID int64) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[itemID]
	if !ok {
		return Item{}, false
	}
	return e.item, true
}

// Phase reports the toggle phase of an item; unknown items are idle.
func (l *List) Phase(itemID int64) Phase {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if e, ok := l.entries[itemID]; ok {
		return e.phase
	}
	return PhaseIdle
}

// Replace installs a fresh read from storage. Items with a pending toggle
// keep their optimistic state and stay listed.
func (l *List) Replace(items []Item) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fresh := make(map[int64]*entry, len(items))
	order := make([]int64, 0, len(items))

	for _, item := range items {
		e, ok := l.entries[item.ID]
		if !ok {
			e = &entry{sem: make(chan struct{}, 1)}
		}
		if e.phase != PhasePending {
			e.item = item
		}
		fresh[item.ID] = e
		order = append(order, item.ID)
	}

	for _, id := range l.order {
		e := l.entries[id]
		if _, kept := fresh[id]; !kept && e.phase == PhasePending {
			fresh[id] = e
			order = append(order, id)
		}
	}

	l.entries = fresh
	l.order = order
}

// Upsert adds or refreshes one item unless its toggle is pending.
func (l *List) Upsert(item Item) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[item.ID]
	if !ok {
		l.entries[item.ID] = &entry{item: item, sem: make(chan struct{}, 1)}
		l.order = append(l.order, item.ID)
		return
	}
	if e.phase != PhasePending {
		e.item = item
	}
}

func (l *List) Remove(itemID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[itemID]; !ok {
		return
	}
	delete(l.entries, itemID)
	for i, id := range l.order {
		if id == itemID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Hold waits for the item's toggle slot so a write can run without a toggle
// interleaving. The returned release frees the slot.
func (l *List) Hold(ctx context.Context, itemID int64) (func(), error) {
	e, err := l.acquire(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return func() { <-e.sem }, nil
}

func (l *List) acquire(ctx context.Context, itemID int64) (*entry, error) {
	l.mu.RLock()
	e, ok := l.entries[itemID]
	l.mu.RUnlock()
	if !ok {
		return nil, errors.ErrShoppingItemNotFound
	}

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, errors.NewConflictError("toggle already in progress", errors.ErrCodeToggleInProgress).WithCause(ctx.Err())
	}

	// the item may have been removed while we waited
	l.mu.RLock()
	current := l.entries[itemID]
	l.mu.RUnlock()
	if current != e {
		<-e.sem
		return nil, errors.ErrShoppingItemNotFound
	}
	return e, nil
}

// Toggle flips the purchased state of an item. Toggles of the same item run
// one after another; a waiting toggle gives up when ctx ends. The state it
// flips from is read from today's expenses once the item's slot is held, so
// purchases recorded or removed elsewhere are honored. On ledger failure the
// exact prior item is restored and the error returned.
func (l *List) Toggle(ctx context.Context, itemID int64) (Item, error) {
	e, err := l.acquire(ctx, itemID)
	if err != nil {
		return Item{}, err
	}
	defer func() { <-e.sem }()

	purchased, err := l.ledger.PurchasedItemIDs(ctx, l.userID)
	if err != nil {
		l.logger.Error("failed to read purchases before toggle", "item_id", itemID, "user_id", l.userID, "error", err)
		return l.current(e), err
	}

	l.mu.Lock()
	e.item.Purchased = purchased[itemID]
	prior := e.item
	e.item.Purchased = !prior.Purchased
	e.prior = &prior
	e.phase = PhasePending
	next := e.item
	l.mu.Unlock()

	err = l.apply(ctx, next)

	l.mu.Lock()
	defer l.mu.Unlock()
	e.prior = nil
	if err != nil {
		e.item = prior
		e.phase = PhaseRolledBack
		l.logger.Warn("purchase toggle rolled back", "item_id", itemID, "user_id", l.userID, "error", err)
		return prior, err
	}
	e.phase = PhaseCommitted
	l.logger.Info("purchase toggle committed", "item_id", itemID, "user_id", l.userID, "purchased", next.Purchased)
	return next, nil
}

func (l *List) current(e *entry) Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return e.item
}

func (l *List) apply(ctx context.Context, item Item) error {
	id := item.ID
	if item.Purchased {
		_, err := l.ledger.RecordExpense(ctx, l.userID, expense.RecordExpenseDTO{
			Name:           item.Name,
			AmountIDR:      item.TotalIDR(),
			ShoppingItemID: &id,
		})
		return err
	}
	return l.ledger.RemoveExpense(ctx, l.userID, expense.RemoveExpenseDTO{
		Name:           item.Name,
		AmountIDR:      item.TotalIDR(),
		ShoppingItemID: &id,
	})
}
