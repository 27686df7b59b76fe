package shopping

import (
	"context"
	"log/slog"
	"sync"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	shoppingDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/shopping"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/expense"
	"github.com/frahmantamala/mibu/internal/realtime"
	"golang.org/x/sync/errgroup"
)

type Repository interface {
	List(ctx context.Context, userID int64) ([]*shoppingDatamodel.ShoppingItem, error)
	// GetByID returns nil without error when the user has no such item.
	GetByID(ctx context.Context, userID, id int64) (*shoppingDatamodel.ShoppingItem, error)
	Create(ctx context.Context, item *shoppingDatamodel.ShoppingItem) error
	Update(ctx context.Context, item *shoppingDatamodel.ShoppingItem) error
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type Service struct {
	repo     Repository
	ledger   ExpenseLedger
	notifier realtime.Notifier
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	lists   map[int64]*liveList
	idleTTL time.Duration
	swept   time.Time
}

const defaultIdleTTL = 30 * time.Minute

// liveList counts the operations using a list; only unused lists idle past
// the TTL are evicted.
type liveList struct {
	list *List
	refs int
	used time.Time
}

func NewService(repo Repository, ledger ExpenseLedger, notifier realtime.Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
		lists:    make(map[int64]*liveList),
		idleTTL:  defaultIdleTTL,
	}
}

// WithTimeout bounds every repository call; zero keeps the default.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// WithIdleTTL sets how long an unused live list is kept; zero keeps the
// default.
func (s *Service) WithIdleTTL(d time.Duration) *Service {
	if d > 0 {
		s.idleTTL = d
	}
	return s
}

// List returns the live list of a user, creating it on first use.
func (s *Service) List(userID int64) *List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveLocked(userID).list
}

// checkout returns the live list pinned against eviction until done is
// called.
func (s *Service) checkout(userID int64) (l *List, done func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ll := s.liveLocked(userID)
	ll.refs++
	return ll.list, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		ll.refs--
		ll.used = time.Now()
	}
}

func (s *Service) liveLocked(userID int64) *liveList {
	now := time.Now()
	if now.Sub(s.swept) >= s.idleTTL {
		s.evictLocked(now)
	}

	ll, ok := s.lists[userID]
	if !ok {
		ll = &liveList{list: NewList(userID, s.ledger, s.logger)}
		s.lists[userID] = ll
	}
	ll.used = now
	return ll
}

// evictLocked drops lists nobody has used for the idle TTL. They are views
// of storage and are rebuilt on the next read.
func (s *Service) evictLocked(now time.Time) {
	s.swept = now
	for userID, ll := range s.lists {
		if ll.refs == 0 && now.Sub(ll.used) >= s.idleTTL {
			delete(s.lists, userID)
			s.logger.Debug("evicted idle shopping list", "user_id", userID)
		}
	}
}

// ListItems reads the items and today's purchases together and refreshes the
// live list with them.
func (s *Service) ListItems(ctx context.Context, userID int64) ([]Item, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		rows      []*shoppingDatamodel.ShoppingItem
		purchased map[int64]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.List(gctx, userID)
		if err != nil {
			return errors.NewBackendError("failed to list shopping items", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		purchased, err = s.ledger.PurchasedItemIDs(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load shopping list", "error", err, "user_id", userID)
		return nil, err
	}

	items := make([]Item, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row, purchased[row.ID])
	}

	l, done := s.checkout(userID)
	defer done()
	l.Replace(items)
	return l.Items(), nil
}

func (s *Service) AddItem(ctx context.Context, userID int64, dto CreateItemDTO) (*Item, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := &shoppingDatamodel.ShoppingItem{
		UserID:       userID,
		Name:         dto.Name,
		UnitPriceIDR: dto.UnitPriceIDR,
		Quantity:     dto.Quantity,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to add shopping item", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to add shopping item", err)
	}

	item := FromDataModel(row, false)
	l, done := s.checkout(userID)
	l.Upsert(item)
	done()
	s.notifier.Notify(ctx, userID, events.TableShoppingItems, events.OpInsert, row.ID)
	s.logger.Info("shopping item added", "item_id", row.ID, "user_id", userID, "unit_price_idr", row.UnitPriceIDR)

	return &item, nil
}

// UpdateItem changes name, price or quantity. When the item is already
// purchased today its expense is replaced so the spend follows the new total.
func (s *Service) UpdateItem(ctx context.Context, userID, id int64, dto UpdateItemDTO) (*Item, error) {
	l, done := s.checkout(userID)
	defer done()

	current, release, err := s.hold(ctx, l, userID, id)
	if err != nil {
		return nil, err
	}
	defer release()

	updated := current
	dto.Apply(&updated)
	if err := validateItem(updated.Name, updated.UnitPriceIDR, updated.Quantity); err != nil {
		return nil, err
	}

	if current.Purchased && (updated.TotalIDR() != current.TotalIDR() || updated.Name != current.Name) {
		if err := s.ledger.RemoveExpense(ctx, userID, expense.RemoveExpenseDTO{
			Name: current.Name, AmountIDR: current.TotalIDR(), ShoppingItemID: &id,
		}); err != nil {
			return nil, err
		}
		if _, err := s.ledger.RecordExpense(ctx, userID, expense.RecordExpenseDTO{
			Name: updated.Name, AmountIDR: updated.TotalIDR(), ShoppingItemID: &id,
		}); err != nil {
			// the old expense is gone, so the item now reads as not purchased
			l.Upsert(current.withPurchased(false))
			return nil, err
		}
	}

	wctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Update(wctx, ToDataModel(&updated)); err != nil {
		s.logger.Error("failed to update shopping item", "error", err, "item_id", id, "user_id", userID)
		return nil, errors.NewBackendError("failed to update shopping item", err)
	}

	l.Upsert(updated)
	s.notifier.Notify(ctx, userID, events.TableShoppingItems, events.OpUpdate, id)
	return &updated, nil
}

// DeleteItem removes the item together with today's expense for it.
func (s *Service) DeleteItem(ctx context.Context, userID, id int64) error {
	l, done := s.checkout(userID)
	defer done()

	current, release, err := s.hold(ctx, l, userID, id)
	if err != nil {
		return err
	}
	defer release()

	if current.Purchased {
		if err := s.ledger.RemoveExpense(ctx, userID, expense.RemoveExpenseDTO{
			Name: current.Name, AmountIDR: current.TotalIDR(), ShoppingItemID: &id,
		}); err != nil {
			return err
		}
	}

	wctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()
	deleted, err := s.repo.Delete(wctx, userID, id)
	if err != nil {
		s.logger.Error("failed to delete shopping item", "error", err, "item_id", id, "user_id", userID)
		return errors.NewBackendError("failed to delete shopping item", err)
	}
	if !deleted {
		return errors.ErrShoppingItemNotFound
	}

	l.Remove(id)
	s.notifier.Notify(ctx, userID, events.TableShoppingItems, events.OpDelete, id)
	return nil
}

// Toggle flips the purchased state of an item through the live list.
func (s *Service) Toggle(ctx context.Context, userID, id int64) (*Item, error) {
	l, done := s.checkout(userID)
	defer done()

	if err := s.track(ctx, l, userID, id); err != nil {
		return nil, err
	}

	item, err := l.Toggle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// track makes sure the live list knows the item, loading it when needed.
func (s *Service) track(ctx context.Context, l *List, userID, id int64) error {
	if _, ok := l.Get(id); ok {
		return nil
	}
	item, err := s.load(ctx, userID, id)
	if err != nil {
		return err
	}
	l.Upsert(item)
	return nil
}

// hold takes the item's toggle slot and then reads the item fresh, so the
// purchased state it returns cannot shift under the caller.
func (s *Service) hold(ctx context.Context, l *List, userID, id int64) (Item, func(), error) {
	if err := s.track(ctx, l, userID, id); err != nil {
		return Item{}, nil, err
	}
	release, err := l.Hold(ctx, id)
	if err != nil {
		return Item{}, nil, err
	}
	current, err := s.load(ctx, userID, id)
	if err != nil {
		release()
		return Item{}, nil, err
	}
	return current, release, nil
}

// load reads one item with its purchased state from storage.
func (s *Service) load(ctx context.Context, userID, id int64) (Item, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Item{}, errors.NewBackendError("failed to load shopping item", err)
	}
	if row == nil {
		return Item{}, errors.ErrShoppingItemNotFound
	}

	purchased, err := s.ledger.PurchasedItemIDs(ctx, userID)
	if err != nil {
		return Item{}, err
	}
	return FromDataModel(row, purchased[id]), nil
}
