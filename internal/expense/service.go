package expense

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	expenseDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/expense"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/realtime"
	"github.com/sethvargo/go-retry"
)

type Repository interface {
	Create(ctx context.Context, expense *expenseDatamodel.Expense) error
	ListByDate(ctx context.Context, userID int64, date time.Time) ([]*expenseDatamodel.Expense, error)
	// DeleteByID reports whether a row of userID was removed.
	DeleteByID(ctx context.Context, userID, id int64) (bool, error)
	DeleteByShoppingItem(ctx context.Context, userID, itemID int64, date time.Time) (int64, error)
	// DeleteNewestMatch removes at most one row, the most recent match.
	DeleteNewestMatch(ctx context.Context, userID int64, category, description string, amountIDR int64, date time.Time) (int64, error)
	SumByCategory(ctx context.Context, userID int64, category string, date time.Time) (int64, error)
	ShoppingItemIDs(ctx context.Context, userID int64, date time.Time) ([]int64, error)
}

type Options struct {
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

type Service struct {
	repo     Repository
	notifier realtime.Notifier
	clock    *clock.Clock
	opts     Options
	logger   *slog.Logger
}

func NewService(repo Repository, notifier realtime.Notifier, clk *clock.Clock, opts Options, logger *slog.Logger) *Service {
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 100 * time.Millisecond
	}
	if opts.RetryAttempts < 0 {
		opts.RetryAttempts = 0
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		opts:     opts,
		logger:   logger,
	}
}

// RecordExpense creates an expense dated today. Invalid input is rejected
// before anything is written.
func (s *Service) RecordExpense(ctx context.Context, userID int64, dto RecordExpenseDTO) (*Expense, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	expense := NewExpense(userID, s.clock.Today(), dto)
	row := ToDataModel(expense)

	err := s.write(ctx, func(ctx context.Context) error {
		row.ID = 0
		return s.repo.Create(ctx, row)
	})
	if err != nil {
		s.logger.Error("failed to record expense", "error", err, "user_id", userID, "amount_idr", dto.AmountIDR)
		return nil, errors.NewBackendError("failed to record expense", err)
	}

	s.notifier.Notify(ctx, userID, events.TableExpenses, events.OpInsert, row.ID)
	s.logger.Info("expense recorded",
		"expense_id", row.ID,
		"user_id", userID,
		"amount_idr", row.AmountIDR,
		"shopping_item_id", row.ShoppingItemID)

	return FromDataModel(row), nil
}

// RemoveExpense undoes a purchase recorded today. Removing something that is
// already gone is not an error.
func (s *Service) RemoveExpense(ctx context.Context, userID int64, dto RemoveExpenseDTO) error {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense removal validation failed", "error", err, "user_id", userID)
		return err
	}

	today := s.clock.Today()
	var removed int64
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		if dto.ShoppingItemID != nil {
			removed, err = s.repo.DeleteByShoppingItem(ctx, userID, *dto.ShoppingItemID, today)
		} else {
			removed, err = s.repo.DeleteNewestMatch(ctx, userID, CategoryShopping, dto.Name, dto.AmountIDR, today)
		}
		return err
	})
	if err != nil {
		s.logger.Error("failed to remove expense", "error", err, "user_id", userID, "amount_idr", dto.AmountIDR)
		return errors.NewBackendError("failed to remove expense", err)
	}

	if removed > 0 {
		// the deleted ids are unknown here, receivers re-fetch anyway
		s.notifier.Notify(ctx, userID, events.TableExpenses, events.OpDelete, 0)
	}
	s.logger.Info("expense removed", "user_id", userID, "rows", removed, "shopping_item_id", dto.ShoppingItemID)

	return nil
}

func (s *Service) DeleteExpense(ctx context.Context, userID, id int64) error {
	var deleted bool
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.repo.DeleteByID(ctx, userID, id)
		return err
	})
	if err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id, "user_id", userID)
		return errors.NewBackendError("failed to delete expense", err)
	}
	if !deleted {
		return errors.ErrExpenseNotFound
	}

	s.notifier.Notify(ctx, userID, events.TableExpenses, events.OpDelete, id)
	return nil
}

func (s *Service) ListByDate(ctx context.Context, userID int64, date time.Time) (*DailyExpenses, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	date = clock.Date(date)
	rows, err := s.repo.ListByDate(ctx, userID, date)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", userID, "date", date)
		return nil, errors.NewBackendError("failed to list expenses", err)
	}

	daily := &DailyExpenses{Date: date, Expenses: FromDataModelSlice(rows)}
	for _, e := range daily.Expenses {
		daily.TotalIDR += e.AmountIDR
		if e.IsShopping() {
			daily.ShoppingIDR += e.AmountIDR
		}
	}
	return daily, nil
}

// ListToday lists the expenses of the current local day.
func (s *Service) ListToday(ctx context.Context, userID int64) (*DailyExpenses, error) {
	return s.ListByDate(ctx, userID, s.clock.Today())
}

// TodaySpending sums today's shopping expenses.
func (s *Service) TodaySpending(ctx context.Context, userID int64) (int64, error) {
	return s.TotalForDate(ctx, userID, s.clock.Today())
}

func (s *Service) TotalForDate(ctx context.Context, userID int64, date time.Time) (int64, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	total, err := s.repo.SumByCategory(ctx, userID, CategoryShopping, clock.Date(date))
	if err != nil {
		s.logger.Error("failed to sum expenses", "error", err, "user_id", userID)
		return 0, errors.NewBackendError("failed to sum expenses", err)
	}
	return total, nil
}

// PurchasedItemIDs returns the shopping items that have an expense today.
func (s *Service) PurchasedItemIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	ids, err := s.repo.ShoppingItemIDs(ctx, userID, s.clock.Today())
	if err != nil {
		s.logger.Error("failed to load purchased items", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to load purchased items", err)
	}

	purchased := make(map[int64]bool, len(ids))
	for _, id := range ids {
		purchased[id] = true
	}
	return purchased, nil
}

// write runs op with a per-attempt timeout, retrying storage failures with
// exponential backoff. Cancellation of ctx is never retried.
func (s *Service) write(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(s.opts.RetryAttempts), retry.NewExponential(s.opts.RetryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := errors.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()

		err := op(attemptCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
			return err
		}
		s.logger.Debug("storage write failed, retrying", "error", err)
		return retry.RetryableError(err)
	})
}
