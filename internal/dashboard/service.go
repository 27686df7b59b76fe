// Package dashboard composes today's tasks, upcoming events, the shopping
// list and the budget summary into one view.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/budget"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/schedule"
	"github.com/frahmantamala/mibu/internal/shopping"
	"github.com/frahmantamala/mibu/internal/task"
	"golang.org/x/sync/errgroup"
)

// Tables a dashboard depends on; a change on any of them invalidates it.
var Tables = []string{
	events.TableTasks,
	events.TableEvents,
	events.TableShoppingItems,
	events.TableExpenses,
	events.TableBudgetSettings,
	events.TableFixedExpenses,
}

type TaskReader interface {
	ListToday(ctx context.Context, userID int64) (*task.DailyTasks, error)
}

type EventReader interface {
	ListUpcoming(ctx context.Context, userID int64, limit int) ([]*schedule.Event, error)
}

type ShoppingReader interface {
	ListItems(ctx context.Context, userID int64) ([]shopping.Item, error)
}

type BudgetReader interface {
	Summary(ctx context.Context, userID int64) (*budget.Summary, error)
}

type Snapshot struct {
	Tasks    *task.DailyTasks       `json:"tasks"`
	Events   []*schedule.Event      `json:"events"`
	Shopping shopping.ItemsResponse `json:"shopping"`
	Budget   *budget.Summary        `json:"budget"`
}

type Service struct {
	tasks    TaskReader
	events   EventReader
	shopping ShoppingReader
	budget   BudgetReader
	timeout  time.Duration
	logger   *slog.Logger
}

func NewService(tasks TaskReader, upcoming EventReader, items ShoppingReader, summary BudgetReader, logger *slog.Logger) *Service {
	return &Service{
		tasks:    tasks,
		events:   upcoming,
		shopping: items,
		budget:   summary,
		logger:   logger,
	}
}

func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Snapshot loads the four parts concurrently; the first failure cancels the
// others and is returned.
func (s *Service) Snapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Tasks, err = s.tasks.ListToday(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Events, err = s.events.ListUpcoming(gctx, userID, schedule.DefaultUpcomingLimit)
		return err
	})
	g.Go(func() error {
		items, err := s.shopping.ListItems(gctx, userID)
		if err != nil {
			return err
		}
		snap.Shopping = shopping.NewItemsResponse(items)
		return nil
	})
	g.Go(func() error {
		var err error
		snap.Budget, err = s.budget.Summary(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load dashboard", "error", err, "user_id", userID)
		if _, ok := errors.IsAppError(err); ok {
			return nil, err
		}
		return nil, errors.NewBackendError("failed to load dashboard", err)
	}
	return snap, nil
}
