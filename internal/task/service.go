package task

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	taskDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/task"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/realtime"
)

type Repository interface {
	ListByDate(ctx context.Context, userID int64, date time.Time) ([]*taskDatamodel.Task, error)
	GetByID(ctx context.Context, userID, id int64) (*taskDatamodel.Task, error)
	Create(ctx context.Context, task *taskDatamodel.Task) error
	SetCompleted(ctx context.Context, userID, id int64, completed bool) (bool, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type Service struct {
	repo     Repository
	notifier realtime.Notifier
	clock    *clock.Clock
	timeout  time.Duration
	logger   *slog.Logger
}

func NewService(repo Repository, notifier realtime.Notifier, clk *clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

func (s *Service) ListByDate(ctx context.Context, userID int64, date time.Time) (*DailyTasks, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.ListByDate(ctx, userID, clock.Date(date))
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to list tasks", err)
	}
	return newDailyTasks(date, FromDataModelSlice(rows)), nil
}

func (s *Service) ListToday(ctx context.Context, userID int64) (*DailyTasks, error) {
	return s.ListByDate(ctx, userID, s.clock.Today())
}

func (s *Service) CreateTask(ctx context.Context, userID int64, dto CreateTaskDTO) (*Task, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("task validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	date := s.clock.Today()
	if dto.TaskDate != "" {
		// already validated
		date, _ = clock.ParseDate(dto.TaskDate)
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := ToDataModel(&Task{UserID: userID, Title: dto.Title, TaskDate: date})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create task", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to create task", err)
	}

	s.notifier.Notify(ctx, userID, events.TableTasks, events.OpInsert, row.ID)
	s.logger.Info("task created", "task_id", row.ID, "user_id", userID)
	return FromDataModel(row), nil
}

// ToggleTask flips the completed flag and returns the updated task.
func (s *Service) ToggleTask(ctx context.Context, userID, id int64) (*Task, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to load task", "error", err, "task_id", id, "user_id", userID)
		return nil, errors.NewBackendError("failed to load task", err)
	}
	if row == nil {
		return nil, errors.ErrTaskNotFound
	}

	updated, err := s.repo.SetCompleted(ctx, userID, id, !row.Completed)
	if err != nil {
		s.logger.Error("failed to toggle task", "error", err, "task_id", id, "user_id", userID)
		return nil, errors.NewBackendError("failed to toggle task", err)
	}
	if !updated {
		return nil, errors.ErrTaskNotFound
	}
	row.Completed = !row.Completed

	s.notifier.Notify(ctx, userID, events.TableTasks, events.OpUpdate, id)
	return FromDataModel(row), nil
}

func (s *Service) DeleteTask(ctx context.Context, userID, id int64) error {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id, "user_id", userID)
		return errors.NewBackendError("failed to delete task", err)
	}
	if !deleted {
		return errors.ErrTaskNotFound
	}

	s.notifier.Notify(ctx, userID, events.TableTasks, events.OpDelete, id)
	return nil
}
