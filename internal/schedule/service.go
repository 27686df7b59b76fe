package schedule

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	scheduleDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/schedule"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/realtime"
)

type Repository interface {
	// ListFrom returns events dated on or after from, soonest first. A limit
	// of zero means no limit.
	ListFrom(ctx context.Context, userID int64, from time.Time, limit int) ([]*scheduleDatamodel.Event, error)
	Create(ctx context.Context, event *scheduleDatamodel.Event) error
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

// ListUpcoming returns events from today on.
func (s *Service) ListUpcoming(ctx context.Context, userID int64, limit int) ([]*Event, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	if limit < 0 {
		limit = 0
	}
	rows, err := s.repo.ListFrom(ctx, userID, s.clock.Today(), limit)
	if err != nil {
		s.logger.Error("failed to list events", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to list events", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) CreateEvent(ctx context.Context, userID int64, dto CreateEventDTO) (*Event, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("event validation failed", "error", err, "user_id", userID)
		return nil, err
	}
	date, err := clock.ParseDate(dto.EventDate)
	if err != nil {
		return nil, errors.NewValidationFieldError("event_date", "event_date must be YYYY-MM-DD", errors.ErrCodeInvalidDate)
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := ToDataModel(&Event{
		UserID:      userID,
		Title:       dto.Title,
		Description: dto.Description,
		EventDate:   date,
		EventTime:   dto.EventTime,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create event", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to create event", err)
	}

	s.notifier.Notify(ctx, userID, events.TableEvents, events.OpInsert, row.ID)
	s.logger.Info("event created", "event_id", row.ID, "user_id", userID, "event_date", dto.EventDate)
	return FromDataModel(row), nil
}

func (s *Service) DeleteEvent(ctx context.Context, userID, id int64) error {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to delete event", "error", err, "event_id", id, "user_id", userID)
		return errors.NewBackendError("failed to delete event", err)
	}
	if !deleted {
		return errors.ErrEventNotFound
	}

	s.notifier.Notify(ctx, userID, events.TableEvents, events.OpDelete, id)
	return nil
}
