package journal

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	journalDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/journal"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/realtime"
)

const defaultListLimit = 50

type Repository interface {
	// List returns the newest entries first.
	List(ctx context.Context, userID int64, limit int) ([]*journalDatamodel.JournalEntry, error)
	Create(ctx context.Context, entry *journalDatamodel.JournalEntry) error
	Update(ctx context.Context, entry *journalDatamodel.JournalEntry) (bool, error)
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

func (s *Service) ListEntries(ctx context.Context, userID int64, limit int) ([]*Entry, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	rows, err := s.repo.List(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to list journal entries", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to list journal entries", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) CreateEntry(ctx context.Context, userID int64, dto EntryDTO) (*Entry, error) {
	entry, err := s.fromDTO(userID, dto)
	if err != nil {
		return nil, err
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := ToDataModel(entry)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create journal entry", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to create journal entry", err)
	}

	s.notifier.Notify(ctx, userID, events.TableJournalEntries, events.OpInsert, row.ID)
	return FromDataModel(row), nil
}

// UpdateEntry replaces title, content, mood and date of an entry.
func (s *Service) UpdateEntry(ctx context.Context, userID, id int64, dto EntryDTO) (*Entry, error) {
	entry, err := s.fromDTO(userID, dto)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := ToDataModel(entry)
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		s.logger.Error("failed to update journal entry", "error", err, "entry_id", id, "user_id", userID)
		return nil, errors.NewBackendError("failed to update journal entry", err)
	}
	if !updated {
		return nil, errors.ErrJournalNotFound
	}

	s.notifier.Notify(ctx, userID, events.TableJournalEntries, events.OpUpdate, id)
	return FromDataModel(row), nil
}

func (s *Service) DeleteEntry(ctx context.Context, userID, id int64) error {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to delete journal entry", "error", err, "entry_id", id, "user_id", userID)
		return errors.NewBackendError("failed to delete journal entry", err)
	}
	if !deleted {
		return errors.ErrJournalNotFound
	}

	s.notifier.Notify(ctx, userID, events.TableJournalEntries, events.OpDelete, id)
	return nil
}

func (s *Service) fromDTO(userID int64, dto EntryDTO) (*Entry, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("journal entry validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	date := s.clock.Today()
	if dto.EntryDate != "" {
		date, _ = clock.ParseDate(dto.EntryDate)
	}
	return &Entry{
		UserID:    userID,
		Title:     dto.Title,
		Content:   dto.Content,
		Mood:      dto.Mood,
		EntryDate: date,
	}, nil
}
