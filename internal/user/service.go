package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	userDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/user"
)

// Repository lookups return nil without error when no user matches.
type Repository interface {
	GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	// Upsert creates the user or replaces name, password and active flag of
	// the user with the same email.
	Upsert(ctx context.Context, user *userDatamodel.User) error
}

type Service struct {
	repo    Repository
	timeout time.Duration
	logger  *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to load user", err)
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

// GetByEmail matches the address case-insensitively.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		s.logger.Error("failed to load user", "error", err)
		return nil, errors.NewBackendError("failed to load user", err)
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

// Save stores an active user with an already hashed password.
func (s *Service) Save(ctx context.Context, email, name, passwordHash string) (*User, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := ToDataModel(&User{
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		IsActive:     true,
	})
	if err := s.repo.Upsert(ctx, row); err != nil {
		s.logger.Error("failed to save user", "error", err)
		return nil, errors.NewBackendError("failed to save user", err)
	}
	return FromDataModel(row), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
