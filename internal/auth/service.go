package auth

import (
	"context"
	stderrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/user"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type Service struct {
	users          UserStore
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(users UserStore, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:          users,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens. Unknown email and
// wrong password are reported the same way.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return AuthTokens{}, errors.ErrInvalidCredentials
		}
		return AuthTokens{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected", "user_id", u.ID)
		return AuthTokens{}, errors.ErrInvalidCredentials
	}
	if !u.IsActive {
		return AuthTokens{}, errors.ErrUserInactive
	}

	s.logger.Info("user logged in", "user_id", u.ID)
	return s.issue(u.ID, u.Email)
}

// RefreshTokens trades a valid refresh token for a new pair.
func (s *Service) RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	claims, err := s.tokenGenerator.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return AuthTokens{}, tokenError(err)
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return AuthTokens{}, errors.ErrInvalidToken
		}
		return AuthTokens{}, err
	}
	if !u.IsActive {
		return AuthTokens{}, errors.ErrUserInactive
	}

	return s.issue(u.ID, u.Email)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, tokenError(err)
	}
	return claims, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issue(userID int64, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to sign token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to sign token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokenGenerator.AccessTTL().Seconds()),
	}, nil
}

func tokenError(err error) *errors.AppError {
	if stderrors.Is(err, jwt.ErrTokenExpired) {
		return errors.ErrTokenExpired.WithCause(err)
	}
	return errors.ErrInvalidToken.WithCause(err)
}
