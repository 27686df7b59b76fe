package auth

import (
	"strings"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (d *LoginDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d LoginDTO) Validate() *errors.AppError {
	return validation.Struct(d)
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	return validation.Struct(d)
}
