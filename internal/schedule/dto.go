package schedule

import (
	"strings"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/common/validation"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000

	// DefaultUpcomingLimit caps the upcoming list when no limit is given.
	DefaultUpcomingLimit = 5
)

type CreateEventDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	EventDate   string  `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime   *string `json:"event_time,omitempty" validate:"omitempty,datetime=15:04"`
}

func (dto *CreateEventDTO) Normalize() {
	dto.Title = strings.TrimSpace(dto.Title)
	dto.Description = strings.TrimSpace(dto.Description)
	dto.EventDate = strings.TrimSpace(dto.EventDate)
	if dto.EventTime != nil {
		t := strings.TrimSpace(*dto.EventTime)
		if t == "" {
			dto.EventTime = nil
		} else {
			dto.EventTime = &t
		}
	}
}

func (dto CreateEventDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(maxTitleLength)
	v.Field("description", dto.Description).MaxLength(maxDescriptionLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.Struct(dto)
}
