package journal

import (
	"strings"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/common/validation"
)

const (
	maxTitleLength   = 200
	maxContentLength = 10000
)

// EntryDTO is used for both creating and replacing an entry. An empty entry
// date means today; mood is optional.
type EntryDTO struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Mood      string `json:"mood,omitempty" validate:"omitempty,oneof=senang biasa sedih marah cemas"`
	EntryDate string `json:"entry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (dto *EntryDTO) Normalize() {
	dto.Title = strings.TrimSpace(dto.Title)
	dto.Content = strings.TrimSpace(dto.Content)
	dto.Mood = strings.ToLower(strings.TrimSpace(dto.Mood))
	dto.EntryDate = strings.TrimSpace(dto.EntryDate)
}

func (dto EntryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(maxTitleLength)
	v.Field("content", dto.Content).MaxLength(maxContentLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.Struct(dto)
}
