package task

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	"github.com/frahmantamala/mibu/internal/core/common/validation"
)

const maxTitleLength = 200

// CreateTaskDTO adds a task for a day; an empty date means today.
type CreateTaskDTO struct {
	Title    string `json:"title"`
	TaskDate string `json:"task_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (dto *CreateTaskDTO) Normalize() {
	dto.Title = strings.TrimSpace(dto.Title)
	dto.TaskDate = strings.TrimSpace(dto.TaskDate)
}

func (dto CreateTaskDTO) Validate() *errors.AppError {
	if err := validation.ValidateName("title", dto.Title, maxTitleLength); err != nil {
		return err
	}
	if err := validation.Struct(dto); err != nil {
		return errors.NewValidationFieldError("task_date", "task_date must be YYYY-MM-DD", errors.ErrCodeInvalidDate)
	}
	return nil
}

type DailyTasks struct {
	Date      time.Time `json:"date"`
	Tasks     []*Task   `json:"tasks"`
	Completed int       `json:"completed"`
	Pending   int       `json:"pending"`
}

func newDailyTasks(date time.Time, tasks []*Task) *DailyTasks {
	daily := &DailyTasks{Date: clock.Date(date), Tasks: tasks}
	for _, t := range tasks {
		if t.Completed {
			daily.Completed++
		} else {
			daily.Pending++
		}
	}
	return daily
}
