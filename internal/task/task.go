package task

import (
	"time"

	taskDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/task"
)

type Task struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	TaskDate  time.Time `json:"task_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		TaskDate:  t.TaskDate,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	return &Task{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Completed: t.Completed,
		TaskDate:  t.TaskDate,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModelSlice(tasks []*taskDatamodel.Task) []*Task {
	result := make([]*Task, len(tasks))
	for i, t := range tasks {
		result[i] = FromDataModel(t)
	}
	return result
}
