package postgres

import (
	"context"
	"errors"
	"time"

	taskDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/task"
	"github.com/frahmantamala/mibu/internal/task"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListByDate(ctx context.Context, userID int64, date time.Time) ([]*taskDatamodel.Task, error) {
	var tasks []*taskDatamodel.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_date = ?", userID, date).
		Order("completed ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, id int64) (*taskDatamodel.Task, error) {
	var t taskDatamodel.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *taskDatamodel.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepository) SetCompleted(ctx context.Context, userID, id int64, completed bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&taskDatamodel.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("completed", completed)
	return result.RowsAffected > 0, result.Error
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&taskDatamodel.Task{})
	return result.RowsAffected > 0, result.Error
}
