package postgres

import (
	"context"
	"time"

	scheduleDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/schedule"
	"github.com/frahmantamala/mibu/internal/schedule"
	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) schedule.Repository {
	return &EventRepository{db: db}
}

func (r *EventRepository) ListFrom(ctx context.Context, userID int64, from time.Time, limit int) ([]*scheduleDatamodel.Event, error) {
	var rows []*scheduleDatamodel.Event
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND event_date >= ?", userID, from).
		Order("event_date ASC, event_time ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&rows).Error
	return rows, err
}

func (r *EventRepository) Create(ctx context.Context, e *scheduleDatamodel.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&scheduleDatamodel.Event{})
	return result.RowsAffected > 0, result.Error
}
