package schedule

import "time"

type Event struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;index;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	EventDate   time.Time `gorm:"column:event_date;type:date"`
	EventTime   *string   `gorm:"column:event_time"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Event) TableName() string {
	return "events"
}
