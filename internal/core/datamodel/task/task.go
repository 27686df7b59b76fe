package task

import "time"

type Task struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;index;not null"`
	Title     string    `gorm:"column:title;not null"`
	Completed bool      `gorm:"column:completed;not null;default:false"`
	TaskDate  time.Time `gorm:"column:task_date;type:date"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
