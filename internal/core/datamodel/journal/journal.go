package journal

import "time"

type JournalEntry struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;index;not null"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content"`
	Mood      string    `gorm:"column:mood"`
	EntryDate time.Time `gorm:"column:entry_date;type:date"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}
