package shopping

import "time"

type ShoppingItem struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;index;not null"`
	Name         string    `gorm:"column:name;not null"`
	UnitPriceIDR int64     `gorm:"column:unit_price_idr;not null"`
	Quantity     int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShoppingItem) TableName() string {
	return "shopping_items"
}
