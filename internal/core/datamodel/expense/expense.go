package expense

import "time"

type Expense struct {
	ID             int64     `gorm:"primaryKey"`
	UserID         int64     `gorm:"column:user_id;index:idx_expenses_user_date;not null"`
	AmountIDR      int64     `gorm:"column:amount_idr;not null"`
	Description    string    `gorm:"column:description;not null"`
	Category       string    `gorm:"column:category;not null"`
	ExpenseDate    time.Time `gorm:"column:expense_date;index:idx_expenses_user_date;type:date"`
	ShoppingItemID *int64    `gorm:"column:shopping_item_id;index"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
