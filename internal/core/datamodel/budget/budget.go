package budget

import "time"

type BudgetSettings struct {
	ID               int64     `gorm:"primaryKey"`
	UserID           int64     `gorm:"column:user_id;uniqueIndex;not null"`
	MonthlySalaryIDR int64     `gorm:"column:monthly_salary_idr;not null;default:0"`
	FixedExpensesIDR int64     `gorm:"column:fixed_expenses_idr;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BudgetSettings) TableName() string {
	return "budget_settings"
}

// FixedExpense is one itemized mandatory monthly expense.
type FixedExpense struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;index;not null"`
	Description string    `gorm:"column:description;not null"`
	AmountIDR   int64     `gorm:"column:amount_idr;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (FixedExpense) TableName() string {
	return "fixed_expenses"
}
