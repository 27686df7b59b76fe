package budget

import (
	"time"

	budgetDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/budget"
)

// CategoryShopping is the expense category that counts toward daily spending.
const CategoryShopping = "belanja"

type Settings struct {
	UserID           int64     `json:"user_id"`
	MonthlySalaryIDR int64     `json:"monthly_salary_idr"`
	FixedExpensesIDR int64     `json:"fixed_expenses_idr"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasSalary is false in the "no salary data" state.
func (s *Settings) HasSalary() bool {
	return s.MonthlySalaryIDR > 0
}

// DailyLimit derives the limit for the month that contains day.
func (s *Settings) DailyLimit(day time.Time) int64 {
	return ComputeDailyLimit(s.MonthlySalaryIDR, s.FixedExpensesIDR, day.Year(), day.Month())
}

type FixedExpense struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	AmountIDR   int64     `json:"amount_idr"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromSettingsDataModel(s *budgetDatamodel.BudgetSettings) *Settings {
	return &Settings{
		UserID:           s.UserID,
		MonthlySalaryIDR: s.MonthlySalaryIDR,
		FixedExpensesIDR: s.FixedExpensesIDR,
		UpdatedAt:        s.UpdatedAt,
	}
}

func FromFixedExpenseDataModel(f *budgetDatamodel.FixedExpense) *FixedExpense {
	return &FixedExpense{
		ID:          f.ID,
		Description: f.Description,
		AmountIDR:   f.AmountIDR,
		CreatedAt:   f.CreatedAt,
	}
}

func FromFixedExpenseDataModelSlice(items []*budgetDatamodel.FixedExpense) []*FixedExpense {
	result := make([]*FixedExpense, len(items))
	for i, f := range items {
		result[i] = FromFixedExpenseDataModel(f)
	}
	return result
}
