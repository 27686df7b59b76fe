// Package report aggregates a month of expenses against the budget.
package report

import "time"

type DayTotal struct {
	Date        time.Time `json:"date" db:"day"`
	TotalIDR    int64     `json:"total_idr" db:"total_idr"`
	ShoppingIDR int64     `json:"shopping_idr" db:"shopping_idr"`
	OverBudget  bool      `json:"over_budget" db:"-"`
}

type CategoryTotal struct {
	Category string `json:"category" db:"category"`
	TotalIDR int64  `json:"total_idr" db:"total_idr"`
}

type MonthlyReport struct {
	Year             int             `json:"year"`
	Month            time.Month      `json:"month"`
	DaysInMonth      int             `json:"days_in_month"`
	MonthlySalaryIDR int64           `json:"monthly_salary_idr"`
	FixedExpensesIDR int64           `json:"fixed_expenses_idr"`
	DailyLimitIDR    int64           `json:"daily_limit_idr"`
	TotalIDR         int64           `json:"total_idr"`
	ShoppingIDR      int64           `json:"shopping_idr"`
	BalanceIDR       int64           `json:"balance_idr"`
	DaysOverBudget   int             `json:"days_over_budget"`
	Days             []DayTotal      `json:"days"`
	Categories       []CategoryTotal `json:"categories"`

	DailyLimitDisplay string `json:"daily_limit_display"`
	TotalDisplay      string `json:"total_display"`
	BalanceDisplay    string `json:"balance_display"`
}
