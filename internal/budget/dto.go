package budget

import "time"

type SaveAmountDTO struct {
	AmountIDR int64 `json:"amount_idr" validate:"gte=0"`
}

type SaveSettingsDTO struct {
	MonthlySalaryIDR int64 `json:"monthly_salary_idr" validate:"gte=0"`
	FixedExpensesIDR int64 `json:"fixed_expenses_idr" validate:"gte=0"`
}

type AddFixedExpenseDTO struct {
	Description string `json:"description" validate:"required,max=200"`
	AmountIDR   int64  `json:"amount_idr"`
}

// FixedExpenseList reports the itemized list next to the cached total. The
// two disagree until the user saves the total.
type FixedExpenseList struct {
	Items            []*FixedExpense `json:"items"`
	ItemizedTotalIDR int64           `json:"itemized_total_idr"`
	CachedTotalIDR   int64           `json:"cached_total_idr"`
	InSync           bool            `json:"in_sync"`
}

type Summary struct {
	Date             time.Time `json:"date"`
	MonthlySalaryIDR int64     `json:"monthly_salary_idr"`
	FixedExpensesIDR int64     `json:"fixed_expenses_idr"`
	DaysInMonth      int       `json:"days_in_month"`
	DailyLimitIDR    int64     `json:"daily_limit_idr"`
	SpentTodayIDR    int64     `json:"spent_today_idr"`
	RemainingIDR     int64     `json:"remaining_idr"`
	OverageIDR       int64     `json:"overage_idr"`
	IsOverBudget     bool      `json:"is_over_budget"`
	HasSalary        bool      `json:"has_salary"`

	// formatted for display, e.g. "Rp 70.000"
	DailyLimitDisplay string `json:"daily_limit_display"`
	SpentTodayDisplay string `json:"spent_today_display"`
	RemainingDisplay  string `json:"remaining_display"`
	OverageDisplay    string `json:"overage_display"`
}
