package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaysInMonth returns the number of days of month in year (28 to 31).
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ComputeDailyLimit spreads what is left of the salary after mandatory
// expenses evenly over the days of the month, rounded to whole rupiah.
// Negative inputs count as zero and the result is never negative.
func ComputeDailyLimit(monthlySalary, fixedExpenses int64, year int, month time.Month) int64 {
	if monthlySalary < 0 {
		monthlySalary = 0
	}
	if fixedExpenses < 0 {
		fixedExpenses = 0
	}

	remaining := decimal.NewFromInt(monthlySalary).Sub(decimal.NewFromInt(fixedExpenses))
	if !remaining.IsPositive() {
		return 0
	}

	days := decimal.NewFromInt(int64(DaysInMonth(year, month)))
	// Round rounds half away from zero
	return remaining.Div(days).Round(0).IntPart()
}

// IsOverBudget reports whether spending exceeded a positive daily limit.
// A zero limit means no salary data, which is never "over".
func IsOverBudget(dailyLimit, spent int64) bool {
	return dailyLimit > 0 && spent > dailyLimit
}

// Overage is how far spending went past the limit, or 0.
func Overage(dailyLimit, spent int64) int64 {
	if !IsOverBudget(dailyLimit, spent) {
		return 0
	}
	return spent - dailyLimit
}

// Remaining is what can still be spent today, never below 0.
func Remaining(dailyLimit, spent int64) int64 {
	if spent >= dailyLimit {
		return 0
	}
	return dailyLimit - spent
}
