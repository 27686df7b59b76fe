package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/mibu/internal/expense"
	"github.com/frahmantamala/mibu/internal/report"
	"github.com/jmoiron/sqlx"
)

const dailyTotalsQuery = `
SELECT expense_date AS day,
       CAST(SUM(amount_idr) AS BIGINT) AS total_idr,
       CAST(SUM(CASE WHEN category = ? THEN amount_idr ELSE 0 END) AS BIGINT) AS shopping_idr
FROM expenses
WHERE user_id = ? AND expense_date >= ? AND expense_date < ?
GROUP BY expense_date
ORDER BY expense_date ASC`

const categoryTotalsQuery = `
SELECT category,
       CAST(SUM(amount_idr) AS BIGINT) AS total_idr
FROM expenses
WHERE user_id = ? AND expense_date >= ? AND expense_date < ?
GROUP BY category
ORDER BY total_idr DESC, category ASC`

// ReportRepository runs the aggregate queries through sqlx; they are plain
// SQL and work against both Postgres and SQLite.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.Repository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) DailyTotals(ctx context.Context, userID int64, from, to time.Time) ([]report.DayTotal, error) {
	var rows []report.DayTotal
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(dailyTotalsQuery), expense.CategoryShopping, userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Date = rows[i].Date.UTC()
	}
	return rows, nil
}

func (r *ReportRepository) CategoryTotals(ctx context.Context, userID int64, from, to time.Time) ([]report.CategoryTotal, error) {
	var rows []report.CategoryTotal
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(categoryTotalsQuery), userID, from, to)
	return rows, err
}
