package report

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/budget"
	"github.com/frahmantamala/mibu/internal/core/common/validation"
	"github.com/frahmantamala/mibu/pkg/rupiah"
	"golang.org/x/sync/errgroup"
)

type Repository interface {
	// DailyTotals groups expenses dated in [from, to) by day, oldest first.
	DailyTotals(ctx context.Context, userID int64, from, to time.Time) ([]DayTotal, error)
	CategoryTotals(ctx context.Context, userID int64, from, to time.Time) ([]CategoryTotal, error)
}

type SettingsReader interface {
	GetSettings(ctx context.Context, userID int64) (*budget.Settings, error)
}

type Service struct {
	repo     Repository
	settings SettingsReader
	timeout  time.Duration
	logger   *slog.Logger
}

func NewService(repo Repository, settings SettingsReader, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		settings: settings,
		logger:   logger,
	}
}

func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Monthly reports spending of one calendar month. A day is over budget when
// its shopping total exceeds the daily limit derived from the current
// settings.
func (s *Service) Monthly(ctx context.Context, userID int64, year int, month time.Month) (*MonthlyReport, error) {
	v := validation.NewValidator()
	v.Field("year", int64(year)).MinInt(2000, errors.ErrCodeInvalidDate).MaxInt(2100, errors.ErrCodeInvalidDate)
	v.Field("month", int64(month)).MinInt(1, errors.ErrCodeInvalidDate).MaxInt(12, errors.ErrCodeInvalidDate)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var (
		settings   *budget.Settings
		days       []DayTotal
		categories []CategoryTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = s.settings.GetSettings(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		days, err = s.repo.DailyTotals(gctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.repo.CategoryTotals(gctx, userID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to build monthly report", "error", err, "user_id", userID, "year", year, "month", int(month))
		return nil, errors.NewBackendError("failed to build monthly report", err)
	}

	report := &MonthlyReport{
		Year:             year,
		Month:            month,
		DaysInMonth:      budget.DaysInMonth(year, month),
		MonthlySalaryIDR: settings.MonthlySalaryIDR,
		FixedExpensesIDR: settings.FixedExpensesIDR,
		DailyLimitIDR:    settings.DailyLimit(from),
		Days:             days,
		Categories:       categories,
	}
	if report.Days == nil {
		report.Days = []DayTotal{}
	}
	if report.Categories == nil {
		report.Categories = []CategoryTotal{}
	}

	for i := range report.Days {
		day := &report.Days[i]
		day.OverBudget = budget.IsOverBudget(report.DailyLimitIDR, day.ShoppingIDR)
		if day.OverBudget {
			report.DaysOverBudget++
		}
		report.TotalIDR += day.TotalIDR
		report.ShoppingIDR += day.ShoppingIDR
	}
	report.BalanceIDR = report.MonthlySalaryIDR - report.FixedExpensesIDR - report.TotalIDR
	report.DailyLimitDisplay = rupiah.Format(report.DailyLimitIDR)
	report.TotalDisplay = rupiah.Format(report.TotalIDR)
	report.BalanceDisplay = rupiah.Format(report.BalanceIDR)

	return report, nil
}
