package budget

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	"github.com/frahmantamala/mibu/internal/core/common/validation"
	budgetDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/budget"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/realtime"
	"github.com/frahmantamala/mibu/pkg/rupiah"
)

type Repository interface {
	// GetSettings returns nil without error when the user never saved settings.
	GetSettings(ctx context.Context, userID int64) (*budgetDatamodel.BudgetSettings, error)
	UpsertSettings(ctx context.Context, userID int64, values map[string]interface{}) (*budgetDatamodel.BudgetSettings, error)
	ListFixedExpenses(ctx context.Context, userID int64) ([]*budgetDatamodel.FixedExpense, error)
	CreateFixedExpense(ctx context.Context, item *budgetDatamodel.FixedExpense) error
	// DeleteFixedExpense reports whether a row of userID was removed.
	DeleteFixedExpense(ctx context.Context, userID, id int64) (bool, error)
	SumFixedExpenses(ctx context.Context, userID int64) (int64, error)
}

// SpendingReader yields today's shopping spend of a user.
type SpendingReader interface {
	TodaySpending(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo     Repository
	spending SpendingReader
	notifier realtime.Notifier
	clock    *clock.Clock
	timeout  time.Duration
	logger   *slog.Logger
}

func NewService(repo Repository, spending SpendingReader, notifier realtime.Notifier, clk *clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		spending: spending,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

// WithTimeout bounds every repository call; zero keeps the default.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

func (s *Service) GetSettings(ctx context.Context, userID int64) (*Settings, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load budget settings", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to load budget settings", err)
	}
	if row == nil {
		return &Settings{UserID: userID}, nil
	}
	return FromSettingsDataModel(row), nil
}

func (s *Service) SaveSalary(ctx context.Context, userID int64, dto SaveAmountDTO) (*Settings, error) {
	if err := validateNonNegative("monthly_salary_idr", dto.AmountIDR); err != nil {
		return nil, err
	}
	return s.upsert(ctx, userID, map[string]interface{}{"monthly_salary_idr": dto.AmountIDR})
}

func (s *Service) SaveFixedExpenses(ctx context.Context, userID int64, dto SaveAmountDTO) (*Settings, error) {
	if err := validateNonNegative("fixed_expenses_idr", dto.AmountIDR); err != nil {
		return nil, err
	}
	return s.upsert(ctx, userID, map[string]interface{}{"fixed_expenses_idr": dto.AmountIDR})
}

func (s *Service) SaveSettings(ctx context.Context, userID int64, dto SaveSettingsDTO) (*Settings, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	return s.upsert(ctx, userID, map[string]interface{}{
		"monthly_salary_idr": dto.MonthlySalaryIDR,
		"fixed_expenses_idr": dto.FixedExpensesIDR,
	})
}

func (s *Service) upsert(ctx context.Context, userID int64, values map[string]interface{}) (*Settings, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.repo.UpsertSettings(ctx, userID, values)
	if err != nil {
		s.logger.Error("failed to save budget settings", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to save budget settings", err)
	}

	s.notifier.Notify(ctx, userID, events.TableBudgetSettings, events.OpUpdate, row.ID)
	s.logger.Info("budget settings saved",
		"user_id", userID,
		"monthly_salary_idr", row.MonthlySalaryIDR,
		"fixed_expenses_idr", row.FixedExpensesIDR)

	return FromSettingsDataModel(row), nil
}

// Summary combines the settings with today's spending into the figures the
// dashboard shows.
func (s *Service) Summary(ctx context.Context, userID int64) (*Summary, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	spent, err := s.spending.TodaySpending(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load today's spending", "error", err, "user_id", userID)
		return nil, err
	}

	today := s.clock.Today()
	limit := settings.DailyLimit(today)
	remaining, overage := Remaining(limit, spent), Overage(limit, spent)

	return &Summary{
		Date:              today,
		MonthlySalaryIDR:  settings.MonthlySalaryIDR,
		FixedExpensesIDR:  settings.FixedExpensesIDR,
		DaysInMonth:       DaysInMonth(today.Year(), today.Month()),
		DailyLimitIDR:     limit,
		SpentTodayIDR:     spent,
		RemainingIDR:      remaining,
		OverageIDR:        overage,
		IsOverBudget:      IsOverBudget(limit, spent),
		HasSalary:         settings.HasSalary(),
		DailyLimitDisplay: rupiah.Format(limit),
		SpentTodayDisplay: rupiah.Format(spent),
		RemainingDisplay:  rupiah.Format(remaining),
		OverageDisplay:    rupiah.Format(overage),
	}, nil
}

func (s *Service) ListFixedExpenses(ctx context.Context, userID int64) (*FixedExpenseList, error) {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.ListFixedExpenses(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list mandatory expenses", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to list mandatory expenses", err)
	}

	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, errors.NewBackendError("failed to load budget settings", err)
	}

	list := &FixedExpenseList{Items: FromFixedExpenseDataModelSlice(rows)}
	for _, item := range list.Items {
		list.ItemizedTotalIDR += item.AmountIDR
	}
	if settings != nil {
		list.CachedTotalIDR = settings.FixedExpensesIDR
	}
	list.InSync = list.ItemizedTotalIDR == list.CachedTotalIDR

	return list, nil
}

func (s *Service) AddFixedExpense(ctx context.Context, userID int64, dto AddFixedExpenseDTO) (*FixedExpense, error) {
	dto.Description = strings.TrimSpace(dto.Description)

	v := validation.NewValidator()
	v.Field("description", dto.Description).Required().MaxLength(200)
	v.Field("amount_idr", dto.AmountIDR).MinInt(1, errors.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := &budgetDatamodel.FixedExpense{
		UserID:      userID,
		Description: dto.Description,
		AmountIDR:   dto.AmountIDR,
	}
	if err := s.repo.CreateFixedExpense(ctx, row); err != nil {
		s.logger.Error("failed to add mandatory expense", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to add mandatory expense", err)
	}

	s.notifier.Notify(ctx, userID, events.TableFixedExpenses, events.OpInsert, row.ID)
	s.logger.Info("mandatory expense added", "id", row.ID, "user_id", userID, "amount_idr", row.AmountIDR)

	return FromFixedExpenseDataModel(row), nil
}

// DeleteFixedExpense removes one item. The cached total is left alone until
// SaveFixedTotal runs.
func (s *Service) DeleteFixedExpense(ctx context.Context, userID, id int64) error {
	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.repo.DeleteFixedExpense(ctx, userID, id)
	if err != nil {
		s.logger.Error("failed to delete mandatory expense", "error", err, "id", id, "user_id", userID)
		return errors.NewBackendError("failed to delete mandatory expense", err)
	}
	if !deleted {
		return errors.ErrFixedExpenseNotFound
	}

	s.notifier.Notify(ctx, userID, events.TableFixedExpenses, events.OpDelete, id)
	return nil
}

// SaveFixedTotal stores the itemized sum as the cached fixed-expenses total.
func (s *Service) SaveFixedTotal(ctx context.Context, userID int64) (*Settings, error) {
	sumCtx, cancel := errors.WithTimeout(ctx, s.timeout)
	total, err := s.repo.SumFixedExpenses(sumCtx, userID)
	cancel()
	if err != nil {
		s.logger.Error("failed to sum mandatory expenses", "error", err, "user_id", userID)
		return nil, errors.NewBackendError("failed to sum mandatory expenses", err)
	}

	return s.upsert(ctx, userID, map[string]interface{}{"fixed_expenses_idr": total})
}

func validateNonNegative(field string, amount int64) *errors.AppError {
	v := validation.NewValidator()
	v.Field(field, amount).MinInt(0, errors.ErrCodeInvalidAmount)
	return v.Validate()
}
