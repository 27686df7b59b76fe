package budget_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	appErrors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/budget"
	"github.com/frahmantamala/mibu/internal/core/clock"
	budgetDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/budget"
	"github.com/frahmantamala/mibu/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type MockRepository struct {
	settings map[int64]*budgetDatamodel.BudgetSettings
	items    []*budgetDatamodel.FixedExpense
	nextID   int64
	failErr  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{settings: make(map[int64]*budgetDatamodel.BudgetSettings)}
}

func (m *MockRepository) GetSettings(_ context.Context, userID int64) (*budgetDatamodel.BudgetSettings, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	return m.settings[userID], nil
}

func (m *MockRepository) UpsertSettings(_ context.Context, userID int64, values map[string]interface{}) (*budgetDatamodel.BudgetSettings, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	row, ok := m.settings[userID]
	if !ok {
		m.nextID++
		row = &budgetDatamodel.BudgetSettings{ID: m.nextID, UserID: userID}
		m.settings[userID] = row
	}
	if v, ok := values["monthly_salary_idr"]; ok {
		row.MonthlySalaryIDR = v.(int64)
	}
	if v, ok := values["fixed_expenses_idr"]; ok {
		row.FixedExpensesIDR = v.(int64)
	}
	cp := *row
	return &cp, nil
}

func (m *MockRepository) ListFixedExpenses(_ context.Context, userID int64) ([]*budgetDatamodel.FixedExpense, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var out []*budgetDatamodel.FixedExpense
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MockRepository) CreateFixedExpense(_ context.Context, item *budgetDatamodel.FixedExpense) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.nextID++
	item.ID = m.nextID
	m.items = append(m.items, item)
	return nil
}

func (m *MockRepository) DeleteFixedExpense(_ context.Context, userID, id int64) (bool, error) {
	if m.failErr != nil {
		return false, m.failErr
	}
	for i, item := range m.items {
		if item.ID == id && item.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) SumFixedExpenses(ctx context.Context, userID int64) (int64, error) {
	items, err := m.ListFixedExpenses(ctx, userID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, item := range items {
		total += item.AmountIDR
	}
	return total, nil
}

type MockSpending struct {
	spent   map[int64]int64
	failErr error
}

func (m *MockSpending) TodaySpending(_ context.Context, userID int64) (int64, error) {
	if m.failErr != nil {
		return 0, m.failErr
	}
	return m.spent[userID], nil
}

type notification struct {
	UserID int64
	Table  string
	Op     events.ChangeOp
}

type RecordingNotifier struct {
	mu   sync.Mutex
	seen []notification
}

func (n *RecordingNotifier) Notify(_ context.Context, userID int64, table string, op events.ChangeOp, _ int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, notification{UserID: userID, Table: table, Op: op})
}

func (n *RecordingNotifier) Seen() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.seen...)
}

var _ = Describe("Budget Service", func() {
	const userID int64 = 7

	var (
		repo     *MockRepository
		spending *MockSpending
		notifier *RecordingNotifier
		service  *budget.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		spending = &MockSpending{spent: make(map[int64]int64)}
		notifier = &RecordingNotifier{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		wib := time.FixedZone("WIB", 7*60*60)
		clk := clock.Fixed(time.Date(2024, time.June, 15, 9, 30, 0, 0, wib))
		service = budget.NewService(repo, spending, notifier, clk, logger)
		ctx = context.Background()
	})

	Describe("GetSettings", func() {
		It("returns zero settings before anything was saved", func() {
			settings, err := service.GetSettings(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(settings.MonthlySalaryIDR).To(BeZero())
			Expect(settings.FixedExpensesIDR).To(BeZero())
			Expect(settings.HasSalary()).To(BeFalse())
		})

		It("wraps repository failures as backend errors", func() {
			repo.failErr = errors.New("connection refused")

			_, err := service.GetSettings(ctx, userID)
			Expect(err).To(HaveOccurred())
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(appErrors.ErrCodeBackendUnavailable))
		})
	})

	Describe("SaveSalary", func() {
		It("creates the settings row on first save and notifies", func() {
			settings, err := service.SaveSalary(ctx, userID, budget.SaveAmountDTO{AmountIDR: 3_000_000})
			Expect(err).NotTo(HaveOccurred())
			Expect(settings.MonthlySalaryIDR).To(Equal(int64(3_000_000)))
			Expect(notifier.Seen()).To(ConsistOf(notification{UserID: userID, Table: events.TableBudgetSettings, Op: events.OpUpdate}))
		})

		It("keeps the fixed expenses when only the salary changes", func() {
			_, err := service.SaveFixedExpenses(ctx, userID, budget.SaveAmountDTO{AmountIDR: 900_000})
			Expect(err).NotTo(HaveOccurred())

			settings, err := service.SaveSalary(ctx, userID, budget.SaveAmountDTO{AmountIDR: 3_000_000})
			Expect(err).NotTo(HaveOccurred())
			Expect(settings.FixedExpensesIDR).To(Equal(int64(900_000)))
		})

		It("rejects a negative salary without writing", func() {
			_, err := service.SaveSalary(ctx, userID, budget.SaveAmountDTO{AmountIDR: -1})
			Expect(err).To(HaveOccurred())
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(appErrors.ErrorTypeValidation))
			Expect(repo.settings).To(BeEmpty())
			Expect(notifier.Seen()).To(BeEmpty())
		})
	})

	Describe("SaveSettings", func() {
		It("rejects negative amounts through struct validation", func() {
			_, err := service.SaveSettings(ctx, userID, budget.SaveSettingsDTO{MonthlySalaryIDR: 1, FixedExpensesIDR: -5})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("fixed_expenses_idr"))
		})
	})

	Describe("Summary", func() {
		It("derives the June figures from salary, fixed expenses and spending", func() {
			_, err := service.SaveSettings(ctx, userID, budget.SaveSettingsDTO{MonthlySalaryIDR: 3_000_000, FixedExpensesIDR: 900_000})
			Expect(err).NotTo(HaveOccurred())
			spending.spent[userID] = 90_000

			summary, err := service.Summary(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.DaysInMonth).To(Equal(30))
			Expect(summary.DailyLimitIDR).To(Equal(int64(70_000)))
			Expect(summary.SpentTodayIDR).To(Equal(int64(90_000)))
			Expect(summary.IsOverBudget).To(BeTrue())
			Expect(summary.OverageIDR).To(Equal(int64(20_000)))
			Expect(summary.RemainingIDR).To(BeZero())
			Expect(summary.HasSalary).To(BeTrue())
			Expect(summary.DailyLimitDisplay).To(Equal("Rp 70.000"))
			Expect(summary.SpentTodayDisplay).To(Equal("Rp 90.000"))
			Expect(summary.OverageDisplay).To(Equal("Rp 20.000"))
			Expect(summary.RemainingDisplay).To(Equal("Rp 0"))
			Expect(summary.Date).To(Equal(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
		})

		It("reports the no-salary state when nothing was saved", func() {
			summary, err := service.Summary(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.DailyLimitIDR).To(BeZero())
			Expect(summary.IsOverBudget).To(BeFalse())
			Expect(summary.HasSalary).To(BeFalse())
		})

		It("propagates spending failures", func() {
			spending.failErr = errors.New("timeout")
			_, err := service.Summary(ctx, userID)
			Expect(err).To(MatchError("timeout"))
		})
	})

	Describe("Mandatory expenses", func() {
		It("validates description and amount", func() {
			_, err := service.AddFixedExpense(ctx, userID, budget.AddFixedExpenseDTO{Description: "  ", AmountIDR: 0})
			Expect(err).To(HaveOccurred())
			appErr, _ := appErrors.IsAppError(err)
			details, ok := appErr.Details.(appErrors.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(2))
			Expect(repo.items).To(BeEmpty())
		})

		It("leaves the cached total stale until the total is saved", func() {
			_, err := service.AddFixedExpense(ctx, userID, budget.AddFixedExpenseDTO{Description: "Kos", AmountIDR: 750_000})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AddFixedExpense(ctx, userID, budget.AddFixedExpenseDTO{Description: "Listrik", AmountIDR: 150_000})
			Expect(err).NotTo(HaveOccurred())

			list, err := service.ListFixedExpenses(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items).To(HaveLen(2))
			Expect(list.ItemizedTotalIDR).To(Equal(int64(900_000)))
			Expect(list.CachedTotalIDR).To(BeZero())
			Expect(list.InSync).To(BeFalse())

			settings, err := service.SaveFixedTotal(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(settings.FixedExpensesIDR).To(Equal(int64(900_000)))

			list, err = service.ListFixedExpenses(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.InSync).To(BeTrue())
		})

		It("returns not found when deleting another user's item", func() {
			item, err := service.AddFixedExpense(ctx, userID, budget.AddFixedExpenseDTO{Description: "Kos", AmountIDR: 750_000})
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteFixedExpense(ctx, userID+1, item.ID)
			Expect(errors.Is(err, appErrors.ErrFixedExpenseNotFound)).To(BeTrue())

			Expect(service.DeleteFixedExpense(ctx, userID, item.ID)).To(Succeed())
			Expect(repo.items).To(BeEmpty())
		})
	})
})
