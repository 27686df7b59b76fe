package expense_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	appErrors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	expenseDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/expense"
	"github.com/frahmantamala/mibu/internal/expense"
	expensePostgres "github.com/frahmantamala/mibu/internal/expense/postgres"
	"github.com/frahmantamala/mibu/internal/realtime"
	"github.com/frahmantamala/mibu/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Expense Handler Integration", func() {
	const userID int64 = 9

	var router chi.Router

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&expenseDatamodel.Expense{})).To(Succeed())

		clk := clock.Fixed(time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC))
		service := expense.NewService(expensePostgres.NewExpenseRepository(db), realtime.NopNotifier{}, clk, expense.Options{}, slogger)
		handler := expense.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(appErrors.ContextWithUserID(r.Context(), userID)))
			})
		})
		router.Get("/expenses", handler.ListExpenses)
		router.Post("/expenses", handler.CreateExpense)
		router.Delete("/expenses/{id}", handler.DeleteExpense)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(context.Background())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("creates an expense and lists it for today", func() {
		w := do(http.MethodPost, "/expenses", `{"name":"Beras","amount_idr":65000}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created expense.Expense
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.UserID).To(Equal(userID))
		Expect(created.Category).To(Equal(expense.CategoryShopping))

		w = do(http.MethodGet, "/expenses?date=2024-06-15", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var daily expense.DailyExpenses
		Expect(json.NewDecoder(w.Body).Decode(&daily)).To(Succeed())
		Expect(daily.Expenses).To(HaveLen(1))
		Expect(daily.ShoppingIDR).To(Equal(int64(65_000)))
	})

	It("answers validation failures with a localized message", func() {
		w := do(http.MethodPost, "/expenses", `{"name":"Beras","amount_idr":0}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]["code"]).To(Equal("VALIDATION_FAILED"))
		Expect(body["error"]["message_id"]).To(Equal("Data yang dimasukkan tidak valid"))
	})

	It("accepts the amount as formatted rupiah", func() {
		w := do(http.MethodPost, "/expenses", `{"name":"Kopi","amount_idr":"Rp 25.000","category":"makan"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created expense.Expense
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.AmountIDR).To(Equal(int64(25_000)))
		Expect(created.Category).To(Equal("makan"))
	})

	It("rejects an amount that is not rupiah", func() {
		w := do(http.MethodPost, "/expenses", `{"name":"Kopi","amount_idr":"25rb"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("refuses to link a hand entered expense to a shopping item", func() {
		w := do(http.MethodPost, "/expenses", `{"name":"Beras","amount_idr":40000,"shopping_item_id":1}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]["code"]).To(Equal("VALIDATION_FAILED"))

		w = do(http.MethodGet, "/expenses?date=2024-06-15", "")
		var daily expense.DailyExpenses
		Expect(json.NewDecoder(w.Body).Decode(&daily)).To(Succeed())
		Expect(daily.Expenses).To(BeEmpty())
	})

	It("rejects malformed dates", func() {
		w := do(http.MethodGet, "/expenses?date=15-06-2024", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 when deleting an unknown expense", func() {
		w := do(http.MethodDelete, "/expenses/77", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("deletes an existing expense", func() {
		w := do(http.MethodPost, "/expenses", `{"name":"Beras","amount_idr":65000}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodDelete, "/expenses/1", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})
