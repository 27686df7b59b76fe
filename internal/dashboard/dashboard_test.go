package dashboard_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"

	appErrors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/budget"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/dashboard"
	"github.com/frahmantamala/mibu/internal/realtime"
	"github.com/frahmantamala/mibu/internal/schedule"
	"github.com/frahmantamala/mibu/internal/shopping"
	"github.com/frahmantamala/mibu/internal/task"
	"github.com/frahmantamala/mibu/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type MockTasks struct{ err error }

func (m *MockTasks) ListToday(_ context.Context, _ int64) (*task.DailyTasks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &task.DailyTasks{Tasks: []*task.Task{{ID: 1, Title: "Olahraga"}}, Pending: 1}, nil
}

type MockEvents struct{ limit int }

func (m *MockEvents) ListUpcoming(_ context.Context, _ int64, limit int) ([]*schedule.Event, error) {
	m.limit = limit
	return []*schedule.Event{{ID: 2, Title: "Kondangan"}}, nil
}

type MockShopping struct{}

func (MockShopping) ListItems(_ context.Context, _ int64) ([]shopping.Item, error) {
	return []shopping.Item{
		{ID: 1, Name: "Beras", UnitPriceIDR: 40_000, Quantity: 1, Purchased: true},
		{ID: 2, Name: "Telur", UnitPriceIDR: 25_000, Quantity: 2},
	}, nil
}

// MockBudget reports more spending on every call so refreshed snapshots can
// be told apart.
type MockBudget struct{ calls atomic.Int64 }

func (m *MockBudget) Summary(_ context.Context, _ int64) (*budget.Summary, error) {
	n := m.calls.Add(1)
	return &budget.Summary{DailyLimitIDR: 70_000, SpentTodayIDR: n * 10_000, HasSalary: true}, nil
}

var _ = Describe("Dashboard", func() {
	var (
		tasks    *MockTasks
		upcoming *MockEvents
		summary  *MockBudget
		service  *dashboard.Service
		slogger  *slog.Logger
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		tasks = &MockTasks{}
		upcoming = &MockEvents{}
		summary = &MockBudget{}
		service = dashboard.NewService(tasks, upcoming, MockShopping{}, summary, slogger)
	})

	Describe("Snapshot", func() {
		It("joins all four parts", func() {
			snap, err := service.Snapshot(context.Background(), 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(snap.Tasks.Pending).To(Equal(1))
			Expect(snap.Events).To(HaveLen(1))
			Expect(upcoming.limit).To(Equal(schedule.DefaultUpcomingLimit))
			Expect(snap.Shopping.TotalIDR).To(Equal(int64(90_000)))
			Expect(snap.Shopping.PurchasedIDR).To(Equal(int64(40_000)))
			Expect(snap.Budget.DailyLimitIDR).To(Equal(int64(70_000)))
		})

		It("fails as a whole when one part fails", func() {
			tasks.err = appErrors.NewBackendError("failed to list tasks", errors.New("timeout"))

			snap, err := service.Snapshot(context.Background(), 1)
			Expect(snap).To(BeNil())
			Expect(err).To(MatchError(appErrors.NewBackendError("", nil)))
		})

		It("wraps plain errors as backend errors", func() {
			tasks.err = errors.New("timeout")

			_, err := service.Snapshot(context.Background(), 1)
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadGateway))
		})
	})

	Describe("Handler", func() {
		const userID int64 = 5

		var (
			bus    *events.EventBus
			feed   *realtime.Feed
			server *httptest.Server
		)

		BeforeEach(func() {
			bus = events.NewEventBus(slogger)
			feed = realtime.NewFeed(bus, slogger)
			handler := dashboard.NewHandler(transport.NewBaseHandler(slogger), service, feed)

			router := chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(appErrors.ContextWithUserID(r.Context(), userID)))
				})
			})
			router.Get("/dashboard", handler.GetDashboard)
			router.Get("/dashboard/stream", handler.Stream)
			server = httptest.NewServer(router)
			DeferCleanup(server.Close)
		})

		It("serves a snapshot", func() {
			resp, err := http.Get(server.URL + "/dashboard")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var snap dashboard.Snapshot
			Expect(json.NewDecoder(resp.Body).Decode(&snap)).To(Succeed())
			Expect(snap.Shopping.Items).To(HaveLen(2))
		})

		It("streams a fresh snapshot after each change and unsubscribes on disconnect", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/dashboard/stream", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.Header.Get("Content-Type")).To(Equal("text/event-stream"))

			reader := bufio.NewReader(resp.Body)
			nextSnapshot := func() dashboard.Snapshot {
				for {
					line, err := reader.ReadString('\n')
					Expect(err).NotTo(HaveOccurred())
					if data, ok := strings.CutPrefix(line, "data: "); ok {
						var payload struct {
							Data dashboard.Snapshot `json:"data"`
						}
						Expect(json.Unmarshal([]byte(data), &payload)).To(Succeed())
						return payload.Data
					}
				}
			}

			first := nextSnapshot()
			Expect(first.Budget.SpentTodayIDR).To(Equal(int64(10_000)))
			topic := events.ChangeEventType(events.TableExpenses)
			Expect(bus.HandlerCount(topic)).To(Equal(1))

			feed.Notify(context.Background(), userID, events.TableExpenses, events.OpInsert, 1)
			second := nextSnapshot()
			Expect(second.Budget.SpentTodayIDR).To(Equal(int64(20_000)))

			cancel()
			Eventually(func() int { return bus.HandlerCount(topic) }).Should(BeZero())
		})
	})
})
