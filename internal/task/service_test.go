package task_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	appErrors "github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/core/clock"
	taskDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/task"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/task"
	taskPostgres "github.com/frahmantamala/mibu/internal/task/postgres"
	"github.com/frahmantamala/mibu/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type RecordingNotifier struct {
	mu  sync.Mutex
	ops []events.ChangeOp
}

func (n *RecordingNotifier) Notify(_ context.Context, _ int64, table string, op events.ChangeOp, _ int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if table == events.TableTasks {
		n.ops = append(n.ops, op)
	}
}

func (n *RecordingNotifier) Ops() []events.ChangeOp {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]events.ChangeOp(nil), n.ops...)
}

var _ = Describe("Task Service", func() {
	const userID int64 = 3

	var (
		ctx      context.Context
		service  *task.Service
		notifier *RecordingNotifier
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&taskDatamodel.Task{})).To(Succeed())

		wib := time.FixedZone("WIB", 7*3600)
		clk := clock.Fixed(time.Date(2024, time.June, 15, 6, 30, 0, 0, wib))

		notifier = &RecordingNotifier{}
		service = task.NewService(taskPostgres.NewTaskRepository(db), notifier, clk, slogger)
	})

	It("creates a task for today by default", func() {
		created, err := service.CreateTask(ctx, userID, task.CreateTaskDTO{Title: "  Bayar listrik "})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Title).To(Equal("Bayar listrik"))
		Expect(created.TaskDate).To(Equal(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
		Expect(created.Completed).To(BeFalse())

		daily, err := service.ListToday(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		Expect(daily.Tasks).To(HaveLen(1))
		Expect(daily.Pending).To(Equal(1))
		Expect(notifier.Ops()).To(Equal([]events.ChangeOp{events.OpInsert}))
	})

	It("creates a task for an explicit date", func() {
		_, err := service.CreateTask(ctx, userID, task.CreateTaskDTO{Title: "Arisan", TaskDate: "2024-06-20"})
		Expect(err).NotTo(HaveOccurred())

		daily, err := service.ListToday(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		Expect(daily.Tasks).To(BeEmpty())

		daily, err = service.ListByDate(ctx, userID, time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC))
		Expect(err).NotTo(HaveOccurred())
		Expect(daily.Tasks).To(HaveLen(1))
	})

	It("rejects an empty title and a malformed date without writing", func() {
		_, err := service.CreateTask(ctx, userID, task.CreateTaskDTO{Title: "   "})
		Expect(err).To(HaveOccurred())
		appErr, ok := appErrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))

		_, err = service.CreateTask(ctx, userID, task.CreateTaskDTO{Title: "Arisan", TaskDate: "20-06-2024"})
		Expect(err).To(HaveOccurred())

		Expect(notifier.Ops()).To(BeEmpty())
	})

	It("toggles completion back and forth", func() {
		created, err := service.CreateTask(ctx, userID, task.CreateTaskDTO{Title: "Olahraga"})
		Expect(err).NotTo(HaveOccurred())

		toggled, err := service.ToggleTask(ctx, userID, created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(toggled.Completed).To(BeTrue())

		daily, err := service.ListToday(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		Expect(daily.Completed).To(Equal(1))
		Expect(daily.Pending).To(BeZero())

		toggled, err = service.ToggleTask(ctx, userID, created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(toggled.Completed).To(BeFalse())
	})

	It("hides tasks of other users", func() {
		created, err := service.CreateTask(ctx, userID, task.CreateTaskDTO{Title: "Olahraga"})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.ToggleTask(ctx, userID+1, created.ID)
		Expect(err).To(MatchError(appErrors.ErrTaskNotFound))
		Expect(service.DeleteTask(ctx, userID+1, created.ID)).To(MatchError(appErrors.ErrTaskNotFound))

		daily, err := service.ListToday(ctx, userID+1)
		Expect(err).NotTo(HaveOccurred())
		Expect(daily.Tasks).To(BeEmpty())
	})

	It("deletes a task", func() {
		created, err := service.CreateTask(ctx, userID, task.CreateTaskDTO{Title: "Olahraga"})
		Expect(err).NotTo(HaveOccurred())

		Expect(service.DeleteTask(ctx, userID, created.ID)).To(Succeed())
		Expect(service.DeleteTask(ctx, userID, created.ID)).To(MatchError(appErrors.ErrTaskNotFound))
		Expect(notifier.Ops()).To(Equal([]events.ChangeOp{events.OpInsert, events.OpDelete}))
	})

	Describe("Handler", func() {
		var router chi.Router

		BeforeEach(func() {
			slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			handler := task.NewHandler(transport.NewBaseHandler(slogger), service)

			router = chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(appErrors.ContextWithUserID(r.Context(), userID)))
				})
			})
			router.Get("/tasks", handler.ListTasks)
			router.Post("/tasks", handler.CreateTask)
			router.Patch("/tasks/{id}/toggle", handler.ToggleTask)
			router.Delete("/tasks/{id}", handler.DeleteTask)
		})

		do := func(method, path, body string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
			return w
		}

		It("runs the create, toggle, delete cycle", func() {
			w := do(http.MethodPost, "/tasks", `{"title":"Belajar Go"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))

			var created task.Task
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

			w = do(http.MethodPatch, "/tasks/"+strconv.FormatInt(created.ID, 10)+"/toggle", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			w = do(http.MethodGet, "/tasks?date=2024-06-15", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			var daily task.DailyTasks
			Expect(json.NewDecoder(w.Body).Decode(&daily)).To(Succeed())
			Expect(daily.Completed).To(Equal(1))

			w = do(http.MethodDelete, "/tasks/"+strconv.FormatInt(created.ID, 10), "")
			Expect(w.Code).To(Equal(http.StatusNoContent))
		})

		It("answers 404 for an unknown task and 400 for a bad date", func() {
			Expect(do(http.MethodPatch, "/tasks/999/toggle", "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodGet, "/tasks?date=kemarin", "").Code).To(Equal(http.StatusBadRequest))
		})
	})
})
