package rest

import (
	"log/slog"

	"github.com/frahmantamala/mibu/internal/auth"
	"github.com/frahmantamala/mibu/internal/budget"
	"github.com/frahmantamala/mibu/internal/dashboard"
	"github.com/frahmantamala/mibu/internal/diagnostics"
	"github.com/frahmantamala/mibu/internal/expense"
	"github.com/frahmantamala/mibu/internal/journal"
	"github.com/frahmantamala/mibu/internal/report"
	"github.com/frahmantamala/mibu/internal/schedule"
	"github.com/frahmantamala/mibu/internal/shopping"
	"github.com/frahmantamala/mibu/internal/task"
	"github.com/frahmantamala/mibu/internal/transport/middleware"
	"github.com/frahmantamala/mibu/internal/transport/swagger"
	"github.com/frahmantamala/mibu/internal/user"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Budget      *budget.Handler
	Expense     *expense.Handler
	Shopping    *shopping.Handler
	Task        *task.Handler
	Schedule    *schedule.Handler
	Journal     *journal.Handler
	Report      *report.Handler
	Dashboard   *dashboard.Handler
	Diagnostics *diagnostics.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, spec *swagger.Spec, allowedOrigins string, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if spec != nil {
		router.Get("/openapi.yml", spec.ServeHTTP)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.RefreshToken)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Get("/budget/settings", h.Budget.GetSettings)
			pr.Put("/budget/settings", h.Budget.SaveSettings)
			pr.Put("/budget/salary", h.Budget.SaveSalary)
			pr.Put("/budget/fixed-expenses", h.Budget.SaveFixedExpenses)
			pr.Get("/budget/summary", h.Budget.GetSummary)
			pr.Get("/budget/mandatory-expenses", h.Budget.ListFixedExpenses)
			pr.Post("/budget/mandatory-expenses", h.Budget.AddFixedExpense)
			pr.Post("/budget/mandatory-expenses/save-total", h.Budget.SaveFixedTotal)
			pr.Delete("/budget/mandatory-expenses/{id}", h.Budget.DeleteFixedExpense)

			pr.Get("/expenses", h.Expense.ListExpenses)
			pr.Post("/expenses", h.Expense.CreateExpense)
			pr.Delete("/expenses/{id}", h.Expense.DeleteExpense)

			pr.Get("/shopping-items", h.Shopping.ListItems)
			pr.Post("/shopping-items", h.Shopping.AddItem)
			pr.Put("/shopping-items/{id}", h.Shopping.UpdateItem)
			pr.Delete("/shopping-items/{id}", h.Shopping.DeleteItem)
			pr.Post("/shopping-items/{id}/toggle", h.Shopping.ToggleItem)

			pr.Get("/tasks", h.Task.ListTasks)
			pr.Post("/tasks", h.Task.CreateTask)
			pr.Patch("/tasks/{id}/toggle", h.Task.ToggleTask)
			pr.Delete("/tasks/{id}", h.Task.DeleteTask)

			pr.Get("/events", h.Schedule.ListEvents)
			pr.Post("/events", h.Schedule.CreateEvent)
			pr.Delete("/events/{id}", h.Schedule.DeleteEvent)

			pr.Get("/journal", h.Journal.ListEntries)
			pr.Post("/journal", h.Journal.CreateEntry)
			pr.Put("/journal/{id}", h.Journal.UpdateEntry)
			pr.Delete("/journal/{id}", h.Journal.DeleteEntry)

			pr.Get("/reports/monthly", h.Report.Monthly)

			pr.Get("/dashboard", h.Dashboard.GetDashboard)
			pr.Get("/dashboard/stream", h.Dashboard.Stream)

			pr.Get("/diagnostics/errors", h.Diagnostics.ListErrors)
		})
	})
}
