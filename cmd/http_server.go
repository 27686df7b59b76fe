package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/mibu/internal"
	"github.com/frahmantamala/mibu/internal/auth"
	"github.com/frahmantamala/mibu/internal/budget"
	budgetPostgres "github.com/frahmantamala/mibu/internal/budget/postgres"
	"github.com/frahmantamala/mibu/internal/core/clock"
	"github.com/frahmantamala/mibu/internal/core/events"
	"github.com/frahmantamala/mibu/internal/dashboard"
	"github.com/frahmantamala/mibu/internal/diagnostics"
	"github.com/frahmantamala/mibu/internal/expense"
	expensePostgres "github.com/frahmantamala/mibu/internal/expense/postgres"
	"github.com/frahmantamala/mibu/internal/journal"
	journalPostgres "github.com/frahmantamala/mibu/internal/journal/postgres"
	"github.com/frahmantamala/mibu/internal/realtime"
	"github.com/frahmantamala/mibu/internal/report"
	reportPostgres "github.com/frahmantamala/mibu/internal/report/postgres"
	"github.com/frahmantamala/mibu/internal/schedule"
	schedulePostgres "github.com/frahmantamala/mibu/internal/schedule/postgres"
	"github.com/frahmantamala/mibu/internal/shopping"
	shoppingPostgres "github.com/frahmantamala/mibu/internal/shopping/postgres"
	"github.com/frahmantamala/mibu/internal/task"
	taskPostgres "github.com/frahmantamala/mibu/internal/task/postgres"
	"github.com/frahmantamala/mibu/internal/transport"
	"github.com/frahmantamala/mibu/internal/transport/rest"
	"github.com/frahmantamala/mibu/internal/transport/swagger"
	"github.com/frahmantamala/mibu/internal/user"
	userPostgres "github.com/frahmantamala/mibu/internal/user/postgres"
	"github.com/frahmantamala/mibu/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	Spec     *swagger.Spec
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB, deps.Spec, deps.Config.Server.AllowedOrigins, deps.Handlers, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "timezone", deps.Config.App.Timezone)

	// WriteTimeout stays 0 unless configured; the dashboard stream is long-lived
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.App.Env)
	logger.SetLevel(config.Logging.Level)
	errorLog := diagnostics.NewErrorLog(config.App.ErrorLogSize)
	appLogger := logger.Wrap(func(next slog.Handler) slog.Handler {
		return diagnostics.NewLogHandler(next, errorLog)
	})

	loc, err := config.App.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	spec, err := swagger.Load(context.Background(), config.Server.OpenAPIPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gormDB,
		Router:   chi.NewRouter(),
		Spec:     spec,
		Handlers: buildHandlers(config, db, gormDB, clock.New(loc), errorLog, appLogger),
		Logger:   appLogger,
	}, nil
}

func buildHandlers(config *internal.Config, db *sqlx.DB, gormDB *gorm.DB, clk *clock.Clock, errorLog *diagnostics.ErrorLog, log *slog.Logger) rest.Handlers {
	timeout := config.App.RequestTimeout

	bus := events.NewEventBus(log)
	feed := realtime.NewFeed(bus, log)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB), log).WithTimeout(timeout)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(userService, tokenGen, config.Security.BCryptCost, log)

	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(gormDB), feed, clk, expense.Options{
		Timeout:        timeout,
		RetryAttempts:  config.App.RetryAttempts,
		RetryBaseDelay: config.App.RetryBaseDelay,
	}, log)
	budgetService := budget.NewService(budgetPostgres.NewBudgetRepository(gormDB), expenseService, feed, clk, log).WithTimeout(timeout)
	shoppingService := shopping.NewService(shoppingPostgres.NewShoppingRepository(gormDB), expenseService, feed, log).WithTimeout(timeout)
	taskService := task.NewService(taskPostgres.NewTaskRepository(gormDB), feed, clk, log).WithTimeout(timeout)
	scheduleService := schedule.NewService(schedulePostgres.NewEventRepository(gormDB), feed, clk, log).WithTimeout(timeout)
	journalService := journal.NewService(journalPostgres.NewJournalRepository(gormDB), feed, clk, log).WithTimeout(timeout)
	reportService := report.NewService(reportPostgres.NewReportRepository(db), budgetService, log).WithTimeout(timeout)
	dashboardService := dashboard.NewService(taskService, scheduleService, shoppingService, budgetService, log).WithTimeout(timeout)

	base := transport.NewBaseHandler(log)
	return rest.Handlers{
		Auth:        auth.NewHandler(base, authService),
		User:        user.NewHandler(base, userService),
		Budget:      budget.NewHandler(base, budgetService),
		Expense:     expense.NewHandler(base, expenseService),
		Shopping:    shopping.NewHandler(base, shoppingService),
		Task:        task.NewHandler(base, taskService),
		Schedule:    schedule.NewHandler(base, scheduleService),
		Journal:     journal.NewHandler(base, journalService),
		Report:      report.NewHandler(base, reportService, clk),
		Dashboard:   dashboard.NewHandler(base, dashboardService, feed),
		Diagnostics: diagnostics.NewHandler(base, errorLog),
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm runs gorm on top of the sqlx pool so both share one set of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
