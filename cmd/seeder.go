package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/mibu/internal/budget"
	budgetPostgres "github.com/frahmantamala/mibu/internal/budget/postgres"
	"github.com/frahmantamala/mibu/internal/core/clock"
	"github.com/frahmantamala/mibu/internal/expense"
	expensePostgres "github.com/frahmantamala/mibu/internal/expense/postgres"
	"github.com/frahmantamala/mibu/internal/realtime"
	"github.com/frahmantamala/mibu/internal/schedule"
	schedulePostgres "github.com/frahmantamala/mibu/internal/schedule/postgres"
	"github.com/frahmantamala/mibu/internal/shopping"
	shoppingPostgres "github.com/frahmantamala/mibu/internal/shopping/postgres"
	"github.com/frahmantamala/mibu/internal/task"
	taskPostgres "github.com/frahmantamala/mibu/internal/task/postgres"
	"github.com/frahmantamala/mibu/internal/user"
	userPostgres "github.com/frahmantamala/mibu/internal/user/postgres"
	"github.com/frahmantamala/mibu/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const (
	demoEmail    = "demo@mibu.id"
	demoName     = "Demo"
	demoPassword = "password"
)

// seedTables are wiped for the demo user when --clear is set.
var seedTables = []string{
	"expenses",
	"shopping_items",
	"fixed_expenses",
	"budget_settings",
	"tasks",
	"events",
	"journal_entries",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user and sample budget, shopping, task and schedule data.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		loc, err := cfg.App.Location()
		if err != nil {
			log.Fatalf("failed to load timezone: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		lg := logger.L()
		clk := clock.New(loc)
		notifier := realtime.NopNotifier{}

		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		users := user.NewService(userPostgres.NewUserRepository(gormDB), lg)
		demo, err := users.Save(ctx, demoEmail, demoName, string(hash))
		if err != nil {
			log.Fatalf("failed to seed demo user: %v", err)
		}
		lg.Info("seeded user", "email", demo.Email, "user_id", demo.ID)

		if clearData {
			for _, table := range seedTables {
				if err := gormDB.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE user_id = ?", demo.ID).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			lg.Info("cleared demo data", "user_id", demo.ID)
		}

		expenses := expense.NewService(expensePostgres.NewExpenseRepository(gormDB), notifier, clk, expense.Options{}, lg)
		budgets := budget.NewService(budgetPostgres.NewBudgetRepository(gormDB), expenses, notifier, clk, lg)

		for _, fixed := range []budget.AddFixedExpenseDTO{
			{Description: "Kos", AmountIDR: 1_500_000},
			{Description: "Internet", AmountIDR: 350_000},
			{Description: "Cicilan motor", AmountIDR: 750_000},
		} {
			if _, err := budgets.AddFixedExpense(ctx, demo.ID, fixed); err != nil {
				log.Fatalf("failed to seed fixed expense: %v", err)
			}
		}
		if _, err := budgets.SaveSalary(ctx, demo.ID, budget.SaveAmountDTO{AmountIDR: 7_500_000}); err != nil {
			log.Fatalf("failed to seed salary: %v", err)
		}
		if _, err := budgets.SaveFixedTotal(ctx, demo.ID); err != nil {
			log.Fatalf("failed to seed fixed total: %v", err)
		}

		items := shopping.NewService(shoppingPostgres.NewShoppingRepository(gormDB), expenses, notifier, lg)
		for _, item := range []shopping.CreateItemDTO{
			{Name: "Beras 5kg", UnitPriceIDR: 75_000, Quantity: 1},
			{Name: "Telur", UnitPriceIDR: 2_500, Quantity: 10},
			{Name: "Minyak goreng", UnitPriceIDR: 18_000, Quantity: 2},
		} {
			if _, err := items.AddItem(ctx, demo.ID, item); err != nil {
				log.Fatalf("failed to seed shopping item: %v", err)
			}
		}

		tasks := task.NewService(taskPostgres.NewTaskRepository(gormDB), notifier, clk, lg)
		for _, title := range []string{"Bayar listrik", "Olahraga pagi"} {
			if _, err := tasks.CreateTask(ctx, demo.ID, task.CreateTaskDTO{Title: title}); err != nil {
				log.Fatalf("failed to seed task: %v", err)
			}
		}

		events := schedule.NewService(schedulePostgres.NewEventRepository(gormDB), notifier, clk, lg)
		eventTime := "19:00"
		if _, err := events.CreateEvent(ctx, demo.ID, schedule.CreateEventDTO{
			Title:     "Makan malam keluarga",
			EventDate: clk.Today().AddDate(0, 0, 2).Format("2006-01-02"),
			EventTime: &eventTime,
		}); err != nil {
			log.Fatalf("failed to seed event: %v", err)
		}

		lg.Info("seed completed", "email", demoEmail)
	},
}
