package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/db"
	"github.com/fintrack/fintrack/internal/events"
	"github.com/fintrack/fintrack/internal/markdown"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/service"
	"github.com/fintrack/fintrack/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	Markdown         *markdown.Parser
	AuthRateLimiter  *middleware.RateLimiter
	Publisher        *events.Publisher
	AuthService      *service.AuthService
	UserService      *service.UserService
	EmailService     *service.EmailService
	FileService      *service.FileService
	GoalService      *service.GoalService
	ExpenseService   *service.ExpenseService
	IncomeService    *service.IncomeService
	BudgetService    *service.BudgetService
	DashboardService *service.DashboardService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.AutoMigrate {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	a := &App{
		Cfg:             cfg,
		DB:              database,
		Markdown:        markdown.NewParser(),
		AuthRateLimiter: middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow),
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	expenseRepository := repository.NewExpenseRepository(database)
	incomeRepository := repository.NewIncomeRepository(database)
	budgetRepository := repository.NewBudgetRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Storage is optional; without a bucket receipts answer 503.
	var fileStorage storage.Storage
	fileStorage, err = storage.New(ctx, cfg)
	if errors.Is(err, storage.ErrStorageDisabled) {
		slog.Info("receipt storage disabled, S3_BUCKET not set")
		fileStorage = nil
	} else if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Goal event notifiers
	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	notifiers := service.Notifiers{service.NewEmailNotifier(userRepository, a.EmailService)}

	if cfg.EventsEnabled() {
		a.Publisher, err = events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect event publisher: %w", err)
		}
		notifiers = append(notifiers, a.Publisher)
	}

	// Services
	a.AuthService = service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
		cfg.DefaultCurrency,
	)
	a.UserService = service.NewUserService(userRepository)
	a.GoalService = service.NewGoalService(goalRepository, notifiers, cfg.ContributionMaxRetries)
	a.ExpenseService = service.NewExpenseService(expenseRepository)
	a.IncomeService = service.NewIncomeService(incomeRepository)
	a.BudgetService = service.NewBudgetService(budgetRepository, expenseRepository)
	a.DashboardService = service.NewDashboardService(incomeRepository, expenseRepository, goalRepository, a.BudgetService)
	a.FileService = service.NewFileService(fileRepository, expenseRepository, fileStorage)

	return a, nil
}

func (a *App) Close() error {
	var errs []error

	if a.AuthRateLimiter != nil {
		a.AuthRateLimiter.Close()
	}
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}

	return errors.Join(errs...)
}
