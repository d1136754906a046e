package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"

	"github.com/gestao-urbana/backoffice-go/internal/config"
	"github.com/gestao-urbana/backoffice-go/internal/domain/assistant"
	appHTTP "github.com/gestao-urbana/backoffice-go/internal/handler/http"
	assistantpkg "github.com/gestao-urbana/backoffice-go/internal/pkg/assistant"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/cache"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/lock"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/oauth"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/sse"
	"github.com/gestao-urbana/backoffice-go/internal/repository/postgresql"
	assistantService "github.com/gestao-urbana/backoffice-go/internal/service/assistant"
	attendanceService "github.com/gestao-urbana/backoffice-go/internal/service/attendance"
	serviceAuth "github.com/gestao-urbana/backoffice-go/internal/service/auth"
	serviceCompany "github.com/gestao-urbana/backoffice-go/internal/service/company"
	dashboardService "github.com/gestao-urbana/backoffice-go/internal/service/dashboard"
	employeeService "github.com/gestao-urbana/backoffice-go/internal/service/employee"
	financeService "github.com/gestao-urbana/backoffice-go/internal/service/finance"
	goalService "github.com/gestao-urbana/backoffice-go/internal/service/goal"
	inventoryService "github.com/gestao-urbana/backoffice-go/internal/service/inventory"
	payrollService "github.com/gestao-urbana/backoffice-go/internal/service/payroll"
	productionService "github.com/gestao-urbana/backoffice-go/internal/service/production"
	reportService "github.com/gestao-urbana/backoffice-go/internal/service/report"
	snapshotService "github.com/gestao-urbana/backoffice-go/internal/service/snapshot"
	userService "github.com/gestao-urbana/backoffice-go/internal/service/user"
)

func newLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	if strings.EqualFold(cfg.App.LogFormat, "text") {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	} else {
		logFormat := httplog.SchemaECS.Concise(false)
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       cfg.SlogLevel(),
			ReplaceAttr: logFormat.ReplaceAttr,
		})
	}
	return slog.New(handler).With(
		slog.String("app", "backoffice"),
		slog.String("env", cfg.App.Env),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.New(ctx, cfg.Redis.Addr)
		if err != nil {
			// Snapshots still work uncached; locks fall back to in-process.
			logger.Warn("redis unavailable", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	areaRepo := postgresql.NewAreaRepository(db)
	goalRepo := postgresql.NewGoalRepository(db)
	entryRepo := postgresql.NewEntryRepository(db)
	itemRepo := postgresql.NewItemRepository(db)
	movementRepo := postgresql.NewMovementRepository(db)
	transactor := postgresql.NewTransactor(db)

	hub := sse.NewHub()
	locker := lock.NewLocker(redisClient, cfg.Redis.LockTTL)
	snapshots := snapshotService.NewSnapshotService(snapshotService.Sources{
		Companies:  companyRepo,
		Employees:  employeeRepo,
		Attendance: attendanceRepo,
		Areas:      areaRepo,
		Items:      itemRepo,
		Movements:  movementRepo,
		Entries:    entryRepo,
		Goals:      goalRepo,
	}, cache.NewVersioned(redisClient, "snapshot", cfg.Redis.SnapshotTTL), hub, logger)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.IsProduction())

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		stateKey := cfg.OAuth2Google.StateKey
		if stateKey == "" {
			stateKey = cfg.JWT.Secret
		}
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret,
			cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes, stateKey)
	}

	var generator assistant.Generator
	if cfg.Assistant.Enabled() {
		gemini, err := assistantpkg.NewGemini(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
		if err != nil {
			logger.Warn("assistant disabled", slog.Any("error", err))
		} else {
			generator = gemini
		}
	}

	authService := serviceAuth.NewAuthService(userRepo, refreshTokenRepo, JWTService, transactor, logger)
	companyService := serviceCompany.NewCompanyService(companyRepo, userRepo, transactor, snapshots, logger)
	usersService := userService.NewUserService(userRepo, logger)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, snapshots, logger)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, snapshots, logger)
	payrollSvc := payrollService.NewPayrollService(attendanceRepo, employeeRepo, entryRepo, transactor, locker, snapshots, logger)
	productionSvc := productionService.NewProductionService(areaRepo, companyRepo, employeeRepo, snapshots, logger)
	goalSvc := goalService.NewGoalService(goalRepo, snapshots)
	financeSvc := financeService.NewFinanceService(entryRepo, companyRepo, snapshots, logger)
	inventorySvc := inventoryService.NewInventoryService(itemRepo, movementRepo, transactor, locker, snapshots, logger)
	dashboardSvc := dashboardService.NewDashboardService(snapshots, logger)
	reportSvc := reportService.NewReportService(snapshots, logger)
	assistantSvc := assistantService.NewAssistantService(snapshots, generator, logger)

	router := appHTTP.NewRouter(logger, JWTService, userRepo, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService, googleService, cfg.App.FrontendURL, cfg.IsProduction()),
		Company:    appHTTP.NewCompanyHandler(companyService),
		User:       appHTTP.NewUserHandler(usersService),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Production: appHTTP.NewProductionHandler(productionSvc, goalSvc),
		Finance:    appHTTP.NewFinanceHandler(financeSvc),
		Inventory:  appHTTP.NewInventoryHandler(inventorySvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc, assistantSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Snapshot:   appHTTP.NewSnapshotHandler(snapshots, JWTService, hub),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.CORSOrigins,
		Production:     cfg.IsProduction(),
		AuthRateLimit:  cfg.App.AuthRateLimit,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
