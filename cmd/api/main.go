package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/peoplecore/hr-portal/internal/api/http"
	"github.com/peoplecore/hr-portal/internal/api/http/handlers"
	"github.com/peoplecore/hr-portal/internal/auth"
	"github.com/peoplecore/hr-portal/internal/config"
	"github.com/peoplecore/hr-portal/internal/events"
	"github.com/peoplecore/hr-portal/internal/observability"
	"github.com/peoplecore/hr-portal/internal/persistence"
	"github.com/peoplecore/hr-portal/internal/repository"
	"github.com/peoplecore/hr-portal/internal/service"
	"github.com/peoplecore/hr-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	employeeRepo := repository.NewEmployeeRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	challengeStore := repository.NewMFAChallengeStore(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		EmployeeRepo:      employeeRepo,
		PasswordResetRepo: resetRepo,
		ChallengeStore:    challengeStore,
		Dispatcher:        dispatcher,
	})
	directoryService := service.NewDirectoryService(employeeRepo, dispatcher, cfg.Auth.BcryptCost)
	sessionResolver := auth.NewSessionResolver(authService.TokenManager(), employeeRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)
	employeesHandler := handlers.NewEmployeesHandler(directoryService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          healthHandler,
		Auth:            authHandler,
		Employees:       employeesHandler,
		SessionResolver: sessionResolver,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
