package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/credit-service/internal/api/http"
	"github.com/spec-kit/credit-service/internal/api/http/handlers"
	"github.com/spec-kit/credit-service/internal/auth"
	"github.com/spec-kit/credit-service/internal/config"
	"github.com/spec-kit/credit-service/internal/events"
	"github.com/spec-kit/credit-service/internal/observability"
	"github.com/spec-kit/credit-service/internal/persistence"
	"github.com/spec-kit/credit-service/internal/repository"
	"github.com/spec-kit/credit-service/internal/service"
	"github.com/spec-kit/credit-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	holderRepo := repository.NewAccountHolderRepository(pool)
	beneficiaryRepo := repository.NewBeneficiaryRepository(pool)
	orgRepo := repository.NewOrganizationRepository(pool)
	unitRepo := repository.NewUnitRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	creditRepo := repository.NewCreditRepository(pool)
	ownershipRepo := repository.NewOwnershipRepository(pool)
	sessionRepo := repository.NewSessionRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
	})
	userService := service.NewUserService(*cfg, userRepo, dispatcher, logger)
	orgService := service.NewOrgService(orgRepo, unitRepo)
	creditService := service.NewCreditService(service.CreditDependencies{
		CreditRepo:        creditRepo,
		AccountHolderRepo: holderRepo,
		TransactionRepo:   transactionRepo,
	}, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.IsProduction(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.App.Env, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Organizations:  handlers.NewOrganizationsHandler(orgService),
		AccountHolders: handlers.NewAccountHoldersHandler(holderRepo, beneficiaryRepo),
		Beneficiaries:  handlers.NewBeneficiariesHandler(beneficiaryRepo),
		Credits:        handlers.NewCreditHandler(creditService),
		Transactions:   handlers.NewTransactionsHandler(creditService),

		AuthMiddleware: authMiddleware,
		Ownership:      ownershipRepo,
		Balance:        creditRepo,
	})
	httptransport.RegisterNotFound(app)

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("env", cfg.App.Env))
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
