package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hr-helpdesk/internal/api/http"
	"github.com/spec-kit/hr-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/hr-helpdesk/internal/auth"
	"github.com/spec-kit/hr-helpdesk/internal/config"
	"github.com/spec-kit/hr-helpdesk/internal/directory"
	"github.com/spec-kit/hr-helpdesk/internal/events"
	"github.com/spec-kit/hr-helpdesk/internal/observability"
	"github.com/spec-kit/hr-helpdesk/internal/persistence"
	"github.com/spec-kit/hr-helpdesk/internal/repository"
	"github.com/spec-kit/hr-helpdesk/internal/responder"
	"github.com/spec-kit/hr-helpdesk/internal/service"
	"github.com/spec-kit/hr-helpdesk/internal/worker"
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

	db, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.close()

	if cfg.Database.RunMigrations {
		if err := persistence.RunMigrations(ctx, db.migrations, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	ticketRepo := db.tickets
	if redis != nil {
		ticketRepo = repository.NewCachedTicketRepository(ticketRepo, redis, cfg.Redis.TicketTTL(), logger)
	}

	policy := responder.NewPolicyStore(cfg.Responder.PolicyPath, logger)
	if cfg.Responder.WatchPolicy {
		if err := policy.Watch(ctx); err != nil {
			logger.Warn("policy watcher not started", zap.Error(err))
		}
	}

	var (
		primary    responder.Primary
		modelProbe handlers.ModelProbe
	)
	if cfg.Responder.ModelEnabled {
		client, err := responder.NewOllamaClient(cfg.Responder.OllamaHost)
		if err != nil {
			logger.Warn("model responder disabled", zap.Error(err))
		} else {
			primary = responder.NewModelResponder(client, policy, cfg.Responder.Model, cfg.Responder.Timeout())
			modelProbe = client
			logger.Info("model responder enabled",
				zap.String("host", cfg.Responder.OllamaHost),
				zap.String("model", cfg.Responder.Model))
		}
	}
	chain := responder.NewChain(primary, logger)

	employees, err := directory.Load(cfg.Directory.DataPath)
	if err != nil {
		logger.Fatal("failed to load employee directory", zap.String("path", cfg.Directory.DataPath), zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: db.users,
		Logger:   logger,
	})
	if err := authService.EnsureSeedAccounts(ctx); err != nil {
		logger.Fatal("failed to create seed accounts", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	ticketService := service.NewTicketService(cfg.Tickets, service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   db.users,
		Responder:  chain,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db.pinger, redis, modelProbe),
		Auth:           handlers.NewAuthHandler(authService),
		Employees:      handlers.NewEmployeesHandler(employees, cfg.Auth.EnforceRoles),
		Tickets:        handlers.NewTicketsHandler(ticketService, cfg.Tickets.DefaultOwner, cfg.Auth.EnforceRoles),
		Metrics:        metrics.Handler(),
		AuthMiddleware: authMiddleware,
		EnforceRoles:   cfg.Auth.EnforceRoles,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
