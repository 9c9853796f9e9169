package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/freelance-marketplace/internal/api/http"
	"github.com/spec-kit/freelance-marketplace/internal/api/http/handlers"
	"github.com/spec-kit/freelance-marketplace/internal/auth"
	"github.com/spec-kit/freelance-marketplace/internal/config"
	"github.com/spec-kit/freelance-marketplace/internal/events"
	"github.com/spec-kit/freelance-marketplace/internal/notify"
	"github.com/spec-kit/freelance-marketplace/internal/observability"
	"github.com/spec-kit/freelance-marketplace/internal/persistence"
	"github.com/spec-kit/freelance-marketplace/internal/repository"
	"github.com/spec-kit/freelance-marketplace/internal/service"
	"github.com/spec-kit/freelance-marketplace/internal/storage"
	"github.com/spec-kit/freelance-marketplace/internal/worker"
)

const shutdownTimeout = 15 * time.Second

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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to configure redis", zap.Error(err))
	}
	defer redis.Close()

	userRepo := repository.NewUserRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	dispatcher := events.NewAsyncDispatcher(logger.Named("events"), cfg.Notification.Timeout())

	renderer, err := notify.NewRenderer()
	if err != nil {
		logger.Fatal("failed to load email templates", zap.Error(err))
	}
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Logger:     logger.Named("notifications"),
		Mailer:     notify.NewMailer(cfg.Notification, logger),
		Renderer:   renderer,
		Publisher:  notify.NewRedisPublisher(redis.Client, cfg.Notification.ChannelPrefix),
		UserRepo:   userRepo,
		AppName:    cfg.App.Name,
	})
	notificationWorker := worker.StartNotificationWorker(notificationService, dispatcher, logger)

	objects, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to prepare upload storage", zap.Error(err))
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	jobService := service.NewJobService(service.JobDependencies{
		JobRepo:    jobRepo,
		Dispatcher: dispatcher,
	})
	messageService := service.NewMessageService(service.MessageDependencies{
		JobRepo:     jobRepo,
		MessageRepo: messageRepo,
		Dispatcher:  dispatcher,
	})
	profileService := service.NewProfileService(cfg.Storage, service.ProfileDependencies{
		UserRepo: userRepo,
		Store:    objects,
	})

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Users:          handlers.NewUsersHandler(authService),
		Profile:        handlers.NewProfileHandler(profileService),
		Jobs:           handlers.NewJobsHandler(jobService),
		Messages:       handlers.NewMessagesHandler(messageService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		UploadDir:      objects.Root(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	// Let in-flight notifications finish before the pools close.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer drainCancel()
	notificationWorker.Stop(drainCtx)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
