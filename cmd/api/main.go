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

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/cache"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close(context.Background())

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var attachments storage.AttachmentStore = storage.DisabledStore{}
	if cfg.Storage.Bucket != "" {
		gcs, err := storage.NewGCSStore(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Fatal("failed to init attachment storage", zap.Error(err))
		}
		defer gcs.Close() //nolint:errcheck
		attachments = gcs
	} else {
		logger.Warn("GCS_BUCKET not provided; attachment uploads disabled")
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	identityService := service.NewIdentityService(service.IdentityDependencies{
		UserRepo:   store.Users,
		Tokens:     tokens,
		Gate:       auth.NewKeyAllowList(cfg.Auth.AdminRegistrationKeys, cfg.Auth.StaffRegistrationKeys),
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: store.Complaints,
		UserRepo:      store.Users,
		Logger:        logger,
	})
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		ReportRepo:    store.Reports,
		UserRepo:      store.Users,
		ComplaintRepo: store.Complaints,
		Cache:         cache.NewReportCache(redis.Client, cfg.Analytics.CacheTTL()),
		Logger:        logger,
	})
	authMiddleware := auth.NewAuthMiddleware(identityService.TokenManager(), store.Users)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitMB << 20,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS.AllowedOrigins)

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics,
		handlers.Dependency{Name: store.Driver, Ping: store.Ping, Required: true},
		handlers.Dependency{Name: "redis", Ping: redis.Ping},
	)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           handlers.NewAuthHandler(identityService),
		Complaints:     handlers.NewComplaintsHandler(complaintService, attachments, cfg.Storage.MaxFileSize(), logger),
		Users:          handlers.NewUsersHandler(identityService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("store", store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
