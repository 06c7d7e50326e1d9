package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/apresmonbac/orientation/config"
	"github.com/apresmonbac/orientation/internal/api/handlers"
	"github.com/apresmonbac/orientation/internal/api/middleware"
	"github.com/apresmonbac/orientation/internal/api/routes"
	"github.com/apresmonbac/orientation/internal/cache"
	"github.com/apresmonbac/orientation/internal/catalog"
	"github.com/apresmonbac/orientation/internal/health"
	"github.com/apresmonbac/orientation/internal/logger"
	"github.com/apresmonbac/orientation/internal/metrics"
	"github.com/apresmonbac/orientation/internal/providers/email"
	pgrepo "github.com/apresmonbac/orientation/internal/repositories/postgres"
	"github.com/apresmonbac/orientation/internal/services"
	"github.com/apresmonbac/orientation/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config error")
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	if err := config.InitPostgres(ctx, cfg.PostgresURI, log); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := pgrepo.Migrate(config.PostgresDB); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}
	sqlDB, err := config.PostgresDB.DB()
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL handle error")
	}
	defer sqlDB.Close()
	log.Info("PostgreSQL connected")

	// Init Redis (optional)
	if err := config.InitRedis(ctx, cfg.RedisAddr); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	var (
		catalogCache cache.Cache = cache.NoopCache{}
		limiter      middleware.Limiter
	)
	if config.RedisClient != nil {
		defer config.RedisClient.Close()
		catalogCache = cache.NewRedisCache(config.RedisClient, "orientation:")
		limiter = middleware.NewRedisLimiter(config.RedisClient)
		log.Info("Redis connected")
	} else {
		limiter = middleware.NewMemoryLimiter()
		log.Warn("REDIS_ADDR not set, using in-process cache and rate limiting")
	}

	// Attachment store
	var (
		store  storage.ObjectStore
		signer storage.Signer
	)
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer gcs.Close()
		store, signer = gcs, gcs
		log.WithField("bucket", cfg.GCSBucket).Info("GCS attachment store")
	} else {
		local, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			log.WithError(err).Fatal("upload dir error")
		}
		store = local
		log.WithField("dir", cfg.UploadDir).Warn("GCS_BUCKET not set, storing attachments on local disk")
	}

	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		log.WithError(err).Fatal("catalog load error")
	}
	log.WithFields(logrus.Fields{"counts": cat.Counts()}).Info("catalog loaded")

	m := metrics.New()

	// Services
	repo := pgrepo.NewApplicationRepo(config.PostgresDB)
	catalogSvc := services.NewCatalogService(cat, catalogCache, cfg.CatalogCacheTTL, log, m)
	submitSvc := services.NewSubmissionService(repo, store, cat, log, m, cfg.ExternalCallTimeout)
	sender, err := email.NewResend(cfg.Email.ResendAPIKey)
	if err != nil {
		log.WithError(err).Fatal("email provider error")
	}
	notifySvc := services.NewNotificationService(sender, services.NotificationConfig{
		From:         cfg.Email.From,
		AdminAddress: cfg.Email.AdminAddress,
		MaxAttempts:  cfg.Email.MaxAttempts,
		BackoffUnit:  cfg.Email.BackoffUnit,
		CallTimeout:  cfg.ExternalCallTimeout,
	}, log, m)
	appSvc := services.NewApplicationService(repo, signer, log)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log, "/live", "/ready", "/metrics", "/ping"), middleware.Metrics(m))

	routes.RegisterRoutes(r, routes.Deps{
		Catalog:          handlers.NewCatalogHandler(catalogSvc),
		Submission:       handlers.NewSubmissionHandler(submitSvc, notifySvc, catalogSvc),
		Notification:     handlers.NewNotificationHandler(notifySvc),
		Admin:            handlers.NewAdminHandler(appSvc),
		Health:           health.NewChecker(sqlDB, config.RedisClient).Handler(),
		Metrics:          m,
		Limiter:          limiter,
		JWT:              cfg.JWT,
		SubmitRateLimit:  cfg.SubmitRateLimit,
		SubmitRateWindow: cfg.SubmitRateWindow,
		NotifyRateLimit:  cfg.NotifyRateLimit,
		NotifyRateWindow: cfg.NotifyRateWindow,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.WithField("addr", srv.Addr).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.WithError(err).Error("server stopped with error")
		os.Exit(1)
	}
	log.Info("server stopped")
}
