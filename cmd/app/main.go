package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jusacademy/courses-server-go/internal/bootstrap"
	"github.com/jusacademy/courses-server-go/internal/http/routes"
	"github.com/jusacademy/courses-server-go/pkg/blobstore"
	"github.com/jusacademy/courses-server-go/pkg/cache"
	"github.com/jusacademy/courses-server-go/pkg/config"
	"github.com/jusacademy/courses-server-go/pkg/database"
	"github.com/jusacademy/courses-server-go/pkg/jobs"
	"github.com/jusacademy/courses-server-go/pkg/logger"
	"github.com/jusacademy/courses-server-go/pkg/metrics"
	"github.com/jusacademy/courses-server-go/pkg/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	if err := bootstrap.EnsureDefaultAdmin(db, cfg.AdminEmail, cfg.AdminPassword, appLogger); err != nil {
		appLogger.Error("ensure default admin failed", slog.String("error", err.Error()))
	}

	// Uploads either hit the public directory or ride along inside rows,
	// decided once here and injected everywhere.
	var store blobstore.Store
	if cfg.UploadStorage == config.StorageDatabase {
		store = blobstore.NewRowStore()
	} else {
		store = blobstore.NewDiskStore(cfg.UploadDir)
	}

	cacheClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Error("redis connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cacheClient.Close()

	// Disk payloads can be orphaned by a crash between row delete and file
	// delete, so sweep for them periodically.
	if cfg.UploadStorage == config.StorageDisk {
		scheduler := jobs.NewScheduler(appLogger)
		scheduler.AddJob(jobs.NewOrphanCleanupJob(db, cfg.UploadDir, appLogger), 24*time.Hour)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := gin.New()

	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.Compression())
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CacheControl())
	// Large enough for the 50MB attachment cap plus multipart overhead.
	router.Use(middleware.RequestSizeLimit(52 * 1024 * 1024))
	router.Use(metrics.Middleware())

	rateLimiter := middleware.NewRateLimiter(100, time.Minute)
	router.Use(rateLimiter.Middleware())

	routes.Register(router, cfg, db, appLogger, store, cacheClient)

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("storage_mode", string(cfg.UploadStorage)),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}
