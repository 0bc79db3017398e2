package routes

import (
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/bootstrap"
	"github.com/jusacademy/courses-server-go/internal/features/attachment"
	"github.com/jusacademy/courses-server-go/internal/features/auth"
	"github.com/jusacademy/courses-server-go/internal/features/course"
	"github.com/jusacademy/courses-server-go/internal/features/lesson"
	"github.com/jusacademy/courses-server-go/internal/features/progress"
	"github.com/jusacademy/courses-server-go/internal/features/upload"
	"github.com/jusacademy/courses-server-go/internal/features/user"
	"github.com/jusacademy/courses-server-go/internal/middleware"
	"github.com/jusacademy/courses-server-go/pkg/blobstore"
	"github.com/jusacademy/courses-server-go/pkg/cache"
	"github.com/jusacademy/courses-server-go/pkg/config"
	"github.com/jusacademy/courses-server-go/pkg/health"
	pkgmiddleware "github.com/jusacademy/courses-server-go/pkg/middleware"
)

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, cfg *config.Config, db *gorm.DB, logger *slog.Logger, store blobstore.Store, cacheClient cache.Client) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if !cfg.IsProduction() {
		engine.GET("/debug/db-stats", healthHandler.DBStats)
	}

	api := engine.Group("/api")

	authMw := middleware.NewAuthMiddleware(db, cfg.JWTSecret, logger)
	loginLimiter := pkgmiddleware.NewRateLimiter(10, time.Minute).Middleware()

	bootstrapHandler := bootstrap.NewHandler(db, logger, cfg)
	api.POST("/init-database", bootstrapHandler.InitDatabase)

	authHandler := auth.NewHandler(db, logger, cfg.JWTSecret)
	auth.RegisterRoutes(api, authHandler, authMw, loginLimiter)

	courseHandler := course.NewHandler(db, logger, cacheClient)
	course.RegisterRoutes(api, courseHandler, authMw)

	lessonHandler := lesson.NewHandler(db, logger)
	lesson.RegisterRoutes(api, lessonHandler, authMw)

	attachmentHandler := attachment.NewHandler(db, logger, store)
	attachment.RegisterRoutes(api, attachmentHandler, authMw)

	uploadHandler := upload.NewHandler(db, logger, store, cfg.UploadStorage)
	upload.RegisterRoutes(api, uploadHandler, authMw)

	progressHandler := progress.NewHandler(db, logger)
	progress.RegisterRoutes(api, progressHandler, authMw)

	userHandler := user.NewHandler(db, logger)
	admin := api.Group("/admin", authMw.RequireAdmin()...)
	user.RegisterRoutes(admin, userHandler)
}
