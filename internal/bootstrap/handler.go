package bootstrap

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/pkg/config"
	"github.com/jusacademy/courses-server-go/pkg/database"
	"github.com/jusacademy/courses-server-go/pkg/response"
)

// Handler exposes the one-time schema bootstrap endpoint, guarded by a shared
// token so it can run against a fresh database before any user exists.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	cfg    *config.Config
}

// NewHandler constructs a bootstrap handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, cfg *config.Config) *Handler {
	return &Handler{db: db, logger: logger, cfg: cfg}
}

// InitDatabase migrates the schema and seeds the default admin. The endpoint
// is disabled entirely when no INIT_TOKEN is configured.
func (h *Handler) InitDatabase(c *gin.Context) {
	if h.cfg.InitToken == "" {
		response.Error(c, http.StatusForbidden, "Database initialization is disabled")
		return
	}

	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(h.cfg.InitToken)) != 1 {
		response.Error(c, http.StatusUnauthorized, "Invalid initialization token")
		return
	}

	if err := database.Migrate(h.db); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to initialize database", err)
		return
	}

	if err := EnsureDefaultAdmin(h.db, h.cfg.AdminEmail, h.cfg.AdminPassword, h.logger); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to seed default admin", err)
		return
	}

	h.logger.Info("database initialized via bootstrap endpoint")
	response.JSON(c, http.StatusOK, gin.H{"message": "Database initialized successfully"})
}
