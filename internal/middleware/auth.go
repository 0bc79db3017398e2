package middleware

import (
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/user"
	"github.com/jusacademy/courses-server-go/internal/utils/jwt"
	"github.com/jusacademy/courses-server-go/pkg/response"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

const userContextKey = "currentUser"

// AuthMiddleware holds dependencies for authentication middleware.
type AuthMiddleware struct {
	db        *gorm.DB
	jwtSecret string
	logger    *slog.Logger
}

// NewAuthMiddleware creates an auth middleware instance wired at startup.
func NewAuthMiddleware(db *gorm.DB, jwtSecret string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		db:        db,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// AuthenticateToken validates the bearer token and loads the user into context.
// Tokens for users that no longer exist are rejected.
func (m *AuthMiddleware) AuthenticateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.ensureAuthenticated(c); !ok {
			return
		}
		c.Next()
	}
}

// RequireRoles checks that the authenticated user has one of the allowed roles.
func (m *AuthMiddleware) RequireRoles(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		usr, ok := GetUserFromContext(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}

		for _, role := range roles {
			if usr.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "Access denied: insufficient permissions")
		c.Abort()
	}
}

// RequireAdmin is shorthand used on the management routes.
func (m *AuthMiddleware) RequireAdmin() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.AuthenticateToken(),
		m.RequireRoles(types.RoleAdmin),
	}
}

func (m *AuthMiddleware) ensureAuthenticated(c *gin.Context) (user.User, bool) {
	tokenString, ok := extractBearerToken(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authorization token required")
		c.Abort()
		return user.User{}, false
	}

	claims, err := jwt.VerifyToken(tokenString, m.jwtSecret)
	if err != nil {
		message := "Invalid token"
		if errors.Is(err, jwt.ErrExpiredToken) {
			message = "Token expired"
		}
		response.Error(c, http.StatusUnauthorized, message)
		c.Abort()
		return user.User{}, false
	}

	usr, err := user.Get(m.db, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "Invalid token")
		} else {
			response.ErrorWithLog(m.logger, c, http.StatusInternalServerError, "Failed to authenticate user", err)
		}
		c.Abort()
		return user.User{}, false
	}

	c.Set(userContextKey, usr)
	return usr, true
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}

	return strings.TrimSpace(parts[1]), true
}

// GetUserFromContext retrieves the authenticated user set by AuthenticateToken.
func GetUserFromContext(c *gin.Context) (user.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return user.User{}, false
	}

	usr, ok := value.(user.User)
	return usr, ok
}
