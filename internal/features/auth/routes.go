package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jusacademy/courses-server-go/internal/middleware"
)

// RegisterRoutes attaches authentication endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMw *middleware.AuthMiddleware, loginLimiter gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", loginLimiter, handler.Login)
		auth.GET("/me", authMw.AuthenticateToken(), handler.Me)
		auth.POST("/change-password", authMw.AuthenticateToken(), handler.ChangePassword)
	}
}
