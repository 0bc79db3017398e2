package progress

import (
	"github.com/gin-gonic/gin"

	"github.com/jusacademy/courses-server-go/internal/middleware"
)

// RegisterRoutes attaches progress endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMw *middleware.AuthMiddleware) {
	progress := router.Group("/progress", authMw.AuthenticateToken())
	{
		progress.POST("", handler.MarkComplete)
		progress.GET("", handler.List)
	}
}
