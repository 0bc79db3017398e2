package user

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches the admin user management endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	users := router.Group("/users")
	{
		users.GET("", handler.List)
		users.POST("", handler.Create)
		users.DELETE("/:userId", handler.Delete)
		users.POST("/:userId/reset-password", handler.ResetPassword)
	}
}
