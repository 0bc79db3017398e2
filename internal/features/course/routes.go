package course

import (
	"github.com/gin-gonic/gin"

	"github.com/jusacademy/courses-server-go/internal/middleware"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// RegisterRoutes attaches course endpoints. Reads require a valid session,
// writes require the admin role.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMw *middleware.AuthMiddleware) {
	courses := router.Group("/courses", authMw.AuthenticateToken())
	{
		courses.GET("", handler.List)
		courses.GET("/:courseId", handler.Get)

		admin := courses.Group("", authMw.RequireRoles(types.RoleAdmin))
		{
			admin.POST("", handler.Create)
			admin.PUT("/:courseId", handler.Update)
			admin.DELETE("/:courseId", handler.Delete)
		}
	}
}
