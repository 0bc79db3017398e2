package lesson

import (
	"github.com/gin-gonic/gin"

	"github.com/jusacademy/courses-server-go/internal/middleware"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// RegisterRoutes attaches lesson endpoints. Lessons nest under their course
// for listing and creation, and are addressed directly for everything else.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMw *middleware.AuthMiddleware) {
	courseLessons := router.Group("/courses/:courseId/lessons", authMw.AuthenticateToken())
	{
		courseLessons.GET("", handler.ListByCourse)
		courseLessons.POST("", authMw.RequireRoles(types.RoleAdmin), handler.Create)
	}

	lessons := router.Group("/lessons", authMw.AuthenticateToken())
	{
		lessons.GET("/:lessonId", handler.Get)
		lessons.PUT("/:lessonId", authMw.RequireRoles(types.RoleAdmin), handler.Update)
		lessons.DELETE("/:lessonId", authMw.RequireRoles(types.RoleAdmin), handler.Delete)
	}
}
