package attachment

import (
	"github.com/gin-gonic/gin"

	"github.com/jusacademy/courses-server-go/internal/middleware"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// RegisterRoutes attaches the attachment endpoints. Serving is public since
// download links are opened outside the authenticated client; deletion is
// admin-only.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMw *middleware.AuthMiddleware) {
	attachments := router.Group("/attachments")
	{
		attachments.GET("/:attachmentId", handler.Serve)
		attachments.DELETE("/:attachmentId",
			authMw.AuthenticateToken(),
			authMw.RequireRoles(types.RoleAdmin),
			handler.Delete)
	}
}
