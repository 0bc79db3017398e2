package upload

import (
	"github.com/gin-gonic/gin"

	"github.com/jusacademy/courses-server-go/internal/middleware"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// RegisterRoutes attaches the upload gateway endpoints. Uploading is part of
// content authoring and therefore admin-only; serving images stays public so
// course covers render without a session.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authMw *middleware.AuthMiddleware) {
	uploads := router.Group("/upload",
		authMw.AuthenticateToken(),
		authMw.RequireRoles(types.RoleAdmin))
	{
		uploads.POST("", handler.UploadImage)
		uploads.POST("/attachment", handler.UploadAttachment)
	}

	router.GET("/images/*imagePath", handler.ServeImage)
}
