package progress

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/middleware"
	"github.com/jusacademy/courses-server-go/pkg/response"
)

// Handler processes progress HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a progress handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

type markCompleteRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
}

// MarkComplete records that the authenticated user finished a lesson.
func (h *Handler) MarkComplete(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req markCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Lesson ID is required")
		return
	}

	lessonID, err := uuid.Parse(req.LessonID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lesson ID")
		return
	}

	if _, err := MarkComplete(h.db, usr.ID, lessonID); err != nil {
		if errors.Is(err, ErrLessonNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to record progress", err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"success": true})
}

// List returns the authenticated user's completed lessons.
func (h *Handler) List(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	rows, err := ListForUser(h.db, usr.ID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to load progress", err)
		return
	}

	response.JSON(c, http.StatusOK, rows)
}
