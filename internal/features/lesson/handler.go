package lesson

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/pkg/response"
)

// Handler processes lesson HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a lesson handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// ListByCourse returns a course's lessons in playback order.
func (h *Handler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	lessons, err := ListByCourse(h.db, courseID)
	if err != nil {
		h.respondError(c, err, "Failed to list lessons")
		return
	}

	response.JSON(c, http.StatusOK, lessons)
}

// Get returns a single lesson.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lesson ID")
		return
	}

	lsn, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "Failed to load lesson")
		return
	}

	response.JSON(c, http.StatusOK, lsn)
}

// attachmentRef identifies an existing attachment row in a create payload.
// Only the ID matters; the authoritative metadata comes from the row.
type attachmentRef struct {
	ID uuid.UUID `json:"id"`
}

type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	VideoURL    string          `json:"videoUrl"`
	OrderIndex  int             `json:"orderIndex"`
	Attachments []attachmentRef `json:"attachments"`
}

// Create inserts a lesson into a course.
func (h *Handler) Create(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lesson payload")
		return
	}

	attachmentIDs := make([]uuid.UUID, 0, len(req.Attachments))
	for _, ref := range req.Attachments {
		attachmentIDs = append(attachmentIDs, ref.ID)
	}

	lsn, err := Create(h.db, courseID, CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoURL:      req.VideoURL,
		OrderIndex:    req.OrderIndex,
		AttachmentIDs: attachmentIDs,
	})
	if err != nil {
		h.respondError(c, err, "Failed to create lesson")
		return
	}

	response.Created(c, lsn)
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl"`
	OrderIndex  *int    `json:"orderIndex"`
}

// Update replaces a lesson's fields. All of them are required.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lesson ID")
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lesson payload")
		return
	}

	lsn, err := Update(h.db, id, UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		h.respondError(c, err, "Failed to update lesson")
		return
	}

	response.JSON(c, http.StatusOK, lsn)
}

// Delete removes a lesson and its attachments.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lesson ID")
		return
	}

	if err := Delete(h.db, id); err != nil {
		h.respondError(c, err, "Failed to delete lesson")
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Lesson deleted successfully"})
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrLessonNotFound), errors.Is(err, ErrCourseNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrMissingUpdate),
		errors.Is(err, ErrAttachmentNotFound):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
