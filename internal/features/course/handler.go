package course

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/pkg/cache"
	"github.com/jusacademy/courses-server-go/pkg/response"
)

const (
	listCacheKey = "courses:list"
	listCacheTTL = 30 * time.Second
)

// Handler processes course HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	cache  cache.Client
}

// NewHandler constructs a course handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, cacheClient cache.Client) *Handler {
	return &Handler{db: db, logger: logger, cache: cacheClient}
}

// List returns all courses, newest first. The catalog is the hottest read on
// the platform so it is served from cache when possible.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []Course
	if hit, err := h.cache.GetJSON(ctx, listCacheKey, &cached); err == nil && hit {
		response.JSON(c, http.StatusOK, cached)
		return
	}

	courses, err := List(h.db)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to list courses", err)
		return
	}

	if err := h.cache.SetJSON(ctx, listCacheKey, courses, listCacheTTL); err != nil {
		h.logger.Warn("failed to cache course list", slog.String("error", err.Error()))
	}

	response.JSON(c, http.StatusOK, courses)
}

// Get returns a course with its lessons in playback order.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	crs, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "Failed to load course")
		return
	}

	response.JSON(c, http.StatusOK, crs)
}

type courseRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"imageUrl"`
}

// Create inserts a new course.
func (h *Handler) Create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course payload")
		return
	}

	crs, err := Create(h.db, Input{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.respondError(c, err, "Failed to create course")
		return
	}

	h.invalidateList(c)
	response.Created(c, crs)
}

// Update replaces the course fields.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course payload")
		return
	}

	crs, err := Update(h.db, id, Input{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.respondError(c, err, "Failed to update course")
		return
	}

	h.invalidateList(c)
	response.JSON(c, http.StatusOK, crs)
}

// Delete removes a course and everything under it.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID")
		return
	}

	if err := Delete(h.db, id); err != nil {
		h.respondError(c, err, "Failed to delete course")
		return
	}

	h.invalidateList(c)
	response.JSON(c, http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

// invalidateList drops the cached catalog so the next read sees the write.
func (h *Handler) invalidateList(c *gin.Context) {
	if err := h.cache.Delete(c.Request.Context(), listCacheKey); err != nil {
		h.logger.Warn("failed to invalidate course list cache", slog.String("error", err.Error()))
	}
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrMissingFields):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
