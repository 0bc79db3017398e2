package attachment

import (
	"errors"
	"fmt"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/pkg/blobstore"
	"github.com/jusacademy/courses-server-go/pkg/response"
)

// Handler serves and deletes stored attachments.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	store  blobstore.Store
}

// NewHandler constructs an attachment handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, store blobstore.Store) *Handler {
	return &Handler{db: db, logger: logger, store: store}
}

// Serve streams the attachment payload back as a download.
func (h *Handler) Serve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid attachment ID")
		return
	}

	att, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "Failed to load attachment")
		return
	}

	data, err := h.store.Fetch(c.Request.Context(), att.StorageKey(), att.FileData)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Attachment payload not found")
			return
		}
		response.FromError(h.logger, c, err, "Failed to read attachment")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.OriginalName))
	c.Data(http.StatusOK, att.ContentType, data)
}

// Delete removes the attachment row, its lesson mirror and any disk payload.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid attachment ID")
		return
	}

	att, err := Delete(h.db, id)
	if err != nil {
		h.respondError(c, err, "Failed to delete attachment")
		return
	}

	if err := h.store.Remove(c.Request.Context(), att.StorageKey()); err != nil {
		h.logger.Warn("failed to remove attachment payload",
			slog.String("attachment_id", id.String()),
			slog.String("error", err.Error()))
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAttachmentNotFound), errors.Is(err, ErrLessonNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
