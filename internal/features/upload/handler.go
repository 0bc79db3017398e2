package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/attachment"
	"github.com/jusacademy/courses-server-go/pkg/blobstore"
	"github.com/jusacademy/courses-server-go/pkg/config"
	"github.com/jusacademy/courses-server-go/pkg/metrics"
	"github.com/jusacademy/courses-server-go/pkg/response"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// Handler accepts multipart uploads and serves the stored payloads back.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	store  blobstore.Store
	mode   config.StorageMode
}

// NewHandler constructs an upload handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, store blobstore.Store, mode config.StorageMode) *Handler {
	return &Handler{db: db, logger: logger, store: store, mode: mode}
}

// UploadImage accepts a course image and returns its reference URL. In
// filesystem mode the URL addresses the stored file by name, in database
// mode by row ID.
func (h *Handler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, ErrFileRequired.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := validateImage(contentType, fileHeader.Size); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	data, err := readFile(fileHeader)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}

	filename := uuid.New().String() + imageExtension(contentType, fileHeader.Filename)

	img := UploadedImage{
		Filename:     filename,
		OriginalName: fileHeader.Filename,
		ContentType:  contentType,
		FileSize:     fileHeader.Size,
	}

	inline, err := h.store.Put(c.Request.Context(), img.StorageKey(), data)
	if err != nil {
		response.FromError(h.logger, c, err, "Failed to store image")
		return
	}

	imageURL := "/api/images/" + filename
	if h.mode == config.StorageDatabase {
		img.FileData = inline
		if err := h.db.Create(&img).Error; err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to store image", err)
			return
		}
		imageURL = "/api/images/" + img.ID.String()
	}

	metrics.RecordUpload("image", fileHeader.Size)
	response.JSON(c, http.StatusOK, gin.H{"imageUrl": imageURL})
}

// UploadAttachment accepts a lesson attachment, stores it and mirrors its
// metadata onto the owning lesson.
func (h *Handler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, ErrFileRequired.Error())
		return
	}

	lessonParam := strings.TrimSpace(c.PostForm("lessonId"))
	if lessonParam == "" {
		response.Error(c, http.StatusBadRequest, ErrLessonRequired.Error())
		return
	}

	lessonID, err := uuid.Parse(lessonParam)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lesson ID")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := validateAttachment(contentType, fileHeader.Size); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	// Reject unknown lessons before anything touches storage.
	var count int64
	if err := h.db.Table("lessons").Where("id = ?", lessonID).Count(&count).Error; err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to look up lesson", err)
		return
	}
	if count == 0 {
		response.Error(c, http.StatusNotFound, attachment.ErrLessonNotFound.Error())
		return
	}

	data, err := readFile(fileHeader)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}

	att := attachment.Attachment{
		BaseModel:    types.BaseModel{ID: uuid.New()},
		LessonID:     lessonID,
		Filename:     fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeFilename(fileHeader.Filename)),
		OriginalName: fileHeader.Filename,
		ContentType:  contentType,
		FileSize:     fileHeader.Size,
	}
	att.URL = "/api/attachments/" + att.ID.String()

	inline, err := h.store.Put(c.Request.Context(), att.StorageKey(), data)
	if err != nil {
		response.FromError(h.logger, c, err, "Failed to store attachment")
		return
	}
	att.FileData = inline

	if err := attachment.Create(h.db, &att); err != nil {
		// The row never landed, drop the stray disk payload.
		if removeErr := h.store.Remove(c.Request.Context(), att.StorageKey()); removeErr != nil {
			h.logger.Warn("failed to clean up orphaned payload",
				slog.String("key", att.StorageKey()),
				slog.String("error", removeErr.Error()))
		}

		if errors.Is(err, attachment.ErrLessonNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to save attachment", err)
		return
	}

	metrics.RecordUpload("attachment", fileHeader.Size)
	response.Created(c, gin.H{"attachment": att})
}

// ServeImage streams a stored image. Database-mode references are row IDs,
// filesystem-mode references are filenames resolved against the uploads dir.
func (h *Handler) ServeImage(c *gin.Context) {
	raw := strings.TrimPrefix(c.Param("imagePath"), "/")
	if raw == "" {
		response.Error(c, http.StatusBadRequest, "Image path is required")
		return
	}

	if id, err := uuid.Parse(raw); err == nil {
		img, err := GetImage(h.db, id)
		if err != nil {
			if errors.Is(err, ErrImageNotFound) {
				response.Error(c, http.StatusNotFound, err.Error())
				return
			}
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to load image", err)
			return
		}

		data, err := h.store.Fetch(c.Request.Context(), img.StorageKey(), img.FileData)
		if err != nil {
			if errors.Is(err, blobstore.ErrNotFound) {
				response.Error(c, http.StatusNotFound, ErrImageNotFound.Error())
				return
			}
			response.FromError(h.logger, c, err, "Failed to read image")
			return
		}

		c.Data(http.StatusOK, img.ContentType, data)
		return
	}

	name := sanitizeFilename(raw)
	data, err := h.store.Fetch(c.Request.Context(), "images/"+name, nil)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			response.Error(c, http.StatusNotFound, ErrImageNotFound.Error())
			return
		}
		response.FromError(h.logger, c, err, "Failed to read image")
		return
	}

	c.Data(http.StatusOK, mimeForFilename(name), data)
}

func readFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
