package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jusacademy/courses-server-go/pkg/apperrors"
)

// ErrorBody is the error shape shared with the legacy Next.js implementation:
// a single human-readable message, never a stack trace.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a success payload as-is. Success responses carry the resource
// directly rather than an envelope, matching the legacy API surface.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Created is a convenience helper for POST 201 responses.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error writes an error response with the standard {"error": message} body.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// FromError renders an error, honouring the status and safe message carried
// by an AppError and falling back to a plain 500 otherwise.
func FromError(logger *slog.Logger, c *gin.Context, err error, fallback string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		ErrorWithLog(logger, c, appErr.StatusCode(), appErr.Message(), appErr.Unwrap())
		return
	}

	ErrorWithLog(logger, c, http.StatusInternalServerError, fallback, err)
}

// ErrorWithLog writes an error response and logs the underlying error via slog.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger != nil && err != nil {
		logger.ErrorContext(c.Request.Context(), message,
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}

	Error(c, status, message)
}
