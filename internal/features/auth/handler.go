package auth

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/user"
	"github.com/jusacademy/courses-server-go/internal/middleware"
	"github.com/jusacademy/courses-server-go/pkg/response"
)

// Handler processes authentication HTTP requests.
type Handler struct {
	db        *gorm.DB
	logger    *slog.Logger
	jwtSecret string
}

// NewHandler constructs an auth handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, jwtSecret string) *Handler {
	return &Handler{
		db:        db,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

// Login authenticates a user and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := Login(h.db, LoginInput{Email: req.Email, Password: req.Password}, h.jwtSecret)
	if err != nil {
		h.respondError(c, err, "Login failed")
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	response.JSON(c, http.StatusOK, usr)
}

// ChangePassword lets the authenticated user rotate their own password.
func (h *Handler) ChangePassword(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Current and new passwords are required")
		return
	}

	if err := ChangePassword(h.db, usr, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(c, err, "Failed to change password")
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMissingFields):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrWrongPassword):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, user.ErrInvalidPassword):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
