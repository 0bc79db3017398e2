package user

import (
	"errors"
	"net/http"
	"regexp"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/pkg/pagination"
	"github.com/jusacademy/courses-server-go/pkg/response"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Handler processes the admin user management endpoints.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a user handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns accounts newest first, paginated.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)

	users, total, err := List(h.db, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"users":      users,
		"pagination": pagination.MetadataFrom(total, params),
	})
}

type createRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
}

// Create provisions a new account. Duplicate emails conflict.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Email, password and name are required")
		return
	}

	if !emailRegex.MatchString(req.Email) {
		response.Error(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	role := types.Role(req.Role)
	if req.Role == "" {
		role = types.RoleMember
	}
	if !role.Valid() {
		response.Error(c, http.StatusBadRequest, "Invalid role")
		return
	}

	usr, err := Create(h.db, CreateInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     role,
	})
	if err != nil {
		h.respondError(c, err, "Failed to create user")
		return
	}

	response.Created(c, usr)
}

// Delete removes an account by ID.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := Delete(h.db, id); err != nil {
		h.respondError(c, err, "Failed to delete user")
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ResetPassword sets a new password for an account without asking for the
// current one. The route sits behind the admin role check.
func (h *Handler) ResetPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Password is required")
		return
	}

	if err := SetPassword(h.db, id, req.Password); err != nil {
		h.respondError(c, err, "Failed to reset password")
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidPassword):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
