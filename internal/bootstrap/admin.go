package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/internal/features/user"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// EnsureDefaultAdmin creates the initial admin account from configuration so
// a fresh deployment is reachable. It does nothing when the account already
// exists or when no credentials are configured.
func EnsureDefaultAdmin(db *gorm.DB, email, password string, logger *slog.Logger) error {
	if email == "" || password == "" {
		logger.Debug("default admin bootstrap skipped, no credentials configured")
		return nil
	}

	var existing user.User
	err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, createErr := user.Create(db, user.CreateInput{
			Email:    email,
			Password: password,
			Name:     "Administrator",
			Role:     types.RoleAdmin,
		})
		if createErr != nil {
			if isUndefinedTableError(createErr) {
				logger.Warn("default admin skipped, users table missing", slog.String("email", email))
				return nil
			}
			return fmt.Errorf("create default admin: %w", createErr)
		}

		logger.Info("default admin created", slog.String("email", email))
		return nil

	case err != nil:
		if isUndefinedTableError(err) {
			logger.Warn("default admin skipped, users table missing", slog.String("email", email))
			return nil
		}
		return fmt.Errorf("look up default admin: %w", err)
	}

	return nil
}

func isUndefinedTableError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "no such table")
}
