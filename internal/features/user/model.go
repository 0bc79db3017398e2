package user

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jusacademy/courses-server-go/pkg/pagination"
	"github.com/jusacademy/courses-server-go/pkg/types"
)

// User represents an account on the platform.
type User struct {
	types.BaseModel

	Email    string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password string     `gorm:"type:varchar(255);not null" json:"-"`
	Name     string     `gorm:"type:varchar(100);not null" json:"name"`
	Role     types.Role `gorm:"type:varchar(20);not null;default:'member';index" json:"role"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// CreateInput carries data for provisioning a new user.
type CreateInput struct {
	Email    string
	Password string
	Name     string
	Role     types.Role
}

// List returns users newest first, with the total count for pagination.
func List(db *gorm.DB, params pagination.Params) ([]User, int64, error) {
	var total int64
	if err := db.Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	if err := db.Order("created_at DESC").Offset(params.Skip).Limit(params.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uuid.UUID) (User, error) {
	var usr User
	if err := db.First(&usr, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func GetByEmail(db *gorm.DB, email string) (User, error) {
	var usr User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := db.First(&usr, "LOWER(email) = ?", normalized).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// Create inserts a new user with a hashed password.
func Create(db *gorm.DB, input CreateInput) (User, error) {
	if len(input.Password) < 8 {
		return User{}, ErrInvalidPassword
	}

	role := input.Role
	if role == "" {
		role = types.RoleMember
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	usr := User{
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hashed,
		Name:     strings.TrimSpace(input.Name),
		Role:     role,
	}

	if err := db.Create(&usr).Error; err != nil {
		if isDuplicateEmail(err) {
			return usr, ErrEmailTaken
		}
		return usr, err
	}

	return usr, nil
}

// Delete removes a user. Their progress rows go with them via the FK cascade.
func Delete(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetPassword replaces the stored hash with one for the new password.
func SetPassword(db *gorm.DB, id uuid.UUID, password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}

	result := db.Model(&User{}).Where("id = ?", id).Update("password", hashed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a plaintext password against the stored hash.
func (u *User) ComparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func isDuplicateEmail(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "users_email_key")
}
